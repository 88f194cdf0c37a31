package manchu

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Unit is one matched phoneme in a word.
type Unit struct {
	Spelling string `json:"spelling"`   // Table key, e.g. "ng" or "ū"
	Rune     rune   `json:"code_point"` // Manchu code point
	Offset   int    `json:"offset"`     // Grapheme index of the first cluster
	Width    int    `json:"width"`      // Number of grapheme clusters consumed
}

// rule is a multi-cluster unit tried before single-cluster lookup.
type rule struct {
	pattern []string
	unit    string
}

// Order matters: longer units that share a prefix with shorter ones come first.
var rules = []rule{
	{[]string{"c", "'", "y"}, "c'y"},
	{[]string{"t", "s", "'"}, "ts'"},
	{[]string{"n", "g"}, "ng"},
	{[]string{"d", "z"}, "dz"},
	{[]string{"k", "'"}, "k'"},
	{[]string{"g", "'"}, "g'"},
	{[]string{"h", "'"}, "h'"},
}

// apostrophes folds U+2019 and U+02BC to the ASCII apostrophe used by
// the table keys.
var apostrophes = strings.NewReplacer("’", "'", "ʼ", "'")

// graphemes splits a word into normalized grapheme clusters.
func graphemes(word string) []string {
	var out []string
	g := uniseg.NewGraphemes(word)
	for g.Next() {
		out = append(out, apostrophes.Replace(norm.NFC.String(g.Str())))
	}
	return out
}

// matches reports whether pattern occurs in gs at position i.
func (r rule) matches(gs []string, i int) bool {
	if len(gs)-i < len(r.pattern) {
		return false
	}
	for j, p := range r.pattern {
		if gs[i+j] != p {
			return false
		}
	}
	return true
}

// Segment splits a word into phoneme units using greedy longest match.
// Once a unit is chosen it is never revisited.
func (c *Converter) Segment(word string) ([]Unit, error) {
	gs := graphemes(word)
	units := make([]Unit, 0, len(gs))

	for i := 0; i < len(gs); {
		spelling, width := gs[i], 1
		for _, r := range rules {
			if r.matches(gs, i) {
				spelling, width = r.unit, len(r.pattern)
				break
			}
		}

		cp, ok := c.table.Lookup(spelling)
		if !ok {
			return nil, &WordError{Word: word, Offset: i, Grapheme: spelling}
		}
		units = append(units, Unit{Spelling: spelling, Rune: cp, Offset: i, Width: width})
		i += width
	}

	return units, nil
}

// ConvertWord converts a single word to its Manchu code points.
func (c *Converter) ConvertWord(word string) ([]rune, error) {
	units, err := c.Segment(word)
	if err != nil {
		return nil, err
	}
	out := make([]rune, len(units))
	for i, u := range units {
		out[i] = u.Rune
	}
	return out, nil
}
