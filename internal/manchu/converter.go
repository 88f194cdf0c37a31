package manchu

import (
	"strings"
)

// Options configures a Converter.
type Options struct {
	// IgnoreErrors copies unmappable words to the output unchanged
	// instead of failing the conversion.
	IgnoreErrors bool

	// Table overrides the phoneme table. Nil uses DefaultTable.
	Table *Table
}

// Converter turns romanized Manchu text into Manchu script.
// It holds no mutable state and is safe for concurrent use.
type Converter struct {
	table        *Table
	ignoreErrors bool
}

// NewConverter creates a converter.
func NewConverter(opts Options) *Converter {
	t := opts.Table
	if t == nil {
		t = DefaultTable()
	}
	return &Converter{table: t, ignoreErrors: opts.IgnoreErrors}
}

// IgnoresErrors reports whether the converter runs in tolerant mode.
func (c *Converter) IgnoresErrors() bool {
	return c.ignoreErrors
}

// WordResult is the conversion of one input word.
type WordResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Units  []Unit `json:"units,omitempty"`
	Err    error  `json:"-"`
	Error  string `json:"error,omitempty"`
}

// OK reports whether the word converted.
func (w WordResult) OK() bool {
	return w.Err == nil
}

// LineResult holds the words of one input line.
type LineResult struct {
	Words []WordResult `json:"words"`
}

// Result is the full breakdown of a converted text.
type Result struct {
	Lines []LineResult `json:"lines"`

	// Failed lists unmappable words in encounter order. It stays empty
	// in tolerant mode.
	Failed []string `json:"failed,omitempty"`
}

// Text renders the result: words joined by a space, lines by a newline.
// Words that failed appear verbatim. There is no trailing newline.
func (r Result) Text() string {
	var b strings.Builder
	for i, line := range r.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, w := range line.Words {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.Output)
		}
	}
	return b.String()
}

// Err returns the aggregate error for the result, or nil.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return &ConversionError{Words: r.Failed}
}

// Analyze converts every word of text and keeps the per-word detail.
// It never stops at the first failure.
func (c *Converter) Analyze(text string) Result {
	lines := strings.Split(text, "\n")
	res := Result{Lines: make([]LineResult, len(lines))}

	for i, line := range lines {
		words := strings.Fields(line)
		lr := LineResult{Words: make([]WordResult, 0, len(words))}

		for _, word := range words {
			wr := WordResult{Input: word}
			units, err := c.Segment(word)
			if err != nil {
				wr.Output = word
				wr.Err = err
				wr.Error = err.Error()
				if !c.ignoreErrors {
					res.Failed = append(res.Failed, word)
				}
			} else {
				wr.Units = units
				wr.Output = render(units)
			}
			lr.Words = append(lr.Words, wr)
		}

		res.Lines[i] = lr
	}

	// Trailing lines without words are dropped so the text never ends in
	// a newline. Blank lines between words stay.
	for n := len(res.Lines); n > 0 && len(res.Lines[n-1].Words) == 0; n-- {
		res.Lines = res.Lines[:n-1]
	}

	return res
}

// Convert converts text to Manchu script. Outside tolerant mode any
// unmappable word fails the whole call with a *ConversionError and no text.
func (c *Converter) Convert(text string) (string, error) {
	res := c.Analyze(text)
	if err := res.Err(); err != nil {
		return "", err
	}
	return res.Text(), nil
}

// ToManchu converts text with the default table. Passing true as the
// optional argument enables tolerant mode.
func ToManchu(text string, ignoreError ...bool) (string, error) {
	opts := Options{}
	if len(ignoreError) > 0 {
		opts.IgnoreErrors = ignoreError[0]
	}
	return NewConverter(opts).Convert(text)
}

func render(units []Unit) string {
	var b strings.Builder
	b.Grow(len(units) * 3)
	for _, u := range units {
		b.WriteRune(u.Rune)
	}
	return b.String()
}
