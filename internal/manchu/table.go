package manchu

import (
	"cmp"
	"slices"
	"sync"
)

// Entry is a single romanized spelling and the code point it maps to.
type Entry struct {
	Spelling string
	Rune     rune
}

// Table maps romanized phoneme spellings to Manchu code points.
// A Table is read-only once built.
type Table struct {
	entries map[string]rune
}

// phonemes is the romanized spelling to code point mapping.
// v and x are input aliases for ū and š.
var phonemes = []Entry{
	{"a", 0x1820},
	{"e", 0x185D},
	{"i", 0x1873},
	{"o", 0x1823},
	{"u", 0x1860},
	{"ū", 0x1861},
	{"v", 0x1861},
	{"n", 0x1828},
	{"ng", 0x1829},
	{"b", 0x182A},
	{"p", 0x1866},
	{"s", 0x1830},
	{"š", 0x1867},
	{"x", 0x1867},
	{"k", 0x1874},
	{"g", 0x1864},
	{"h", 0x1865},
	{"l", 0x182F},
	{"m", 0x182E},
	{"t", 0x1868},
	{"d", 0x1869},
	{"r", 0x1875},
	{"j", 0x1835},
	{"y", 0x1836},
	{"c", 0x1834},
	{"f", 0x1876},
	{"w", 0x1838},
	{"ts'", 0x186E},
	{"dz", 0x186F},
	{"k'", 0x183B},
	{"g'", 0x186C},
	{"h'", 0x186D},
	{"c'y", 0x1871},
}

var defaultTable = sync.OnceValue(func() *Table {
	return NewTable(phonemes)
})

// DefaultTable returns the shared phoneme table.
func DefaultTable() *Table {
	return defaultTable()
}

// NewTable builds a table from entries. Later entries win on duplicate spellings.
func NewTable(entries []Entry) *Table {
	m := make(map[string]rune, len(entries))
	for _, e := range entries {
		m[e.Spelling] = e.Rune
	}
	return &Table{entries: m}
}

// Lookup returns the code point for a romanized spelling.
func (t *Table) Lookup(spelling string) (rune, bool) {
	r, ok := t.entries[spelling]
	return r, ok
}

// Len returns the number of spellings in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns all entries ordered by code point, then spelling.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for s, r := range t.entries {
		out = append(out, Entry{Spelling: s, Rune: r})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(a.Rune, b.Rune); c != 0 {
			return c
		}
		return cmp.Compare(a.Spelling, b.Spelling)
	})
	return out
}
