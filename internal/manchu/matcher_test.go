package manchu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertWord(t *testing.T) {
	c := NewConverter(Options{})

	tests := []struct {
		word string
		want []rune
	}{
		{"takūrafi", []rune{0x1868, 0x1820, 0x1874, 0x1861, 0x1875, 0x1820, 0x1876, 0x1873}},
		{"manju", []rune{0x182E, 0x1820, 0x1828, 0x1835, 0x1860}},
		{"takvrafi", []rune{0x1868, 0x1820, 0x1874, 0x1861, 0x1875, 0x1820, 0x1876, 0x1873}},
		{"ng", []rune{0x1829}},
		{"wesimburengge", []rune{0x1838, 0x185D, 0x1830, 0x1873, 0x182E, 0x182A, 0x1860, 0x1875, 0x185D, 0x1829, 0x1864, 0x185D}},
		{"c'y", []rune{0x1871}},
		{"ts'ai", []rune{0x186E, 0x1820, 0x1873}},
		{"dzi", []rune{0x186F, 0x1873}},
		{"k'o", []rune{0x183B, 0x1823}},
		{"g'o", []rune{0x186C, 0x1823}},
		{"h'o", []rune{0x186D, 0x1823}},
		{"ts", []rune{0x1868, 0x1830}},
		{"šuwe", []rune{0x1867, 0x1860, 0x1838, 0x185D}},
		{"xuwe", []rune{0x1867, 0x1860, 0x1838, 0x185D}},
		{"", []rune{}},
	}

	for _, tt := range tests {
		got, err := c.ConvertWord(tt.word)
		require.NoError(t, err, "ConvertWord(%q)", tt.word)
		assert.Equal(t, tt.want, got, "ConvertWord(%q)", tt.word)
	}
}

func TestConvertWordPrefersLongerUnit(t *testing.T) {
	c := NewConverter(Options{})

	// Each multi-cluster unit yields one code point fewer than its
	// characters would on their own.
	for _, word := range []string{"ng", "dz", "k'", "g'", "h'", "ts'", "c'y"} {
		got, err := c.ConvertWord(word)
		require.NoError(t, err, word)
		assert.Len(t, got, 1, word)
	}

	got, err := c.ConvertWord("angga")
	require.NoError(t, err)
	assert.Equal(t, []rune{0x1820, 0x1829, 0x1864, 0x1820}, got)
	assert.NotContains(t, got, rune(0x1828))
}

func TestConvertWordNormalizesClusters(t *testing.T) {
	c := NewConverter(Options{})

	decomposed, err := c.ConvertWord("taku\u0304rafi")
	require.NoError(t, err)
	composed, err := c.ConvertWord("takūrafi")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)

	got, err := c.ConvertWord("k\u2019o")
	require.NoError(t, err)
	assert.Equal(t, []rune{0x183B, 0x1823}, got)

	got, err = c.ConvertWord("h\u02BCo")
	require.NoError(t, err)
	assert.Equal(t, []rune{0x186D, 0x1823}, got)
}

func TestConvertWordFailures(t *testing.T) {
	c := NewConverter(Options{})

	tests := []struct {
		word     string
		offset   int
		grapheme string
	}{
		{"Manju", 0, "M"},
		{"x1", 1, "1"},
		{"qa", 0, "q"},
		{"ng'", 2, "'"},
		{"c'", 1, "'"},
		{"c'a", 1, "'"},
		{"t'", 1, "'"},
		{"z", 0, "z"},
	}

	for _, tt := range tests {
		got, err := c.ConvertWord(tt.word)
		assert.Nil(t, got)
		require.Error(t, err, tt.word)
		assert.True(t, errors.Is(err, ErrUnmappable), tt.word)

		var we *WordError
		require.True(t, errors.As(err, &we), tt.word)
		assert.Equal(t, tt.word, we.Word)
		assert.Equal(t, tt.offset, we.Offset, tt.word)
		assert.Equal(t, tt.grapheme, we.Grapheme, tt.word)
	}
}

func TestSegmentOffsets(t *testing.T) {
	c := NewConverter(Options{})

	units, err := c.Segment("ts'ungge")
	require.NoError(t, err)

	want := []Unit{
		{Spelling: "ts'", Rune: 0x186E, Offset: 0, Width: 3},
		{Spelling: "u", Rune: 0x1860, Offset: 3, Width: 1},
		{Spelling: "ng", Rune: 0x1829, Offset: 4, Width: 2},
		{Spelling: "g", Rune: 0x1864, Offset: 6, Width: 1},
		{Spelling: "e", Rune: 0x185D, Offset: 7, Width: 1},
	}
	assert.Equal(t, want, units)
}

func TestSegmentMissingUnitFailsWord(t *testing.T) {
	// "ng" is matched as a unit even when the table lacks it.
	c := NewConverter(Options{Table: NewTable([]Entry{{"n", 0x1828}, {"g", 0x1864}})})

	_, err := c.Segment("ng")
	var we *WordError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, "ng", we.Grapheme)
	assert.Equal(t, 0, we.Offset)
}

func TestSegmentToleranceDoesNotSalvage(t *testing.T) {
	c := NewConverter(Options{IgnoreErrors: true})

	units, err := c.Segment("abc1")
	assert.Nil(t, units)
	assert.ErrorIs(t, err, ErrUnmappable)
}
