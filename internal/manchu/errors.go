package manchu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnmappable reports a word with no valid phoneme segmentation.
var ErrUnmappable = errors.New("valid syllable not found")

// WordError describes why a single word could not be converted.
type WordError struct {
	Word     string // The word as it appeared in the input
	Offset   int    // Grapheme index where matching stopped
	Grapheme string // Cluster (or unit) that had no table entry
}

func (e *WordError) Error() string {
	return fmt.Sprintf("%s in %q: no unit for %q at grapheme %d", ErrUnmappable, e.Word, e.Grapheme, e.Offset)
}

func (e *WordError) Unwrap() error {
	return ErrUnmappable
}

// ConversionError lists every word in a text that failed to convert,
// in the order encountered. Duplicates are kept.
type ConversionError struct {
	Words []string
}

func (e *ConversionError) Error() string {
	quoted := make([]string, len(e.Words))
	for i, w := range e.Words {
		quoted[i] = fmt.Sprintf("%q", w)
	}
	return fmt.Sprintf("%s in [%s]", ErrUnmappable, strings.Join(quoted, " "))
}

func (e *ConversionError) Unwrap() error {
	return ErrUnmappable
}
