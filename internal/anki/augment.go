package anki

import (
	"fmt"
	"unicode"

	"github.com/f3rmion/manju/internal/manchu"
)

// AugmentedNote records the Manchu text produced for one note.
type AugmentedNote struct {
	NoteID int64    `json:"note_id"`
	Source string   `json:"source"`
	Manchu string   `json:"manchu,omitempty"`
	Failed []string `json:"failed,omitempty"`
}

// OK reports whether the note's source converted without failures.
func (a AugmentedNote) OK() bool {
	return len(a.Failed) == 0
}

// Augment converts sourceField of every note into targetField, adding the
// target field to each affected model. Notes whose source fails to convert
// are reported with their failed words and left unchanged.
func Augment(pkg *Package, conv *manchu.Converter, sourceField, targetField string) ([]AugmentedNote, error) {
	var results []AugmentedNote

	for _, note := range pkg.Notes {
		model := pkg.GetModel(note)
		if model == nil {
			continue
		}
		if _, ok := model.FieldOrd(sourceField); !ok {
			continue
		}

		source := StripHTML(pkg.GetFieldValue(note, sourceField))
		if source == "" {
			continue
		}

		res := conv.Analyze(source)
		aug := AugmentedNote{NoteID: note.ID, Source: source, Failed: res.Failed}
		if aug.OK() {
			aug.Manchu = res.Text()
			if err := pkg.AddField(model.ID, targetField); err != nil {
				return nil, err
			}
			if err := pkg.SetField(note, targetField, aug.Manchu); err != nil {
				return nil, fmt.Errorf("setting %s on note %d: %w", targetField, note.ID, err)
			}
		}
		results = append(results, aug)
	}

	return results, nil
}

// DetectRomanizedField returns the first field, looking at up to ten notes,
// whose text is Latin script and has no unmappable word. The check is the
// same in tolerant mode, where conversion itself never fails.
func DetectRomanizedField(pkg *Package, conv *manchu.Converter) string {
	for i, note := range pkg.Notes {
		if i >= 10 {
			break
		}
		names := pkg.GetFieldNames(note)
		for j, value := range note.Fields {
			if j >= len(names) {
				break
			}
			text := StripHTML(value)
			if text == "" || !isLatin(text) {
				continue
			}
			if convertsCleanly(conv, text) {
				return names[j]
			}
		}
	}
	return ""
}

func convertsCleanly(conv *manchu.Converter, text string) bool {
	for _, line := range conv.Analyze(text).Lines {
		for _, w := range line.Words {
			if !w.OK() {
				return false
			}
		}
	}
	return true
}

func isLatin(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.Is(unicode.Latin, r) {
			return false
		}
	}
	return true
}
