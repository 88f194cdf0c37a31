package anki

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes HTML tags, decodes entities such as &nbsp; and
// trims surrounding whitespace.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTag.ReplaceAllString(s, "")))
}

// AddField appends a field to a model unless one with that name exists.
// Notes using the model get an empty value for the new field.
func (p *Package) AddField(modelID int64, name string) error {
	model, ok := p.Models[modelID]
	if !ok {
		return fmt.Errorf("model %d not found", modelID)
	}
	if _, exists := model.FieldOrd(name); exists {
		return nil
	}

	model.Fields = append(model.Fields, Field{
		Name: name,
		Ord:  len(model.Fields),
		Font: "Noto Sans Mongolian",
		Size: 28,
	})

	for _, note := range p.Notes {
		if note.ModelID != modelID {
			continue
		}
		for len(note.Fields) < len(model.Fields) {
			note.Fields = append(note.Fields, "")
		}
		note.dirty = true
	}

	return nil
}

// SetField sets a note's field by name.
func (p *Package) SetField(note *Note, name, value string) error {
	model := p.GetModel(note)
	if model == nil {
		return fmt.Errorf("model not found for note %d", note.ID)
	}
	ord, ok := model.FieldOrd(name)
	if !ok {
		return fmt.Errorf("note %d has no field %q", note.ID, name)
	}

	for len(note.Fields) < len(model.Fields) {
		note.Fields = append(note.Fields, "")
	}
	note.Fields[ord] = value
	note.Mod = time.Now().Unix()
	note.dirty = true

	return nil
}

// SaveAs writes the package, with any changes, to a new .apkg file.
func (p *Package) SaveAs(outputPath string) error {
	if err := p.updateDatabase(); err != nil {
		return fmt.Errorf("updating database: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	zw := zip.NewWriter(outFile)
	walkErr := filepath.Walk(p.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(p.tempDir, path)
		if err != nil {
			return err
		}
		return addZipFile(zw, path, filepath.ToSlash(rel))
	})

	closeErr := zw.Close()
	fileErr := outFile.Close()

	switch {
	case walkErr != nil:
		return fmt.Errorf("creating zip: %w", walkErr)
	case closeErr != nil:
		return fmt.Errorf("finishing zip: %w", closeErr)
	case fileErr != nil:
		return fmt.Errorf("closing output file: %w", fileErr)
	}
	return nil
}

func addZipFile(zw *zip.Writer, path, name string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// updateDatabase writes models and changed notes back to SQLite.
func (p *Package) updateDatabase() error {
	if err := p.updateModels(); err != nil {
		return err
	}
	return p.updateNotes()
}

// updateModels rewrites the models JSON, keeping keys we don't model.
func (p *Package) updateModels() error {
	modelsMap := make(map[string]map[string]any, len(p.Models))
	for id, model := range p.Models {
		m := make(map[string]any, len(model.raw)+5)
		for k, v := range model.raw {
			m[k] = v
		}
		m["id"] = model.ID
		m["name"] = model.Name
		m["flds"] = fieldMaps(model.Fields)
		m["css"] = model.CSS
		m["type"] = model.Type
		modelsMap[strconv.FormatInt(id, 10)] = m
	}

	modelsJSON, err := json.Marshal(modelsMap)
	if err != nil {
		return fmt.Errorf("marshaling models: %w", err)
	}

	if _, err := p.db.Exec("UPDATE col SET models = ?", string(modelsJSON)); err != nil {
		return fmt.Errorf("updating models: %w", err)
	}
	return nil
}

// fieldMaps merges each field's modelled keys over the keys it was loaded with.
func fieldMaps(fields []Field) []map[string]any {
	out := make([]map[string]any, len(fields))
	for i, f := range fields {
		m := make(map[string]any, len(f.raw)+6)
		for k, v := range f.raw {
			m[k] = v
		}
		m["name"] = f.Name
		m["ord"] = f.Ord
		m["sticky"] = f.Sticky
		m["rtl"] = f.RTL
		m["font"] = f.Font
		m["size"] = f.Size
		out[i] = m
	}
	return out
}

// updateNotes writes back every note changed since the package was opened.
func (p *Package) updateNotes() error {
	for _, note := range p.Notes {
		if !note.dirty {
			continue
		}
		if len(note.Fields) > 0 {
			note.CSum = fieldChecksum(note.Fields[0])
		}

		_, err := p.db.Exec(`
			UPDATE notes SET
				mod = ?,
				flds = ?,
				csum = ?
			WHERE id = ?
		`, note.Mod, strings.Join(note.Fields, fieldSep), note.CSum, note.ID)
		if err != nil {
			return fmt.Errorf("updating note %d: %w", note.ID, err)
		}
		note.dirty = false
	}

	return nil
}

// fieldChecksum is Anki's duplicate-check hash: the first 8 hex digits
// of the SHA-1 of the field with HTML removed.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(StripHTML(field)))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return v
}
