// Package anki handles reading and writing Anki .apkg files.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// fieldSep separates note fields in the flds column.
const fieldSep = "\x1f"

// Package is an extracted Anki .apkg file.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB
	Models  map[int64]*Model
	Decks   map[int64]*Deck
	Notes   []*Note
	Cards   []*Card
}

// Model is an Anki note type.
type Model struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"flds"`
	CSS    string  `json:"css"`
	Type   int     `json:"type"` // 0 = standard, 1 = cloze

	// raw keeps keys we don't model (templates, sort field, ...) so
	// they survive a rewrite.
	raw map[string]json.RawMessage
}

// Field is one field of a note type.
type Field struct {
	Name   string `json:"name"`
	Ord    int    `json:"ord"`
	Sticky bool   `json:"sticky"`
	RTL    bool   `json:"rtl"`
	Font   string `json:"font"`
	Size   int    `json:"size"`

	// raw keeps per-field keys we don't model (id, plainText, description, ...).
	raw map[string]json.RawMessage
}

// Deck is an Anki deck.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Note is an Anki note.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Mod     int64
	USN     int
	Tags    string
	Fields  []string
	SFLD    string
	CSum    int64
	Flags   int
	Data    string

	dirty bool
}

// Card is an Anki card. Only the columns needed for summaries are read.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
	Ord    int
}

// OpenPackage extracts an .apkg file and loads its collection.
// Call Close to remove the extracted files.
func OpenPackage(path string) (*Package, error) {
	pkg := &Package{
		path:   path,
		Models: make(map[int64]*Model),
		Decks:  make(map[int64]*Deck),
	}

	tempDir, err := os.MkdirTemp("", "manju-anki-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	pkg.tempDir = tempDir

	if err := pkg.extract(); err != nil {
		pkg.Close()
		return nil, err
	}

	dbPath := filepath.Join(tempDir, "collection.anki21")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = filepath.Join(tempDir, "collection.anki2")
	}
	if _, err := os.Stat(dbPath); err != nil {
		pkg.Close()
		return nil, fmt.Errorf("no collection in %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		pkg.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	pkg.db = db

	for _, load := range []func() error{pkg.loadCollection, pkg.loadNotes, pkg.loadCards} {
		if err := load(); err != nil {
			pkg.Close()
			return nil, err
		}
	}

	return pkg, nil
}

// extract unzips the .apkg file into the temp directory.
func (p *Package) extract() error {
	r, err := zip.OpenReader(p.path)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(p.tempDir) + string(os.PathSeparator)
	for _, f := range r.File {
		fpath := filepath.Join(p.tempDir, f.Name)
		if !strings.HasPrefix(fpath, root) {
			return fmt.Errorf("illegal file path: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, 0755); err != nil {
				return err
			}
			continue
		}

		if err := extractFile(f, fpath); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}

	return nil
}

func extractFile(f *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// loadCollection loads models and decks from the col table.
func (p *Package) loadCollection() error {
	var models, decks string
	if err := p.db.QueryRow("SELECT models, decks FROM col").Scan(&models, &decks); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var modelsMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(models), &modelsMap); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}
	for _, raw := range modelsMap {
		var model Model
		if err := json.Unmarshal(raw, &model); err != nil {
			continue
		}
		if err := json.Unmarshal(raw, &model.raw); err != nil {
			continue
		}
		var rawFields []map[string]json.RawMessage
		if err := json.Unmarshal(model.raw["flds"], &rawFields); err == nil && len(rawFields) == len(model.Fields) {
			for i := range model.Fields {
				model.Fields[i].raw = rawFields[i]
			}
		}
		p.Models[model.ID] = &model
	}

	var decksMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(decks), &decksMap); err != nil {
		return fmt.Errorf("parsing decks: %w", err)
	}
	for _, raw := range decksMap {
		var deck Deck
		if err := json.Unmarshal(raw, &deck); err != nil {
			continue
		}
		p.Decks[deck.ID] = &deck
	}

	return nil
}

// loadNotes loads all notes from the database.
func (p *Package) loadNotes() error {
	rows, err := p.db.Query(`
		SELECT id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data
		FROM notes
		ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var note Note
		var flds string
		if err := rows.Scan(
			&note.ID, &note.GUID, &note.ModelID, &note.Mod, &note.USN,
			&note.Tags, &flds, &note.SFLD, &note.CSum, &note.Flags, &note.Data,
		); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		note.Fields = strings.Split(flds, fieldSep)
		p.Notes = append(p.Notes, &note)
	}

	return rows.Err()
}

// loadCards loads all cards from the database.
func (p *Package) loadCards() error {
	rows, err := p.db.Query("SELECT id, nid, did, ord FROM cards ORDER BY id")
	if err != nil {
		return fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var card Card
		if err := rows.Scan(&card.ID, &card.NoteID, &card.DeckID, &card.Ord); err != nil {
			return fmt.Errorf("scanning card: %w", err)
		}
		p.Cards = append(p.Cards, &card)
	}

	return rows.Err()
}

// Path returns the file the package was opened from.
func (p *Package) Path() string {
	return p.path
}

// GetModel returns the model for a note.
func (p *Package) GetModel(note *Note) *Model {
	return p.Models[note.ModelID]
}

// GetNoteByID finds a note by ID.
func (p *Package) GetNoteByID(id int64) *Note {
	for _, note := range p.Notes {
		if note.ID == id {
			return note
		}
	}
	return nil
}

// FieldOrd returns the position of a field by case-insensitive name.
func (m *Model) FieldOrd(name string) (int, bool) {
	for _, f := range m.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Ord, true
		}
	}
	return 0, false
}

// GetFieldValue returns a note's field value by field name.
func (p *Package) GetFieldValue(note *Note, fieldName string) string {
	model := p.GetModel(note)
	if model == nil {
		return ""
	}
	ord, ok := model.FieldOrd(fieldName)
	if !ok || ord >= len(note.Fields) {
		return ""
	}
	return note.Fields[ord]
}

// GetFieldNames returns all field names for a note's model.
func (p *Package) GetFieldNames(note *Note) []string {
	model := p.GetModel(note)
	if model == nil {
		return nil
	}

	names := make([]string, len(model.Fields))
	for i, field := range model.Fields {
		names[i] = field.Name
	}
	return names
}

// Close releases the database and removes extracted files.
func (p *Package) Close() error {
	var err error
	if p.db != nil {
		err = p.db.Close()
		p.db = nil
	}
	if p.tempDir != "" {
		if rmErr := os.RemoveAll(p.tempDir); err == nil {
			err = rmErr
		}
		p.tempDir = ""
	}
	return err
}

// Summary returns a summary of the package contents.
func (p *Package) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Anki Package: %s\n", p.path)
	fmt.Fprintf(&sb, "  Decks: %d\n", len(p.Decks))
	for _, deck := range p.Decks {
		fmt.Fprintf(&sb, "    - %s\n", deck.Name)
	}
	fmt.Fprintf(&sb, "  Models (Note Types): %d\n", len(p.Models))
	for _, model := range p.Models {
		fmt.Fprintf(&sb, "    - %s (%d fields)\n", model.Name, len(model.Fields))
	}
	fmt.Fprintf(&sb, "  Notes: %d\n", len(p.Notes))
	fmt.Fprintf(&sb, "  Cards: %d\n", len(p.Cards))

	return sb.String()
}
