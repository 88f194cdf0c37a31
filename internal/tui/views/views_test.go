package views

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/manju/internal/manchu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConvertModelLiveConversion(t *testing.T) {
	m := NewConvertModel(false, nil)
	m.SetSize(80, 30)

	m, _ = m.Update(keys("manju"))
	assert.Equal(t, "manju", m.Input())
	require.NoError(t, m.Result().Err())
	assert.Equal(t, string([]rune{0x182E, 0x1820, 0x1828, 0x1835, 0x1860}), m.Result().Text())
	assert.Contains(t, m.View(), "strict")
}

func TestConvertModelToggleTolerant(t *testing.T) {
	m := NewConvertModel(false, nil)
	m.SetInput("cooha x1")

	var failed *manchu.ConversionError
	require.ErrorAs(t, m.Result().Err(), &failed)
	assert.Equal(t, []string{"x1"}, failed.Words)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, m.IgnoreErrors())
	assert.NoError(t, m.Result().Err())
	assert.Equal(t, "cooha x1", m.Input())
	assert.Contains(t, m.View(), "tolerant")
}

func TestConvertModelCopyRefusesFailedResult(t *testing.T) {
	m := NewConvertModel(false, nil)
	m.SetInput("123")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Nil(t, cmd)
	assert.Error(t, m.copyErr)
}

func TestConvertModelClear(t *testing.T) {
	m := NewConvertModel(false, nil)
	m.SetInput("be")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.Input())
	assert.Empty(t, m.Result().Lines)
}

func TestTableModelScroll(t *testing.T) {
	m := NewTableModel(manchu.DefaultTable())
	m.SetSize(60, 13)

	assert.Contains(t, m.View(), "U+1820")

	m, _ = m.Update(keys("G"))
	assert.Equal(t, len(m.entries)-m.visibleRows(), m.offset)
	assert.Contains(t, m.View(), "U+1876")

	m, _ = m.Update(keys("j"))
	assert.Equal(t, len(m.entries)-m.visibleRows(), m.offset)

	m, _ = m.Update(keys("g"))
	assert.Zero(t, m.offset)
}

func TestFilePickerFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "texts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "poem.txt"), []byte("cooha be acaha\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deck.apkg"), nil, 0o644))

	m := NewFilePickerModel(dir, ".txt")
	var names []string
	for _, e := range m.Entries() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "texts")
	assert.Contains(t, names, "poem.txt")
	assert.NotContains(t, names, "deck.apkg")
}

func TestFilePickerSelectsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poem.txt")
	require.NoError(t, os.WriteFile(path, []byte("be"), 0o644))

	m := NewFilePickerModel(dir, ".txt")
	for i, e := range m.Entries() {
		if e.Name == "poem.txt" {
			m.moveTo(i)
		}
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, FileSelectedMsg{Path: path}, cmd())
}

func TestFilePickerEntersDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	m := NewFilePickerModel(dir, ".txt")
	for i, e := range m.Entries() {
		if e.Name == "sub" {
			m.moveTo(i)
		}
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, sub, m.currentDir)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, dir, m.currentDir)
	assert.True(t, strings.Contains(m.View(), "Open Romanized Text"))
}
