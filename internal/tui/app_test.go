package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/manju/internal/config"
	"github.com/f3rmion/manju/internal/tui/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(AppModel)
	require.True(t, ok)
	return app, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppSidebarNavigation(t *testing.T) {
	m := NewApp(nil, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, ViewConvert, m.CurrentView())

	// digits go to the textarea while the content has focus
	m, _ = update(t, m, runes("2"))
	assert.Equal(t, ViewConvert, m.CurrentView())
	assert.Equal(t, "2", m.Convert().Input())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, runes("2"))
	assert.Equal(t, ViewTable, m.CurrentView())
	assert.Contains(t, m.View(), "Phoneme Table")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewFilePicker, m.CurrentView())
}

func TestAppHelpAndQuit(t *testing.T) {
	m := NewApp(config.Default(), nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, runes("?"))
	assert.Contains(t, m.View(), "Toggle tolerant mode")

	m, _ = update(t, m, runes("x"))
	assert.NotContains(t, m.View(), "Press any key to close")

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAppLoadsSelectedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poem.txt")
	require.NoError(t, os.WriteFile(path, []byte("cooha be acaha\n"), 0o644))

	m := NewApp(nil, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m.switchTo(ViewFilePicker)

	m, cmd := update(t, m, views.FileSelectedMsg{Path: path})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, FileLoadedMsg{}, msg)

	m, _ = update(t, m, msg)
	assert.Equal(t, ViewConvert, m.CurrentView())
	assert.Equal(t, "cooha be acaha", m.Convert().Input())
	assert.NoError(t, m.Convert().Result().Err())
}

func TestAppLoadFailureKeepsView(t *testing.T) {
	m := NewApp(nil, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m.switchTo(ViewFilePicker)

	m, cmd := update(t, m, views.FileSelectedMsg{Path: filepath.Join(t.TempDir(), "missing.txt")})
	m, _ = update(t, m, cmd())
	assert.Equal(t, ViewFilePicker, m.CurrentView())
	assert.Error(t, m.loadErr)
	assert.Contains(t, m.View(), "load failed")
}

func TestTruncateKeepsTail(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "…/poem.txt", truncate("/home/user/poem.txt", 10))
}
