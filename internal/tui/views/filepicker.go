package views

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// FileSelectedMsg is sent when a file is selected
type FileSelectedMsg struct {
	Path string
}

// FileEntry represents a file or directory
type FileEntry struct {
	Name  string
	IsDir bool
	Path  string
}

// FilePickerModel is the file picker view model.
type FilePickerModel struct {
	currentDir string
	entries    []FileEntry
	selected   int
	offset     int // For scrolling

	extensions []string // Filter to these extensions

	err error

	width  int
	height int
}

// NewFilePickerModel creates a file picker rooted at startDir that lists
// files with the given extensions. An empty startDir means the working directory.
func NewFilePickerModel(startDir string, extensions ...string) FilePickerModel {
	if startDir == "" {
		startDir, _ = os.Getwd()
	}
	if startDir == "" {
		startDir, _ = os.UserHomeDir()
	}

	m := FilePickerModel{
		currentDir: startDir,
		extensions: extensions,
	}
	m.loadDir()
	return m
}

// Entries returns the entries of the current directory.
func (m FilePickerModel) Entries() []FileEntry {
	return m.entries
}

// SetSize updates the view dimensions.
func (m *FilePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// loadDir loads the entries from the current directory
func (m *FilePickerModel) loadDir() {
	m.entries = nil
	m.selected = 0
	m.offset = 0
	m.err = nil

	entries, err := os.ReadDir(m.currentDir)
	if err != nil {
		m.err = err
		return
	}

	// Add parent directory entry
	if m.currentDir != "/" {
		m.entries = append(m.entries, FileEntry{
			Name:  "..",
			IsDir: true,
			Path:  filepath.Dir(m.currentDir),
		})
	}

	// Separate dirs and files
	var dirs, files []FileEntry

	for _, entry := range entries {
		// Skip hidden files
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		fe := FileEntry{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
			Path:  filepath.Join(m.currentDir, entry.Name()),
		}

		if entry.IsDir() {
			dirs = append(dirs, fe)
		} else {
			// Filter by extension
			if m.matchesExtension(entry.Name()) {
				files = append(files, fe)
			}
		}
	}

	byName := func(a, b FileEntry) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)

	// Dirs first, then files
	m.entries = append(m.entries, dirs...)
	m.entries = append(m.entries, files...)
}

func (m *FilePickerModel) matchesExtension(name string) bool {
	if len(m.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range m.extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Update handles messages.
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	page := m.visibleRows() / 2
	switch key.String() {
	case "j", "down":
		m.moveTo(m.selected + 1)
	case "k", "up":
		m.moveTo(m.selected - 1)
	case "ctrl+d":
		m.moveTo(m.selected + page)
	case "ctrl+u":
		m.moveTo(m.selected - page)
	case "g":
		m.moveTo(0)
	case "G":
		m.moveTo(len(m.entries) - 1)
	case "enter", "l", "right":
		if m.selected >= len(m.entries) {
			return m, nil
		}
		entry := m.entries[m.selected]
		if !entry.IsDir {
			return m, func() tea.Msg {
				return FileSelectedMsg{Path: entry.Path}
			}
		}
		m.chdir(entry.Path)
	case "backspace", "h":
		m.chdir(filepath.Dir(m.currentDir))
	case "~":
		if home, _ := os.UserHomeDir(); home != "" {
			m.chdir(home)
		}
	}

	return m, nil
}

func (m *FilePickerModel) chdir(dir string) {
	if dir == m.currentDir {
		return
	}
	m.currentDir = dir
	m.loadDir()
}

// moveTo selects entry i, clamped to the list, and scrolls it into view.
func (m *FilePickerModel) moveTo(i int) {
	m.selected = max(min(i, len(m.entries)-1), 0)

	rows := m.visibleRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
}

// visibleRows is the list height left after header, path and help.
func (m *FilePickerModel) visibleRows() int {
	return max(m.height-8, 5)
}

// View renders the file picker.
func (m FilePickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Open Romanized Text"))
	b.WriteString("\n\n")

	// Current path
	b.WriteString(helpStyle.Italic(true).Render(m.currentDir))
	b.WriteString("\n")

	// Error
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("─", max(min(m.width-4, 60), 0))))
	b.WriteString("\n")

	// File list
	visibleHeight := m.visibleRows()
	start := m.offset
	end := start + visibleHeight
	if end > len(m.entries) {
		end = len(m.entries)
	}

	if len(m.entries) == 0 {
		b.WriteString(helpStyle.Render("  (no matching files)"))
		b.WriteString("\n")
	}

	for i := start; i < end; i++ {
		entry := m.entries[i]

		label := "[FILE] " + entry.Name
		style := valueStyle
		if entry.IsDir {
			label = "[DIR]  " + entry.Name
			style = subtitleStyle.Bold(true)
		}

		prefix := "  "
		if i == m.selected {
			prefix = "> "
			style = selectedStyle
		}
		b.WriteString(prefix)
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}

	// Scrollbar indicator
	if len(m.entries) > visibleHeight {
		scrollInfo := helpStyle.Render(strings.Repeat(" ", 50) + "↕ scroll")
		b.WriteString(scrollInfo)
		b.WriteString("\n")
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("─", max(min(m.width-4, 60), 0))))
	b.WriteString("\n")

	// Help
	help := helpStyle.Render("enter: open • backspace: parent • ~: home • esc: menu")
	b.WriteString(help)

	return b.String()
}
