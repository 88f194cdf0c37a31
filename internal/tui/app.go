package tui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/manju/internal/config"
	"github.com/f3rmion/manju/internal/manchu"
	"github.com/f3rmion/manju/internal/tui/bigchar"
	"github.com/f3rmion/manju/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewConvert ViewType = iota
	ViewTable
	ViewFilePicker
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// FileLoadedMsg carries the contents of a text file opened from the picker.
type FileLoadedMsg struct {
	Path string
	Text string
	Err  error
}

// AppModel is the main TUI model.
type AppModel struct {
	config *config.Config

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	convertView    views.ConvertModel
	tableView      views.TableModel
	filePickerView views.FilePickerModel

	loadedPath string
	loadErr    error

	showHelp bool
}

// NewApp creates the TUI application. cfg and renderer may be nil.
func NewApp(cfg *config.Config, renderer *bigchar.Renderer) AppModel {
	if cfg == nil {
		cfg = config.Default()
	}

	return AppModel{
		config:       cfg,
		sidebarWidth: 18,
		currentView:  ViewConvert,
		menuItems: []MenuItem{
			{Label: "Convert", View: ViewConvert, Shortcut: "1"},
			{Label: "Table", View: ViewTable, Shortcut: "2"},
			{Label: "Open File", View: ViewFilePicker, Shortcut: "3"},
		},

		convertView:    views.NewConvertModel(cfg.IgnoreErrors, renderer),
		tableView:      views.NewTableModel(manchu.DefaultTable()),
		filePickerView: views.NewFilePickerModel("", ".txt", ".text"),
	}
}

// NewAppWithText creates the application with the convert view pre-filled.
func NewAppWithText(cfg *config.Config, renderer *bigchar.Renderer, text string) AppModel {
	app := NewApp(cfg, renderer)
	app.convertView.SetInput(text)
	return app
}

// CurrentView returns the active view.
func (m AppModel) CurrentView() ViewType {
	return m.currentView
}

// Convert returns the convert view.
func (m AppModel) Convert() views.ConvertModel {
	return m.convertView
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	m.sidebarActive = false
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.sidebarActive = true
			return m, nil
		case "tab":
			m.sidebarActive = !m.sidebarActive
			return m, nil
		}

		// Single-letter shortcuts only apply while the sidebar has focus so
		// they never steal input from the textarea.
		if m.sidebarActive {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
			case "1", "2", "3":
				i := int(msg.String()[0] - '1')
				m.switchTo(m.menuItems[i].View)
			case "j", "down":
				m.selectedMenu = min(m.selectedMenu+1, len(m.menuItems)-1)
			case "k", "up":
				m.selectedMenu = max(m.selectedMenu-1, 0)
			case "enter", "l", "right":
				m.switchTo(m.menuItems[m.selectedMenu].View)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.convertView.SetSize(contentWidth, contentHeight)
		m.tableView.SetSize(contentWidth, contentHeight)
		m.filePickerView.SetSize(contentWidth, contentHeight)
		return m, nil

	case views.FileSelectedMsg:
		return m, loadTextFile(msg.Path)

	case FileLoadedMsg:
		m.loadErr = msg.Err
		if msg.Err != nil {
			slog.Warn("open file failed", "path", msg.Path, "error", msg.Err)
			return m, nil
		}
		m.loadedPath = msg.Path
		m.convertView.SetInput(msg.Text)
		m.switchTo(ViewConvert)
		slog.Debug("file loaded", "path", msg.Path, "bytes", len(msg.Text))
		return m, nil
	}

	if m.sidebarActive {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewConvert:
		m.convertView, cmd = m.convertView.Update(msg)
	case ViewTable:
		m.tableView, cmd = m.tableView.Update(msg)
	case ViewFilePicker:
		m.filePickerView, cmd = m.filePickerView.Update(msg)
	}
	return m, cmd
}

func loadTextFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return FileLoadedMsg{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
		}
		return FileLoadedMsg{Path: path, Text: strings.TrimRight(string(data), "\n")}
	}
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.currentView {
	case ViewConvert:
		content = m.convertView.View()
	case ViewTable:
		content = m.tableView.View()
	case ViewFilePicker:
		content = m.filePickerView.View()
	}

	mainContent := ContentStyle.
		Width(m.width - m.sidebarWidth - 4).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), mainContent)
}

func (m AppModel) renderSidebar() string {
	items := []string{SidebarTitleStyle.Render(" ᠮᠠᠨᠵᡠ manju "), ""}

	for i, item := range m.menuItems {
		style := SidebarItemStyle
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		}
		items = append(items, style.Render(item.Shortcut+". "+item.Label))
	}

	if m.loadedPath != "" {
		items = append(items, "", SidebarItemStyle.Render(truncate(m.loadedPath, m.sidebarWidth-2)))
	}
	if m.loadErr != nil {
		items = append(items, "", SidebarItemStyle.Foreground(ColorPrimary).Render("load failed"))
	}

	// account for borders and help
	for used := len(items) + 4; used < m.height-2; used++ {
		items = append(items, "")
	}

	focus := "esc menu"
	if m.sidebarActive {
		focus = "tab back"
	}
	items = append(items, SidebarHelpStyle.Render("? help  q quit\n"+focus))

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

// truncate keeps the tail of a path, which is the informative part.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}

func (m AppModel) renderHelp() string {
	type binding struct{ key, desc string }
	sections := []struct {
		title string
		keys  []binding
	}{
		{"Global", []binding{
			{"esc / tab", "Focus sidebar"},
			{"1-3", "Switch views (sidebar)"},
			{"?", "Show this help (sidebar)"},
			{"q / ctrl+c", "Quit"},
		}},
		{"Convert", []binding{
			{"ctrl+t", "Toggle tolerant mode"},
			{"ctrl+y", "Copy Manchu output"},
			{"ctrl+l", "Clear input"},
		}},
		{"Table", []binding{
			{"j/k ↑/↓", "Scroll"},
			{"g/G", "Top / bottom"},
		}},
		{"Open File", []binding{
			{"enter", "Open file or directory"},
			{"backspace", "Parent directory"},
			{"~", "Home directory"},
		}},
	}

	var b strings.Builder
	b.WriteString(HelpTitleStyle.Render("manju: romanized Manchu to script"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString(HelpSectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, k := range s.keys {
			b.WriteString(HelpKeyStyle.Render(k.key) + HelpDescStyle.Render(k.desc) + "\n")
		}
	}
	b.WriteString("\n" + SidebarHelpStyle.Italic(true).Render("Press any key to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpBoxStyle.Render(b.String()))
}
