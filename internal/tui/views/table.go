package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/manju/internal/manchu"
	"github.com/mattn/go-runewidth"
)

// TableModel lists the phoneme table.
type TableModel struct {
	entries []manchu.Entry
	offset  int

	width  int
	height int
}

// NewTableModel creates the table view for t.
func NewTableModel(t *manchu.Table) TableModel {
	return TableModel{entries: t.Entries()}
}

// SetSize updates the view dimensions.
func (m *TableModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m TableModel) visibleRows() int {
	return max(m.height-8, 5)
}

// Update handles messages.
func (m TableModel) Update(msg tea.Msg) (TableModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		last := max(len(m.entries)-m.visibleRows(), 0)
		switch msg.String() {
		case "j", "down":
			m.offset = min(m.offset+1, last)
		case "k", "up":
			m.offset = max(m.offset-1, 0)
		case "g", "home":
			m.offset = 0
		case "G", "end":
			m.offset = last
		}
	}
	return m, nil
}

// View renders the table.
func (m TableModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Phoneme Table"))
	b.WriteString("\n\n")

	header := runewidth.FillRight("Latin", 8) + runewidth.FillRight("Code", 10) + "Script"
	b.WriteString(labelStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(dividerStyle.Render(strings.Repeat("─", 24)))
	b.WriteString("\n")

	end := min(m.offset+m.visibleRows(), len(m.entries))
	for _, e := range m.entries[m.offset:end] {
		b.WriteString(valueStyle.Render(runewidth.FillRight(e.Spelling, 8)))
		b.WriteString(valueStyle.Render(runewidth.FillRight(fmt.Sprintf("U+%04X", e.Rune), 10)))
		b.WriteString(scriptStyle.Render(string(e.Rune)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d-%d of %d • j/k: scroll • esc: menu", m.offset+1, end, len(m.entries))))

	return b.String()
}
