package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/manju/internal/clipboard"
	"github.com/f3rmion/manju/internal/manchu"
	"github.com/f3rmion/manju/internal/tui/bigchar"
)

type copiedMsg struct {
	err error
}

type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// ConvertModel is the live conversion view.
type ConvertModel struct {
	input    textarea.Model
	conv     *manchu.Converter
	result   manchu.Result
	renderer *bigchar.Renderer

	copied  bool
	copyErr error

	width  int
	height int
}

// NewConvertModel creates the conversion view. renderer may be nil.
func NewConvertModel(ignoreErrors bool, renderer *bigchar.Renderer) ConvertModel {
	ta := textarea.New()
	ta.Placeholder = "Type romanized Manchu, e.g. cooha be acaha"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)
	ta.Focus()

	m := ConvertModel{
		input:    ta,
		conv:     manchu.NewConverter(manchu.Options{IgnoreErrors: ignoreErrors}),
		renderer: renderer,
	}
	m.reconvert()
	return m
}

// SetSize updates the view dimensions.
func (m *ConvertModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(max(width-4, 20))
}

// SetInput replaces the input text and converts it.
func (m *ConvertModel) SetInput(text string) {
	m.input.SetValue(text)
	m.reconvert()
}

// Input returns the current romanized text.
func (m ConvertModel) Input() string {
	return m.input.Value()
}

// Result returns the latest conversion.
func (m ConvertModel) Result() manchu.Result {
	return m.result
}

// IgnoreErrors reports whether tolerant mode is on.
func (m ConvertModel) IgnoreErrors() bool {
	return m.conv.IgnoresErrors()
}

func (m *ConvertModel) reconvert() {
	m.result = m.conv.Analyze(m.input.Value())
}

// Update handles messages.
func (m ConvertModel) Update(msg tea.Msg) (ConvertModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+t":
			m.conv = manchu.NewConverter(manchu.Options{IgnoreErrors: !m.conv.IgnoresErrors()})
			m.reconvert()
			return m, nil
		case "ctrl+y":
			if m.result.Err() != nil {
				m.copyErr = m.result.Err()
				return m, nil
			}
			text := m.result.Text()
			return m, func() tea.Msg {
				return copiedMsg{err: clipboard.Write(text)}
			}
		case "ctrl+l":
			m.SetInput("")
			return m, nil
		}

	case copiedMsg:
		m.copyErr = msg.err
		m.copied = msg.err == nil
		if m.copied {
			return m, clearCopiedAfter(2 * time.Second)
		}
		return m, nil

	case clearCopiedMsg:
		m.copied = false
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.copyErr = nil
		m.reconvert()
	}
	return m, cmd
}

// View renders the conversion view.
func (m ConvertModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Romanized → Manchu"))
	b.WriteString("  ")
	if m.IgnoreErrors() {
		b.WriteString(subtitleStyle.Render("tolerant"))
	} else {
		b.WriteString(subtitleStyle.Render("strict"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Manchu"))
	b.WriteString("\n")
	b.WriteString(boxStyle.Width(max(m.width-4, 20)).Render(m.renderOutput()))
	b.WriteString("\n")

	if err := m.result.Err(); err != nil {
		b.WriteString(errorStyle.Render(err.Error()))
		b.WriteString("\n")
	} else if m.copyErr != nil {
		b.WriteString(errorStyle.Render("Copy failed: " + m.copyErr.Error()))
		b.WriteString("\n")
	} else if m.copied {
		b.WriteString(copiedStyle.Render("Copied to clipboard"))
		b.WriteString("\n")
	}

	if glyphs := m.renderGlyphs(); glyphs != "" {
		b.WriteString("\n")
		b.WriteString(glyphs)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("ctrl+t: strict/tolerant • ctrl+y: copy • ctrl+l: clear • esc: menu"))

	return b.String()
}

// renderOutput shows converted words, with failed words highlighted.
func (m ConvertModel) renderOutput() string {
	lines := make([]string, len(m.result.Lines))
	for i, line := range m.result.Lines {
		words := make([]string, len(line.Words))
		for j, w := range line.Words {
			if w.OK() {
				words[j] = scriptStyle.Render(w.Output)
			} else {
				words[j] = errorStyle.Render(w.Output)
			}
		}
		lines[i] = strings.Join(words, " ")
	}
	return strings.Join(lines, "\n")
}

// renderGlyphs draws the units of the last converted word as block art.
func (m ConvertModel) renderGlyphs() string {
	if m.renderer == nil {
		return ""
	}

	var last *manchu.WordResult
	for i := range m.result.Lines {
		for j := range m.result.Lines[i].Words {
			if w := &m.result.Lines[i].Words[j]; w.OK() {
				last = w
			}
		}
	}
	if last == nil {
		return ""
	}

	const maxGlyphs = 8
	var cells []string
	for i, u := range last.Units {
		if i == maxGlyphs {
			break
		}
		art := m.renderer.Render(u.Rune, 10, 5)
		if art == "" {
			continue
		}
		caption := helpStyle.Render(fmt.Sprintf("%s U+%04X", u.Spelling, u.Rune))
		cells = append(cells, lipgloss.JoinVertical(lipgloss.Center, glyphStyle.Render(art), caption))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
