package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/move-evm/disasm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	moduleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserState int

const (
	stateList browserState = iota
	stateBody
)

// browserModel lists the call sites of a report, filtered by module or
// function name, and shows the body of the selected call.
type browserModel struct {
	report   *disasm.Report
	title    string
	visible  []int
	filter   textinput.Model
	selected int
	state    browserState
}

func newBrowserModel(title string, r *disasm.Report) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "module or function"
	ti.Prompt = "filter: "
	ti.Width = 40
	ti.Focus()

	m := &browserModel{report: r, title: title, filter: ti}
	m.applyFilter()
	return m
}

func (m *browserModel) Init() tea.Cmd {
	return textinput.Blink
}

// applyFilter recomputes the visible calls from the filter text. Matching
// is a case-insensitive substring test on "Module::name".
func (m *browserModel) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, c := range m.report.Calls {
		if needle == "" || strings.Contains(strings.ToLower(c.Module+"::"+c.Name), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.state == stateBody {
				m.state = stateList
				return m, nil
			}
			return m, tea.Quit

		case "up":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateList:
				if len(m.visible) > 0 {
					m.state = stateBody
				}
			case stateBody:
				m.state = stateList
			}
			return m, nil
		}
	}

	if m.state != stateList {
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *browserModel) current() (disasm.Call, bool) {
	if m.selected >= len(m.visible) {
		return disasm.Call{}, false
	}
	return m.report.Calls[m.visible[m.selected]], true
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Move Calls"))
	b.WriteString(" ")
	b.WriteString(m.title)
	b.WriteString("\n\n")

	switch m.state {
	case stateList:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(m.visible) == 0 {
			b.WriteString("No matching calls.\n")
		}
		for i, idx := range m.visible {
			line := formatCall(m.report.Calls[idx])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • enter show • esc quit"))

	case stateBody:
		c, _ := m.current()
		b.WriteString(fmt.Sprintf("%s at offset %d\n\n", funcStyle.Render(c.Name), c.Offset))
		for _, l := range c.Body {
			b.WriteString(fmt.Sprintf("  %3d  %s\n", l.Offset, l.Text))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc back • ctrl+c quit"))
	}

	return b.String()
}

func formatCall(c disasm.Call) string {
	return fmt.Sprintf("%4d  %s::%s", c.Offset, moduleStyle.Render(c.Address+"::"+c.Module), funcStyle.Render(c.Name))
}

func runInteractive(title string, r *disasm.Report) error {
	if title == "" {
		title = "(hex input)"
	}
	p := tea.NewProgram(newBrowserModel(title, r), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
