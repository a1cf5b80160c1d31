// Package tui implements the interactive defaults editor.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/footprint-tools/argutil/internal/config"
	"github.com/footprint-tools/argutil/internal/deepcopy"
	"github.com/footprint-tools/argutil/internal/domain"
	"github.com/footprint-tools/argutil/internal/ui/splitpanel"
	"github.com/footprint-tools/argutil/internal/ui/style"
)

// SaveFunc persists the edited defaults mapping.
type SaveFunc func(values map[string]any) error

// Result reports how an editing session ended.
type Result struct {
	Changed   bool
	Cancelled bool
}

// Model is the bubbletea model of the editor. Every change is saved
// immediately through the SaveFunc.
type Model struct {
	title  string
	fields []Field
	values map[string]any
	save   SaveFunc

	keys  keyMap
	input textinput.Model
	help  help.Model

	cursor       int
	scroll       int
	width        int
	height       int
	focusSidebar bool
	editing      bool

	message        string
	messageIsError bool
	changed        bool
	cancelled      bool
}

// New creates an editor over a copy of values.
func New(title string, fields []Field, values map[string]any, save SaveFunc) Model {
	if values == nil {
		values = map[string]any{}
	}
	input := textinput.New()
	input.Prompt = ""
	return Model{
		title:        title,
		fields:       fields,
		values:       deepcopy.Copy(values),
		save:         save,
		keys:         defaultKeyMap(),
		input:        input,
		help:         help.New(),
		focusSidebar: true,
	}
}

// Run starts the editor and blocks until it exits.
func Run(title string, fields []Field, values map[string]any, save SaveFunc, opts ...tea.ProgramOption) (Result, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(New(title, fields, values, save), opts...).Run()
	if err != nil {
		return Result{}, err
	}
	m := final.(Model)
	return m.Result(), nil
}

// Result returns the session outcome.
func (m Model) Result() Result {
	return Result{Changed: m.changed, Cancelled: m.cancelled}
}

// Values returns the current defaults mapping.
func (m Model) Values() map[string]any {
	return m.values
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Abort) {
			m.cancelled = true
			return m, tea.Quit
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateNavigation(msg)
	}
	return m, nil
}

func (m Model) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.fields) == 0 {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Switch):
		m.focusSidebar = !m.focusSidebar
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + len(m.fields)) % len(m.fields)
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(m.fields)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.fields) - 1
	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.input.SetValue("")
		if v, ok := config.Get(m.values, m.current().Key); ok {
			m.input.SetValue(config.FormatValue(v))
		}
		m.input.CursorEnd()
		m.message = ""
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Unset):
		m.unset()
		return m, nil
	default:
		return m, nil
	}
	m.message = ""
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		m.set(config.ParseText(m.input.Value()))
		m.stopEditing()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Reset()
	m.input.Blur()
}

func (m Model) current() Field {
	return m.fields[m.cursor]
}

func (m *Model) set(value any) {
	next := deepcopy.Copy(m.values)
	if err := domain.SetPath(next, m.current().Key, value); err != nil {
		m.fail(err)
		return
	}
	m.commit(next, "Saved")
}

func (m *Model) unset() {
	next := deepcopy.Copy(m.values)
	if !config.Unset(next, m.current().Key) {
		m.message = "No value to unset"
		m.messageIsError = false
		return
	}
	m.commit(next, "Value cleared")
}

func (m *Model) commit(next map[string]any, message string) {
	if m.save != nil {
		if err := m.save(next); err != nil {
			m.fail(err)
			return
		}
	}
	m.values = next
	m.changed = true
	m.message = message
	m.messageIsError = false
}

func (m *Model) fail(err error) {
	m.message = "Error: " + err.Error()
	m.messageIsError = true
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if len(m.fields) == 0 {
		return "No settings available\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.Quit})
	}

	colors := style.GetColors()
	mainHeight := max(m.height-4, 3)

	layout := splitpanel.NewLayout(m.width, splitpanel.Config{
		SidebarWidthPercent: 0.35,
		SidebarMinWidth:     22,
		SidebarMaxWidth:     40,
	}, colors)
	layout.SetFocus(m.focusSidebar)

	sidebar := m.sidebarPanel(mainHeight)
	detail := m.detailPanel(layout, mainHeight)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(colors),
		layout.Render(sidebar, detail, mainHeight),
		m.footer(),
	)
}

func (m Model) header(colors style.ColorConfig) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Info)).Render(m.title)
	count := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Muted)).Render(fmt.Sprintf(" (%d settings)", len(m.fields)))
	return lipgloss.NewStyle().Width(m.width).Padding(0, 1).Render(title + count)
}

func (m Model) footer() string {
	bindings := m.keys.navigation()
	if m.editing {
		bindings = m.keys.editing()
	}
	return lipgloss.NewStyle().Width(m.width).Padding(0, 1).Render(m.help.ShortHelpView(bindings))
}

func (m *Model) sidebarPanel(height int) splitpanel.Panel {
	colors := style.GetColors()
	visible := max(height-2, 1)

	offset := min(m.scroll, m.cursor)
	if m.cursor >= offset+visible {
		offset = m.cursor - visible + 1
	}
	m.scroll = offset

	selected := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Info))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Muted))

	var lines []string
	for i := offset; i < len(m.fields) && len(lines) < visible; i++ {
		f := m.fields[i]
		_, isSet := config.Get(m.values, f.Key)

		prefix := "  "
		switch {
		case i == m.cursor && m.focusSidebar:
			prefix = "> "
		case i == m.cursor:
			prefix = "* "
		case isSet:
			prefix = "• "
		}

		name := muted.Render(f.Key)
		if i == m.cursor {
			name = selected.Render(f.Key)
		}
		lines = append(lines, prefix+name)
	}

	return splitpanel.Panel{Lines: lines, ScrollPos: offset, TotalItems: len(m.fields)}
}

func (m Model) detailPanel(layout *splitpanel.Layout, height int) splitpanel.Panel {
	colors := style.GetColors()
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Info))
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Info))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Muted))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Success))
	editing := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Warning))

	f := m.current()
	lines := []string{title.Render(f.Key), ""}

	if f.Help != "" {
		lines = append(lines, label.Render("Description"))
		for _, l := range wrap(f.Help, layout.MainContentWidth()-2) {
			lines = append(lines, muted.Render("  "+l))
		}
		lines = append(lines, "")
	}

	if m.editing {
		lines = append(lines, label.Render("Value ")+editing.Render("(editing)"), "  "+m.input.View())
	} else {
		lines = append(lines, label.Render("Value"))
		if v, ok := config.Get(m.values, f.Key); ok {
			lines = append(lines, "  "+value.Render(config.FormatValue(v)))
		} else {
			lines = append(lines, "  "+muted.Render("(not set)"))
		}
	}

	if m.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Success))
		mark := "✓ "
		if m.messageIsError {
			msgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Error))
			mark = "✗ "
		}
		lines = append(lines, "", msgStyle.Render(mark+m.message))
	}

	return splitpanel.Panel{Lines: lines, TotalItems: len(lines)}
}

// wrap splits text into lines of at most width runes at word boundaries.
func wrap(text string, width int) []string {
	if width <= 0 {
		return strings.Split(text, "\n")
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		out = append(out, line)
	}
	return out
}
