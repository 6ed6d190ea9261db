// Package browse is an interactive tree browser over rendered values.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/cgdiag/internal/render"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(render.TextColor).
			Background(lipgloss.Color("#1a1a1a")).
			Bold(true).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Foreground(render.MutedColor)
)

type Model struct {
	renderer *render.Renderer
	roots    []*render.Node
	title    string
	color    bool

	open   map[*render.Node]bool
	rows   []row
	cursor int

	viewport viewport.Model
	help     help.Model
	width    int
	height   int
}

func NewModel(renderer *render.Renderer, roots []*render.Node, title string) *Model {
	m := &Model{
		renderer: renderer,
		roots:    roots,
		title:    title,
		color:    renderer.Config().Color,
		open:     make(map[*render.Node]bool),
		viewport: viewport.New(0, 0),
		help:     help.New(),
	}

	// roots start open so the first screen shows something useful
	for _, root := range roots {
		if root.Expandable() {
			renderer.Expand(root)
			m.open[root] = true
		}
	}
	m.rebuildRows()
	return m
}

func StartTUI(renderer *render.Renderer, roots []*render.Node, title string) error {
	program := tea.NewProgram(
		NewModel(renderer, roots, title),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.move(-1)
		case key.Matches(msg, keys.Down):
			m.move(1)
		case key.Matches(msg, keys.PageUp):
			m.move(-max(m.viewport.Height, 1))
		case key.Matches(msg, keys.PageDown):
			m.move(max(m.viewport.Height, 1))
		case key.Matches(msg, keys.Top):
			m.cursor = 0
		case key.Matches(msg, keys.Bottom):
			m.move(len(m.rows))
		case key.Matches(msg, keys.Expand):
			if !m.expand() {
				m.move(1)
			}
		case key.Matches(msg, keys.Collapse):
			if !m.collapse() {
				m.parent()
			}
		case key.Matches(msg, keys.Toggle):
			m.toggle()
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
		}
	}

	m.refresh()
	return m, nil
}

func (m *Model) layout() {
	header := lipgloss.Height(m.renderHeader())
	helpHeight := lipgloss.Height(m.help.View(keys))

	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-header-helpHeight, 1)
}

// refresh redraws the rows and keeps the cursor inside the viewport
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderRows())

	height := max(m.viewport.Height, 1)
	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+height:
		m.viewport.SetYOffset(m.cursor - height + 1)
	}
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.help.View(keys),
	)
}

func (m *Model) renderHeader() string {
	title := fmt.Sprintf("🔍 cgdiag browse - %s", m.title)
	status := fmt.Sprintf("%d roots • line %d of %d", len(m.roots), m.cursor+1, len(m.rows))

	if !m.color {
		return title + " • " + status + "\n" + strings.Repeat("─", max(m.width, 0))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Width(m.width).Render(title+" • "+statusStyle.Render(status)),
		render.MutedStyle.Render(strings.Repeat("─", max(m.width, 0))),
	)
}
