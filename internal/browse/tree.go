package browse

import (
	"strings"

	"github.com/mabhi256/cgdiag/internal/render"
)

// row is one visible line. An elided row stands for children that were
// not listed because of the child limit.
type row struct {
	node   *render.Node
	depth  int
	elided bool
}

func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	for _, root := range m.roots {
		m.appendRows(root, 0)
	}
	m.cursor = min(max(m.cursor, 0), max(len(m.rows)-1, 0))
}

func (m *Model) appendRows(n *render.Node, depth int) {
	m.rows = append(m.rows, row{node: n, depth: depth})
	if !m.open[n] {
		return
	}
	for _, child := range n.Children {
		m.appendRows(child, depth+1)
	}
	if n.Truncated {
		m.rows = append(m.rows, row{depth: depth + 1, elided: true})
	}
}

func (m *Model) current() *row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

// expand opens the node under the cursor, building its children on first use
func (m *Model) expand() bool {
	r := m.current()
	if r == nil || r.elided || m.open[r.node] || !r.node.Expandable() {
		return false
	}
	m.renderer.Expand(r.node)
	m.open[r.node] = true
	m.rebuildRows()
	return true
}

func (m *Model) collapse() bool {
	r := m.current()
	if r == nil || r.elided || !m.open[r.node] {
		return false
	}
	delete(m.open, r.node)
	m.rebuildRows()
	return true
}

func (m *Model) toggle() {
	if !m.collapse() {
		m.expand()
	}
}

// parent moves the cursor to the enclosing node
func (m *Model) parent() {
	r := m.current()
	if r == nil || r.depth == 0 {
		return
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].depth == r.depth-1 {
			m.cursor = i
			return
		}
	}
}

func (m *Model) move(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.rows)-1, 0))
}

func (m *Model) renderRow(i int) string {
	r := m.rows[i]
	indent := strings.Repeat("  ", r.depth)

	if r.elided {
		line := indent + "  ..."
		if m.color {
			line = render.MutedStyle.Render(line)
		}
		return line
	}

	marker := "  "
	switch {
	case m.open[r.node]:
		marker = "▾ "
	case r.node.Expandable():
		marker = "▸ "
	}

	line := indent + marker + render.Line(r.node, m.color)
	if i == m.cursor {
		if m.color {
			return render.SelectedStyle.Render(line)
		}
		return "> " + line
	}
	if !m.color {
		return "  " + line
	}
	return line
}

func (m *Model) renderRows() string {
	lines := make([]string, len(m.rows))
	for i := range m.rows {
		lines[i] = m.renderRow(i)
	}
	return strings.Join(lines, "\n")
}
