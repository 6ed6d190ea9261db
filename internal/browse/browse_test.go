package browse

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mabhi256/cgdiag/internal/image"
	"github.com/mabhi256/cgdiag/internal/pretty"
	"github.com/mabhi256/cgdiag/internal/render"
)

func newModel(t *testing.T, exprs ...string) *Model {
	t.Helper()

	img, err := image.Open("../../testdata/scene.toml")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	table := pretty.NewLookupTable()
	table.Append(pretty.NewDispatcher(img).Lookup)
	r := render.New(table, render.Config{MaxDepth: 1})

	var roots []*render.Node
	for _, expr := range exprs {
		v, err := img.Eval(expr)
		if err != nil {
			t.Fatalf("Eval(%q) error = %v", expr, err)
		}
		roots = append(roots, r.Render(expr, v))
	}

	m := NewModel(r, roots, "scene.toml")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "pgdown":
			msg = tea.KeyMsg{Type: tea.KeyPgDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func (m *Model) currentLabel() string {
	r := m.current()
	if r == nil || r.elided {
		return ""
	}
	return r.node.Label
}

func TestRootsStartOpen(t *testing.T) {
	m := newModel(t, "scene", "focused")

	// scene + 19 children + focused
	if len(m.rows) != 21 {
		t.Fatalf("rows = %d, want 21", len(m.rows))
	}
	if m.currentLabel() != "scene" {
		t.Errorf("cursor on %q, want scene", m.currentLabel())
	}

	view := m.View()
	for _, want := range []string{"cgdiag browse - scene.toml", "> ▾ scene = CguiNode: root", "children[2] = <null>", "focused = CguiNode: <null>"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q", want)
		}
	}
}

func TestExpandCollapseLazily(t *testing.T) {
	m := newModel(t, "scene")

	press(m, "down", "down", "down", "down", "down", "down", "down")
	if m.currentLabel() != "children[0]" {
		t.Fatalf("cursor on %q, want children[0]", m.currentLabel())
	}

	header := m.current().node
	if !header.Collapsed {
		t.Fatal("children[0] was expanded before it was opened")
	}

	before := len(m.rows)
	press(m, "right")
	if header.Collapsed || len(m.rows) <= before {
		t.Fatalf("expand did not add rows: %d -> %d", before, len(m.rows))
	}

	press(m, "left")
	if len(m.rows) != before {
		t.Errorf("collapse left %d rows, want %d", len(m.rows), before)
	}

	// toggling again reuses the children built the first time
	built := header.Children
	press(m, "enter")
	if &built[0] != &header.Children[0] {
		t.Error("children were rebuilt on second expansion")
	}
}

func TestCollapseOnLeafMovesToParent(t *testing.T) {
	m := newModel(t, "scene")

	press(m, "j", "j", "j")
	if m.currentLabel() != "childrenCount" {
		t.Fatalf("cursor on %q", m.currentLabel())
	}
	press(m, "h")
	if m.currentLabel() != "scene" {
		t.Errorf("cursor on %q, want scene", m.currentLabel())
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m := newModel(t, "grid")

	press(m, "up", "up")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	press(m, "G")
	if m.cursor != len(m.rows)-1 {
		t.Errorf("cursor = %d, want last row %d", m.cursor, len(m.rows)-1)
	}
	press(m, "down", "pgdown")
	if m.cursor != len(m.rows)-1 {
		t.Errorf("cursor moved past the last row: %d", m.cursor)
	}

	press(m, "g")
	if m.cursor != 0 {
		t.Errorf("cursor = %d after g, want 0", m.cursor)
	}
}

func TestViewportFollowsCursor(t *testing.T) {
	m := newModel(t, "scene", "theme", "grid")

	press(m, "G")
	if m.viewport.YOffset == 0 {
		t.Error("viewport did not scroll to the last row")
	}
	if !strings.Contains(m.View(), "> ") {
		t.Error("cursor row is not visible")
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t, "scene")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
