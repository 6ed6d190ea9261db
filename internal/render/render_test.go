package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/mabhi256/cgdiag/internal/image"
	"github.com/mabhi256/cgdiag/internal/pretty"
)

func openScene(t *testing.T) *image.Image {
	t.Helper()
	img, err := image.Open("../../testdata/scene.toml")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return img
}

func cguiTable(img *image.Image) *pretty.LookupTable {
	table := pretty.NewLookupTable()
	table.Append(pretty.NewDispatcher(img).Lookup)
	return table
}

func renderExpr(t *testing.T, r *Renderer, img *image.Image, expr string) *Node {
	t.Helper()
	v, err := img.Eval(expr)
	if err != nil {
		t.Fatalf("Eval(%q) error = %v", expr, err)
	}
	return r.Render(expr, v)
}

func labelsOf(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

func find(t *testing.T, n *Node, label string) *Node {
	t.Helper()
	for _, c := range n.Children {
		if c.Label == label {
			return c
		}
	}
	t.Fatalf("%s has no child %s (have %v)", n.Label, label, labelsOf(n.Children))
	return nil
}

func plain(depth, children int) Config {
	return Config{MaxDepth: depth, MaxChildren: children}
}

func TestRegisteredPrinterWins(t *testing.T) {
	img := openScene(t)
	r := New(cguiTable(img), plain(1, 0))

	root := renderExpr(t, r, img, "scene")
	if root.Kind != KindPrinter || root.Summary != "CguiNode: root" {
		t.Fatalf("root = %s %q", root.Kind, root.Summary)
	}
	if len(root.Children) != 19 {
		t.Errorf("got %d children, want 19: %v", len(root.Children), labelsOf(root.Children))
	}

	if c := find(t, root, "children[2]"); c.Kind != KindSentinel || c.Summary != pretty.SentinelNull {
		t.Errorf("children[2] = %s %q", c.Kind, c.Summary)
	}
	if c := find(t, root, "children[0]"); c.Summary != "CguiNode: header" || !c.Collapsed {
		t.Errorf("children[0] = %q collapsed=%v", c.Summary, c.Collapsed)
	}
	if c := find(t, root, "name"); c.Kind != KindString || c.Summary != `0x7f000000 "root"` {
		t.Errorf("name = %s %q", c.Kind, c.Summary)
	}
	if c := find(t, root, "transformation"); c.Kind != KindStruct || !c.Collapsed {
		t.Errorf("transformation = %s collapsed=%v", c.Kind, c.Collapsed)
	}
}

func TestGenericRenderingWithoutPrinters(t *testing.T) {
	img := openScene(t)
	r := New(nil, plain(2, 0))

	root := renderExpr(t, r, img, "scene")
	if root.Kind != KindPointer || root.Summary != "0x1000" {
		t.Fatalf("root = %s %q", root.Kind, root.Summary)
	}

	want := []string{
		"enabled", "name", "type", "data", "dataSize", "transformation", "bounds", "rebound",
		"parent", "children", "childrenCount", "childrenCapacity", "templateSource",
		"instances", "instancesCount", "instancesCapacity", "resync", "transform",
	}
	if got := labelsOf(root.Children); !slices.Equal(got, want) {
		t.Errorf("fields = %v", got)
	}

	if c := find(t, root, "parent"); c.Summary != "NULL" || c.Collapsed {
		t.Errorf("parent = %q collapsed=%v", c.Summary, c.Collapsed)
	}
	if c := find(t, root, "childrenCount"); c.Kind != KindScalar || c.Summary != "3" {
		t.Errorf("childrenCount = %s %q", c.Kind, c.Summary)
	}

	size := find(t, find(t, root, "transformation"), "size")
	if got := labelsOf(size.Children); len(got) != 0 || !size.Collapsed {
		t.Errorf("depth 2 should stop at transformation.size, got children %v", got)
	}
}

func TestGenericPointerToUnreadableMemory(t *testing.T) {
	img := openScene(t)
	r := New(nil, plain(1, 0))

	root := renderExpr(t, r, img, "corrupt")
	if len(root.Children) != 1 {
		t.Fatalf("children = %v", labelsOf(root.Children))
	}
	if c := root.Children[0]; c.Label != "*corrupt" || c.Summary != pretty.SentinelInvalid {
		t.Errorf("child = %s %q", c.Label, c.Summary)
	}
}

func TestInvalidAndNullRootsHaveNoChildren(t *testing.T) {
	img := openScene(t)
	r := New(cguiTable(img), plain(3, 0))

	for expr, want := range map[string]string{
		"corrupt": "CguiNode: <invalid>",
		"focused": "CguiNode: <null>",
	} {
		n := renderExpr(t, r, img, expr)
		if n.Summary != want || n.Expandable() {
			t.Errorf("%s = %q expandable=%v", expr, n.Summary, n.Expandable())
		}
	}
}

func TestMaxChildrenElides(t *testing.T) {
	img := openScene(t)
	r := New(cguiTable(img), plain(1, 4))

	root := renderExpr(t, r, img, "scene")
	if len(root.Children) != 4 || !root.Truncated {
		t.Fatalf("children = %v truncated=%v", labelsOf(root.Children), root.Truncated)
	}

	var buf bytes.Buffer
	if err := r.WriteText(&buf, root); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if last := lines[len(lines)-1]; last != "  ..." {
		t.Errorf("last line = %q, want elision marker", last)
	}
}

func TestExpandBuildsOneLevel(t *testing.T) {
	img := openScene(t)
	r := New(cguiTable(img), plain(1, 0))

	root := renderExpr(t, r, img, "scene")
	header := find(t, root, "children[0]")
	if len(header.Children) != 0 {
		t.Fatal("header expanded beyond the depth limit")
	}

	r.Expand(header)
	if header.Collapsed {
		t.Error("header still collapsed after Expand")
	}
	if c := find(t, header, "parent"); c.Summary != `0x7f000000 "root"` {
		t.Errorf("header.parent = %q", c.Summary)
	}
	if c := find(t, header, "transformation"); !c.Collapsed || len(c.Children) != 0 {
		t.Error("Expand went deeper than one level")
	}

	// expanding twice does not duplicate children
	n := len(header.Children)
	r.Expand(header)
	if len(header.Children) != n {
		t.Errorf("children grew from %d to %d", n, len(header.Children))
	}
}

func TestWriteText(t *testing.T) {
	img := openScene(t)
	r := New(cguiTable(img), plain(1, 0))

	var buf bytes.Buffer
	if err := r.WriteText(&buf, renderExpr(t, r, img, "theme"), renderExpr(t, r, img, "frameRate")); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	want := []string{
		"theme = CguiTheme: dark",
		`  themeName = 0x7f000040 "dark"`,
		"  templates[0] = CguiNode: button-template",
		"  templates[1] = <null>",
		"  themeDataSize = 0",
		"frameRate = 60",
	}
	out := buf.String()
	for _, line := range want {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("output lacks %q:\n%s", line, out)
		}
	}
}

func TestWriteTextTruncatesToWidth(t *testing.T) {
	img := openScene(t)
	r := New(cguiTable(img), Config{MaxDepth: 1, Width: 20})

	var buf bytes.Buffer
	if err := r.WriteText(&buf, renderExpr(t, r, img, "title")); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "title = 0x7f00004..." {
		t.Errorf("line = %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	img := openScene(t)
	r := New(cguiTable(img), plain(1, 0))

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf, renderExpr(t, r, img, "grid")); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var out []struct {
		Label    string `json:"label"`
		Kind     string `json:"kind"`
		Summary  string `json:"summary"`
		Children []struct {
			Label     string `json:"label"`
			Collapsed bool   `json:"collapsed"`
		} `json:"children"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if len(out) != 1 || out[0].Kind != "printer" || out[0].Summary != "CguiGridLayoutData: 3 x-slots, 0 y-slots" {
		t.Fatalf("out = %+v", out)
	}
	if len(out[0].Children) != 10 || out[0].Children[4].Label != "xSlots[0]" || !out[0].Children[4].Collapsed {
		t.Errorf("children = %+v", out[0].Children)
	}
}

func TestConfig(t *testing.T) {
	tests := []struct {
		config  Config
		wantErr bool
		want    string
	}{
		{config: DefaultConfig(), want: "depth 3, 100 children max"},
		{config: Config{MaxDepth: 1}, want: "depth 1, all children, no color"},
		{config: Config{MaxDepth: 2, Width: 80, Color: true}, want: "depth 2, all children, 80 columns"},
		{config: Config{MaxDepth: 0}, wantErr: true},
		{config: Config{MaxDepth: 1, MaxChildren: -1}, wantErr: true},
		{config: Config{MaxDepth: 1, Width: -5}, wantErr: true},
	}

	for _, tt := range tests {
		err := tt.config.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.config, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && tt.config.String() != tt.want {
			t.Errorf("String() = %q, want %q", tt.config.String(), tt.want)
		}
	}
}

func TestFailedRoot(t *testing.T) {
	r := New(nil, plain(1, 0))

	var buf bytes.Buffer
	if err := r.WriteText(&buf, Failed("nosuch", errors.New("unknown symbol: nosuch"))); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "nosuch = <error: unknown symbol: nosuch>\n" {
		t.Errorf("output = %q", got)
	}
}
