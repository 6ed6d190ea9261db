package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	indentUnit   = "  "
	elidedMarker = "..."
)

// Line formats a node as "label = summary", styled when color is on
func Line(n *Node, color bool) string {
	label, summary := n.Label, n.Summary
	if !color {
		return label + " = " + summary
	}
	return LabelStyle.Render(label) + MutedStyle.Render(" = ") + SummaryStyle(n).Render(summary)
}

// WriteText prints the trees as indented text
func (r *Renderer) WriteText(w io.Writer, roots ...*Node) error {
	tw := &textWriter{w: w, color: r.config.Color, width: r.config.Width}
	for _, root := range roots {
		tw.node(root, 0)
	}
	return tw.err
}

type textWriter struct {
	w     io.Writer
	color bool
	width int
	err   error
}

func (tw *textWriter) node(n *Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	line := n
	if tw.width > 0 {
		room := tw.width - len(indent) - len(n.Label) - len(" = ")
		if room < len(n.Summary) {
			clipped := *n
			clipped.Summary = truncate(n.Summary, room)
			line = &clipped
		}
	}
	tw.println(indent + Line(line, tw.color))

	for _, child := range n.Children {
		tw.node(child, depth+1)
	}
	if n.Truncated {
		marker := elidedMarker
		if tw.color {
			marker = MutedStyle.Render(marker)
		}
		tw.println(indent + indentUnit + marker)
	}
}

func (tw *textWriter) println(s string) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintln(tw.w, s)
}

func truncate(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) <= maxWidth {
		return s
	}
	if maxWidth < 4 {
		return strings.Repeat(".", max(maxWidth, 0))
	}
	return string(runes[:maxWidth-3]) + elidedMarker
}

// WriteJSON prints the trees as a JSON array
func (r *Renderer) WriteJSON(w io.Writer, roots ...*Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if roots == nil {
		roots = []*Node{}
	}
	if err := enc.Encode(roots); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
