// Package render turns values into display trees. Registered printers are
// consulted first; anything they decline is rendered generically the way a
// debugger prints plain structures, pointers and scalars.
package render

import (
	"fmt"
	"strconv"

	"github.com/mabhi256/cgdiag/internal/pretty"
)

type Kind string

const (
	KindPrinter  Kind = "printer"
	KindStruct   Kind = "struct"
	KindPointer  Kind = "pointer"
	KindString   Kind = "string"
	KindScalar   Kind = "scalar"
	KindSentinel Kind = "sentinel"
	KindError    Kind = "error"
)

// Formatter is implemented by host values that can print themselves as scalars
type Formatter interface {
	Format() (string, error)
}

// Node is one line of the display tree
type Node struct {
	Label     string  `json:"label"`
	Type      string  `json:"type,omitempty"`
	Kind      Kind    `json:"kind"`
	Summary   string  `json:"summary"`
	Children  []*Node `json:"children,omitempty"`
	Truncated bool    `json:"truncated,omitempty"` // more children exist than were listed

	// Collapsed means the node has children that were not built yet
	Collapsed bool `json:"collapsed,omitempty"`

	value   pretty.Value
	printer pretty.ValuePrinter
}

func (n *Node) Expandable() bool {
	return n.Collapsed || len(n.Children) > 0
}

type Renderer struct {
	table  *pretty.LookupTable
	config Config
}

func New(table *pretty.LookupTable, config Config) *Renderer {
	if table == nil {
		table = pretty.NewLookupTable()
	}
	return &Renderer{table: table, config: config}
}

func (r *Renderer) Config() Config { return r.config }

// Render builds the tree for one root down to the configured depth
func (r *Renderer) Render(label string, v pretty.Value) *Node {
	return r.build(label, v, 0)
}

// Expand builds the children of a collapsed node, one level deep
func (r *Renderer) Expand(n *Node) {
	if n == nil || !n.Collapsed {
		return
	}
	r.expand(n, r.config.MaxDepth-1)
}

func (r *Renderer) build(label string, v pretty.Value, depth int) *Node {
	n := &Node{Label: label, value: v}
	if v == nil {
		n.Kind, n.Summary = KindSentinel, pretty.SentinelInvalid
		return n
	}
	if t := v.Type(); t != nil {
		n.Type = t.Name()
	}

	if p, ok := r.table.Lookup(v); ok {
		n.Kind = KindPrinter
		n.Summary = p.Summary()
		n.printer = p
		n.Collapsed = hasLiveRoot(p)
	} else {
		describe(n, v)
	}

	if n.Collapsed && depth < r.config.MaxDepth {
		r.expand(n, depth)
	}
	return n
}

// hasLiveRoot is false for printers whose root is null or invalid; they
// never have children.
func hasLiveRoot(p pretty.ValuePrinter) bool {
	if s, ok := p.(interface{ State() pretty.State }); ok {
		return s.State() == pretty.StateLive
	}
	return true
}

func describe(n *Node, v pretty.Value) {
	g := pretty.Check(v)
	if g.State == pretty.StateInvalid {
		n.Kind, n.Summary = KindSentinel, pretty.SentinelInvalid
		return
	}

	t := v.Type().StripTypedefs()
	switch t.Code() {
	case pretty.CodeStruct:
		n.Kind, n.Summary = KindStruct, "{...}"
		n.Collapsed = true

	case pretty.CodePointer:
		n.Kind, n.Summary = KindPointer, scalar(v)
		if g.State == pretty.StateNull {
			return
		}
		if s, err := v.CString(); err == nil {
			n.Kind = KindString
			n.Summary += " " + strconv.Quote(s)
			return
		}
		if target := t.Target(); target != nil && target.StripTypedefs().Code() == pretty.CodeStruct {
			n.Collapsed = true
		}

	default:
		n.Kind, n.Summary = KindScalar, scalar(v)
	}
}

func scalar(v pretty.Value) string {
	if f, ok := v.(Formatter); ok {
		if s, err := f.Format(); err == nil {
			return s
		}
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return "?"
}

func (r *Renderer) full(n *Node) bool {
	return r.config.MaxChildren > 0 && len(n.Children) >= r.config.MaxChildren
}

func (r *Renderer) expand(n *Node, depth int) {
	n.Children, n.Truncated, n.Collapsed = nil, false, false

	if n.printer != nil {
		// a fresh cursor per expansion; stopping early leaves the rest unread
		for child := range n.printer.Children().All() {
			if r.full(n) {
				n.Truncated = true
				break
			}
			n.Children = append(n.Children, r.child(child, depth+1))
		}
		return
	}

	v := n.value
	if n.Kind == KindPointer {
		g := pretty.Classify(v)
		if !g.Live() {
			n.Children = []*Node{sentinel("*"+n.Label, g.Sentinel())}
			return
		}
		v = g.Value
	}
	r.fields(n, v, depth)
}

func (r *Renderer) fields(n *Node, v pretty.Value, depth int) {
	names, err := v.Type().StripTypedefs().FieldNames()
	if err != nil {
		n.Children = []*Node{sentinel("fields", pretty.SentinelInvalid)}
		return
	}

	for _, name := range names {
		if r.full(n) {
			n.Truncated = true
			return
		}
		fv, err := v.Field(name)
		if err != nil {
			n.Children = append(n.Children, sentinel(name, pretty.SentinelInvalid))
			continue
		}
		n.Children = append(n.Children, r.build(name, fv, depth+1))
	}
}

func (r *Renderer) child(c pretty.Child, depth int) *Node {
	if c.IsSentinel() {
		return sentinel(c.Label, c.Sentinel)
	}
	return r.build(c.Label, c.Value, depth)
}

// Failed stands in for a root that could not be evaluated
func Failed(label string, err error) *Node {
	return &Node{Label: label, Kind: KindError, Summary: fmt.Sprintf("<error: %v>", err)}
}

func sentinel(label, text string) *Node {
	return &Node{Label: label, Kind: KindSentinel, Summary: text}
}
