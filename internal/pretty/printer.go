package pretty

import "fmt"

// SummaryRule renders the part of a summary that follows the variant prefix
type SummaryRule func(live Value) (string, error)

// Variant is the static description of one printer: which type tag it
// claims, how its fields are laid out and how its summary reads.
type Variant struct {
	Tag     string
	Config  Config
	Summary SummaryRule
}

// ValuePrinter is what the host receives for a matched value
type ValuePrinter interface {
	Summary() string
	Children() *Cursor
}

// Printer binds a Variant to one classified root value. It is built per
// inspection request and carries nothing across requests.
type Printer struct {
	variant *Variant
	root    Guarded
	env     ConstantResolver
}

var _ ValuePrinter = (*Printer)(nil)

func NewPrinter(variant *Variant, v Value, env ConstantResolver) *Printer {
	return &Printer{
		variant: variant,
		root:    Classify(v),
		env:     env,
	}
}

func (p *Printer) Variant() *Variant { return p.variant }

// State reports how the root value was classified
func (p *Printer) State() State { return p.root.State }

func (p *Printer) Summary() string {
	if !p.root.Live() {
		return p.marked(p.root.Sentinel())
	}

	text, err := guard(func() (string, error) { return p.variant.Summary(p.root.Value) })
	if err != nil {
		return p.marked(SentinelInvalid)
	}
	return p.marked(text)
}

// Children returns a fresh cursor for one render pass. Null and invalid
// roots produce nothing.
func (p *Printer) Children() *Cursor {
	if !p.root.Live() {
		return emptyCursor()
	}
	return Enumerate(p.root.Value, &p.variant.Config, p.env)
}

func (p *Printer) marked(text string) string {
	return fmt.Sprintf("%s: %s", p.variant.Tag, text)
}

// nameSummary reads a char* field; a null string is reported, not an error
func nameSummary(field string) SummaryRule {
	return func(live Value) (string, error) {
		name, err := live.Field(field)
		if err != nil {
			return "", err
		}

		g := Check(name)
		switch g.State {
		case StateNull:
			return SentinelNull, nil
		case StateInvalid:
			return "", g.Err
		}

		return name.CString()
	}
}

func intField(live Value, field string) (int64, error) {
	v, err := live.Field(field)
	if err != nil {
		return 0, err
	}
	return v.Int()
}
