package pretty

import (
	"fmt"
	"strings"
)

// EventKind classifies dispatcher decisions reported to an Observer
type EventKind string

const (
	EventMatched  EventKind = "matched"
	EventNoMatch  EventKind = "no_match"
	EventSelfTest EventKind = "self_test_failed"
)

// Event describes one dispatch decision
type Event struct {
	Kind    EventKind
	Type    string
	Tag     string
	Variant string
	Err     error
}

// Observer receives dispatch decisions, e.g. for a debug log
type Observer func(Event)

// Dispatcher selects a printer variant by the resolved type tag of a value
type Dispatcher struct {
	variants []*Variant
	env      ConstantResolver
	observer Observer
}

type Option func(*Dispatcher)

func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) { d.observer = observer }
}

// WithVariants replaces the default Cgui variant set
func WithVariants(variants ...*Variant) Option {
	return func(d *Dispatcher) { d.variants = variants }
}

func NewDispatcher(env ConstantResolver, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		variants: CguiVariants(),
		env:      env,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Match returns a self-tested printer for v, or false to defer to the
// host's default rendering.
func (d *Dispatcher) Match(v Value) (*Printer, bool) {
	typeName, tag := resolveTag(v)
	if tag == "" {
		d.notify(Event{Kind: EventNoMatch, Type: typeName})
		return nil, false
	}

	variant := d.variantFor(tag)
	if variant == nil {
		d.notify(Event{Kind: EventNoMatch, Type: typeName, Tag: tag})
		return nil, false
	}

	printer := NewPrinter(variant, v, d.env)
	if err := selfTest(printer); err != nil {
		d.notify(Event{Kind: EventSelfTest, Type: typeName, Tag: tag, Variant: variant.Tag, Err: err})
		return nil, false
	}

	d.notify(Event{Kind: EventMatched, Type: typeName, Tag: tag, Variant: variant.Tag})
	return printer, true
}

// Lookup adapts Match to the host's LookupFunc signature
func (d *Dispatcher) Lookup(v Value) (ValuePrinter, bool) {
	p, ok := d.Match(v)
	if !ok {
		return nil, false
	}
	return p, true
}

func (d *Dispatcher) variantFor(tag string) *Variant {
	for _, variant := range d.variants {
		if strings.Contains(tag, variant.Tag) {
			return variant
		}
	}
	return nil
}

func (d *Dispatcher) notify(e Event) {
	if d.observer != nil {
		d.observer(e)
	}
}

// resolveTag strips typedefs, follows at most one pointer and strips again
func resolveTag(v Value) (name, tag string) {
	defer func() {
		if r := recover(); r != nil {
			tag = ""
		}
	}()

	if v == nil {
		return "", ""
	}
	t := v.Type()
	if t == nil {
		return "", ""
	}
	name = t.Name()

	t = t.StripTypedefs()
	if t.Code() == CodePointer {
		t = t.Target()
		if t == nil {
			return name, ""
		}
		t = t.StripTypedefs()
	}
	return name, t.Tag()
}

// selfTest dry-runs the summary and pulls the first child. Enumeration stays
// lazy so a corrupted count never costs more than the consumer asks for.
func selfTest(p *Printer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("printer %s panicked: %v", p.variant.Tag, r)
		}
	}()

	if p.variant.Summary == nil {
		return fmt.Errorf("printer %s has no summary rule", p.variant.Tag)
	}
	if err := p.variant.Config.Validate(); err != nil {
		return fmt.Errorf("printer %s: %w", p.variant.Tag, err)
	}

	_ = p.Summary()
	for range p.Children().All() {
		break
	}
	return nil
}
