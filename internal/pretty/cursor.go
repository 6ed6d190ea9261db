package pretty

import (
	"fmt"
	"iter"
)

// SpecKind selects how a FieldSpec is read
type SpecKind int

const (
	KindDirect SpecKind = iota
	KindDynamicArray
	KindFixedArray
	KindReference
)

// FieldSpec describes one logical attribute of a structure.
//
//   - KindDirect reads Name.
//   - KindDynamicArray reads Count as an integer and Name as the base pointer.
//   - KindFixedArray reads Name as the base pointer, bounded by the environment constant Bound.
//   - KindReference reads Name as a pointer and reports the target's Identity field.
type FieldSpec struct {
	Kind     SpecKind
	Name     string
	Count    string
	Bound    string
	Identity string
}

func Direct(name string) FieldSpec {
	return FieldSpec{Kind: KindDirect, Name: name}
}

func DynamicArray(ptr, count string) FieldSpec {
	return FieldSpec{Kind: KindDynamicArray, Name: ptr, Count: count}
}

func FixedArray(ptr, bound string) FieldSpec {
	return FieldSpec{Kind: KindFixedArray, Name: ptr, Bound: bound}
}

func Reference(ptr, identity string) FieldSpec {
	return FieldSpec{Kind: KindReference, Name: ptr, Identity: identity}
}

// Config is the field layout of one printer variant
type Config struct {
	Early      []FieldSpec
	Arrays     []FieldSpec
	References []FieldSpec
}

// Claimed returns every field name emitted before the residual pass
func (c *Config) Claimed() map[string]bool {
	claimed := make(map[string]bool, len(c.Early)+len(c.Arrays)+len(c.References))
	for _, group := range [][]FieldSpec{c.Early, c.Arrays, c.References} {
		for _, spec := range group {
			claimed[spec.Name] = true
		}
	}
	return claimed
}

// Validate checks that every claimed name belongs to exactly one category
// and that each spec is filed under the category its kind requires.
func (c *Config) Validate() error {
	seen := make(map[string]string)
	check := func(category string, specs []FieldSpec, kinds ...SpecKind) error {
		for _, spec := range specs {
			if spec.Name == "" {
				return fmt.Errorf("%s: empty field name", category)
			}
			if !kindIn(spec.Kind, kinds) {
				return fmt.Errorf("%s: field %q has kind %d", category, spec.Name, spec.Kind)
			}
			if prev, dup := seen[spec.Name]; dup {
				return fmt.Errorf("field %q claimed by both %s and %s", spec.Name, prev, category)
			}
			seen[spec.Name] = category
		}
		return nil
	}

	if err := check("early", c.Early, KindDirect); err != nil {
		return err
	}
	if err := check("arrays", c.Arrays, KindDynamicArray, KindFixedArray); err != nil {
		return err
	}
	return check("references", c.References, KindReference)
}

func kindIn(k SpecKind, kinds []SpecKind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// Child is one enumerated entry: either a nested value or a sentinel string
type Child struct {
	Label    string
	Value    Value
	Sentinel string
}

func (c Child) IsSentinel() bool { return c.Value == nil }

func sentinel(label, text string) Child {
	return Child{Label: label, Sentinel: text}
}

// Cursor is a lazy, single-pass sequence of children
type Cursor struct {
	seq  iter.Seq[Child]
	used bool
}

// All yields the children. A cursor can be ranged over once; later ranges are empty.
// Breaking out of the loop early is fine, the rest is never produced.
func (c *Cursor) All() iter.Seq[Child] {
	return func(yield func(Child) bool) {
		if c == nil || c.used {
			return
		}
		c.used = true
		c.seq(yield)
	}
}

// Collect drains the cursor
func (c *Cursor) Collect() []Child {
	var out []Child
	for child := range c.All() {
		out = append(out, child)
	}
	return out
}

func emptyCursor() *Cursor {
	return &Cursor{seq: func(func(Child) bool) {}}
}

// Enumerate walks a live structure in the fixed order early, arrays,
// references, residual. env may be nil; fixed arrays are then skipped.
func Enumerate(live Value, cfg *Config, env ConstantResolver) *Cursor {
	if live == nil || cfg == nil {
		return emptyCursor()
	}

	w := &walker{live: live, cfg: cfg, env: env}
	return &Cursor{seq: w.walk}
}

type walker struct {
	live Value
	cfg  *Config
	env  ConstantResolver
}

func (w *walker) walk(yield func(Child) bool) {
	for _, spec := range w.cfg.Early {
		v, err := guard(func() (Value, error) { return w.live.Field(spec.Name) })
		if err != nil {
			continue
		}
		if !yield(Child{Label: spec.Name, Value: v}) {
			return
		}
	}

	for _, spec := range w.cfg.Arrays {
		if !w.array(spec, yield) {
			return
		}
	}

	for _, spec := range w.cfg.References {
		if !yield(w.reference(spec)) {
			return
		}
	}

	w.residual(yield)
}

// array emits one array section; false means the consumer stopped
func (w *walker) array(spec FieldSpec, yield func(Child) bool) bool {
	n, ok := w.bound(spec)
	if !ok || n <= 0 {
		return true
	}

	base, err := guard(func() (Value, error) { return w.live.Field(spec.Name) })
	if err != nil {
		return true
	}
	if g := Check(base); !g.Live() {
		return true
	}

	for i := int64(0); i < n; i++ {
		if !yield(w.element(spec.Name, base, i)) {
			return false
		}
	}
	return true
}

func (w *walker) bound(spec FieldSpec) (int64, bool) {
	switch spec.Kind {
	case KindDynamicArray:
		n, err := guard(func() (int64, error) {
			count, err := w.live.Field(spec.Count)
			if err != nil {
				return 0, err
			}
			return count.Int()
		})
		return n, err == nil

	case KindFixedArray:
		if w.env == nil {
			return 0, false
		}
		n, err := guard(func() (int64, error) { return w.env.Constant(spec.Bound) })
		return n, err == nil

	default:
		return 0, false
	}
}

func (w *walker) element(name string, base Value, i int64) Child {
	label := fmt.Sprintf("%s[%d]", name, i)

	elem, err := guard(func() (Value, error) {
		at, err := base.Add(i)
		if err != nil {
			return nil, err
		}
		return at.Dereference()
	})
	if err != nil {
		return sentinel(label, SentinelInvalid)
	}

	if g := Classify(elem); !g.Live() {
		return sentinel(label, g.Sentinel())
	}
	return Child{Label: label, Value: elem}
}

// reference resolves exactly one hop and reports the target's identity field
func (w *walker) reference(spec FieldSpec) Child {
	ptr, err := guard(func() (Value, error) { return w.live.Field(spec.Name) })
	if err != nil {
		return sentinel(spec.Name, SentinelInvalid)
	}

	g := Classify(ptr)
	if !g.Live() {
		return sentinel(spec.Name, g.Sentinel())
	}

	id, err := guard(func() (Value, error) { return g.Value.Field(spec.Identity) })
	if err != nil {
		return sentinel(spec.Name, SentinelInvalid)
	}
	if c := Check(id); !c.Live() {
		return sentinel(spec.Name, c.Sentinel())
	}
	return Child{Label: spec.Name, Value: id}
}

func (w *walker) residual(yield func(Child) bool) {
	t := w.live.Type()
	if t == nil {
		return
	}
	names, err := guard(func() ([]string, error) { return t.StripTypedefs().FieldNames() })
	if err != nil {
		return
	}

	claimed := w.cfg.Claimed()
	for _, name := range names {
		if name == "" || claimed[name] {
			continue
		}

		child := Child{Label: name}
		v, err := guard(func() (Value, error) { return w.live.Field(name) })
		if err != nil {
			child.Sentinel = SentinelInvalid
		} else {
			child.Value = v
		}

		if !yield(child) {
			return
		}
	}
}
