package pretty

import (
	"errors"
	"fmt"
)

// In-memory host used by the tests. Pointers index into a slice of pointees
// so pointer arithmetic is just an index shift.

var (
	errFakeNull     = errors.New("null dereference")
	errFakeBad      = errors.New("cannot access memory")
	errFakeNoField  = errors.New("no such field")
	errFakeNotInt   = errors.New("not an integer")
	errFakeNotPtr   = errors.New("not a pointer")
	errFakeNotCStr  = errors.New("not a string")
	errFakeUnmapped = errors.New("unreadable structure")
)

type fakeType struct {
	name   string
	code   TypeCode
	tag    string
	target *fakeType
	alias  *fakeType
	fields []string
}

func (t *fakeType) Code() TypeCode { return t.code }
func (t *fakeType) Name() string   { return t.name }
func (t *fakeType) Tag() string    { return t.tag }

func (t *fakeType) Target() Type {
	if t.target == nil {
		return nil
	}
	return t.target
}

func (t *fakeType) StripTypedefs() Type {
	cur := t
	for cur.alias != nil {
		cur = cur.alias
	}
	return cur
}

func (t *fakeType) FieldNames() ([]string, error) {
	if t.code != CodeStruct {
		return nil, fmt.Errorf("%s has no fields", t.name)
	}
	return t.fields, nil
}

func structType(tag string, fields ...string) *fakeType {
	return &fakeType{name: "struct " + tag, code: CodeStruct, tag: tag, fields: fields}
}

func pointerTo(t *fakeType) *fakeType {
	return &fakeType{name: t.name + " *", code: CodePointer, target: t}
}

func typedefOf(name string, t *fakeType) *fakeType {
	return &fakeType{name: name, code: t.code, alias: t}
}

var (
	intType  = &fakeType{name: "int", code: CodeOther}
	charType = &fakeType{name: "char", code: CodeOther}
	charPtr  = pointerTo(charType)
)

type fakeValue struct {
	typ *fakeType

	// pointers
	null     bool
	bad      bool
	pointees []*fakeValue
	index    int64
	text     string
	adds     *int

	// structures
	fields     map[string]*fakeValue
	unreadable bool
	reads      *int

	// scalars
	n int64
}

func (v *fakeValue) Type() Type { return v.typ }

func (v *fakeValue) isPointer() bool {
	return v.typ.StripTypedefs().Code() == CodePointer
}

func (v *fakeValue) IsNull() (bool, error) {
	if v.isPointer() {
		return v.null, nil
	}
	if v.typ.StripTypedefs().Code() == CodeStruct {
		return false, errors.New("truth test on structure")
	}
	return v.n == 0, nil
}

func (v *fakeValue) Dereference() (Value, error) {
	if !v.isPointer() {
		return nil, errFakeNotPtr
	}
	if v.null {
		return nil, errFakeNull
	}
	if v.bad || v.index < 0 || v.index >= int64(len(v.pointees)) {
		return nil, errFakeBad
	}
	return v.pointees[v.index], nil
}

func (v *fakeValue) Field(name string) (Value, error) {
	if v.isPointer() {
		target, err := v.Dereference()
		if err != nil {
			return nil, err
		}
		return target.Field(name)
	}
	if v.reads != nil {
		*v.reads++
	}
	if v.unreadable {
		return nil, errFakeUnmapped
	}
	f, ok := v.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errFakeNoField, name)
	}
	return f, nil
}

func (v *fakeValue) Int() (int64, error) {
	if v.typ.StripTypedefs().Code() != CodeOther {
		return 0, errFakeNotInt
	}
	return v.n, nil
}

func (v *fakeValue) Add(n int64) (Value, error) {
	if !v.isPointer() {
		return nil, errFakeNotPtr
	}
	if v.adds != nil {
		*v.adds++
	}
	cp := *v
	cp.index += n
	return &cp, nil
}

func (v *fakeValue) CString() (string, error) {
	if v.typ != charPtr {
		return "", errFakeNotCStr
	}
	if v.null {
		return "", errFakeNull
	}
	if v.bad {
		return "", errFakeBad
	}
	return v.text, nil
}

func (v *fakeValue) Fetch() error {
	if v.unreadable {
		return errFakeUnmapped
	}
	return nil
}

func intVal(n int64) *fakeValue { return &fakeValue{typ: intType, n: n} }

func cstr(s string) *fakeValue { return &fakeValue{typ: charPtr, text: s} }

func nullOf(t *fakeType) *fakeValue { return &fakeValue{typ: pointerTo(t), null: true} }

func badOf(t *fakeType) *fakeValue { return &fakeValue{typ: pointerTo(t), bad: true} }

func nullCStr() *fakeValue { return &fakeValue{typ: charPtr, null: true} }

func ptrTo(v *fakeValue) *fakeValue {
	return &fakeValue{typ: pointerTo(v.typ), pointees: []*fakeValue{v}}
}

// arrayOf returns a pointer to the first of elems
func arrayOf(elem *fakeType, elems ...*fakeValue) *fakeValue {
	return &fakeValue{typ: pointerTo(elem), pointees: elems}
}

func structVal(t *fakeType, fields map[string]*fakeValue) *fakeValue {
	return &fakeValue{typ: t, fields: fields}
}

var nodeType = structType(TagNode,
	"enabled", "name", "type", "transformation", "parent", "children",
	"childrenCount", "childrenCapacity", "templateSource", "instances",
	"instancesCount", "instancesCapacity", "resync",
)

var (
	nodePtrType = pointerTo(nodeType)
	transformT  = structType("CguiTransformation", "position", "size")
)

// node builds a CguiNode with empty arrays and null back-references
func node(name string) *fakeValue {
	return structVal(nodeType, map[string]*fakeValue{
		"enabled":           intVal(1),
		"name":              cstr(name),
		"type":              intVal(0),
		"transformation":    structVal(transformT, map[string]*fakeValue{"position": intVal(0), "size": intVal(0)}),
		"parent":            nullOf(nodeType),
		"children":          nullOf(nodePtrType),
		"childrenCount":     intVal(0),
		"childrenCapacity":  intVal(0),
		"templateSource":    nullOf(nodeType),
		"instances":         nullOf(nodePtrType),
		"instancesCount":    intVal(0),
		"instancesCapacity": intVal(0),
		"resync":            intVal(0),
	})
}

func labels(children []Child) []string {
	out := make([]string, 0, len(children))
	for _, c := range children {
		out = append(out, c.Label)
	}
	return out
}

func childByLabel(children []Child, label string) (Child, bool) {
	for _, c := range children {
		if c.Label == label {
			return c, true
		}
	}
	return Child{}, false
}

func constants(values map[string]int64) ConstantResolver {
	return ConstantFunc(func(name string) (int64, error) {
		if v, ok := values[name]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnresolvable, name)
	})
}
