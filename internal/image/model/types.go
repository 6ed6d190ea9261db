package model

import (
	"fmt"
	"strings"
)

type Address uint64 // Location in the inspected process, 4 or 8 bytes wide depending on PointerSize

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

type Kind byte

const (
	KindVoid Kind = iota
	KindBool
	KindChar
	KindInt
	KindUint
	KindFloat
	KindPointer
	KindArray
	KindStruct
	KindTypedef
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindTypedef:
		return "typedef"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// IsScalar reports whether values of this kind fit in a single machine word
func (k Kind) IsScalar() bool {
	switch k {
	case KindBool, KindChar, KindInt, KindUint, KindFloat, KindPointer:
		return true
	default:
		return false
	}
}

// Type is a resolved native type. Elem is the pointee for pointers, the
// element for arrays and the aliased type for typedefs.
type Type struct {
	Name   string
	Kind   Kind
	Size   int
	Align  int
	Elem   *Type
	Len    int
	Fields []*Field

	// Complete is false for structs that were only ever referenced through
	// pointers, or whose layout has not been computed yet.
	Complete bool
}

type Field struct {
	Name   string
	Type   *Type
	Offset int
}

// Strip resolves typedef chains
func (t *Type) Strip() *Type {
	cur := t
	for cur != nil && cur.Kind == KindTypedef {
		cur = cur.Elem
	}
	return cur
}

func (t *Type) FieldByName(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Tag is the struct name for struct types, empty otherwise
func (t *Type) Tag() string {
	if t.Kind != KindStruct {
		return ""
	}
	return t.Name
}

// IsCharPointer reports whether t points at single-byte characters
func (t *Type) IsCharPointer() bool {
	s := t.Strip()
	if s == nil || s.Kind != KindPointer {
		return false
	}
	e := s.Elem.Strip()
	return e != nil && e.Size == 1 && (e.Kind == KindChar || e.Kind == KindInt || e.Kind == KindUint)
}

// Layout renders the field table, one field per line
func (t *Type) Layout() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s, size %d, align %d)", t.Name, t.Kind, t.Size, t.Align)
	for _, f := range t.Fields {
		fmt.Fprintf(&sb, "\n  +%-4d %-24s %s", f.Offset, f.Name, f.Type.Name)
	}
	return sb.String()
}

// Primitive describes a built-in scalar type
type Primitive struct {
	Name string
	Kind Kind
	Size int
}

// Primitives are the built-in scalar types of the snapshot format
var Primitives = []Primitive{
	{"void", KindVoid, 0},
	{"bool", KindBool, 1},
	{"char", KindChar, 1},
	{"int8", KindInt, 1},
	{"uint8", KindUint, 1},
	{"unsigned char", KindUint, 1},
	{"int16", KindInt, 2},
	{"short", KindInt, 2},
	{"uint16", KindUint, 2},
	{"int", KindInt, 4},
	{"int32", KindInt, 4},
	{"uint32", KindUint, 4},
	{"unsigned int", KindUint, 4},
	{"int64", KindInt, 8},
	{"long long", KindInt, 8},
	{"uint64", KindUint, 8},
	{"size_t", KindUint, 8},
	{"float", KindFloat, 4},
	{"double", KindFloat, 8},
}
