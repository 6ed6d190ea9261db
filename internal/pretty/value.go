package pretty

import "errors"

// TypeCode is the coarse classification of a host type
type TypeCode int

const (
	CodeOther TypeCode = iota
	CodePointer
	CodeStruct
)

func (c TypeCode) String() string {
	switch c {
	case CodePointer:
		return "pointer"
	case CodeStruct:
		return "struct"
	default:
		return "other"
	}
}

// Value is the host's view of a typed native value. Every operation may fail.
type Value interface {
	Type() Type

	// IsNull reports whether the value is falsy (a zero pointer or zero scalar).
	IsNull() (bool, error)

	// Dereference follows a pointer value.
	Dereference() (Value, error)

	// Field reads a named member of a structure, or of the structure a pointer refers to.
	Field(name string) (Value, error)

	// Int converts a scalar value to an integer.
	Int() (int64, error)

	// Add computes pointer + n, scaled by the element size.
	Add(n int64) (Value, error)

	// CString reads a NUL-terminated string through a char pointer.
	CString() (string, error)
}

// Type is the host's type metadata
type Type interface {
	Code() TypeCode
	Name() string

	// Tag is the identifying struct tag; empty for anonymous and non-struct types.
	Tag() string

	// Target is the pointee of a pointer type, nil otherwise.
	Target() Type

	// StripTypedefs resolves aliases down to the underlying type.
	StripTypedefs() Type

	// FieldNames lists declared members in declaration order.
	FieldNames() ([]string, error)
}

// ConstantResolver looks up named integer constants in the inspected environment
type ConstantResolver interface {
	Constant(name string) (int64, error)
}

// ConstantFunc adapts a function to ConstantResolver
type ConstantFunc func(name string) (int64, error)

func (f ConstantFunc) Constant(name string) (int64, error) {
	return f(name)
}

// ErrUnresolvable marks a missing environment constant or failed type lookup
var ErrUnresolvable = errors.New("unresolvable")

// Fetcher is implemented by values that can verify their backing memory is readable.
// Values without it are assumed readable until a field access says otherwise.
type Fetcher interface {
	Fetch() error
}
