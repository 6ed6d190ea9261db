package image

import (
	"fmt"

	"github.com/mabhi256/cgdiag/internal/image/model"
	"github.com/mabhi256/cgdiag/internal/pretty"
)

// Type adapts model.Type to the printers' type interface
type Type struct {
	t *model.Type
}

var _ pretty.Type = Type{}

func typeView(t *model.Type) pretty.Type {
	if t == nil {
		return nil
	}
	return Type{t: t}
}

func (t Type) Model() *model.Type { return t.t }

func (t Type) Name() string { return t.t.Name }

func (t Type) Tag() string { return t.t.Tag() }

func (t Type) Code() pretty.TypeCode {
	switch t.t.Kind {
	case model.KindPointer:
		return pretty.CodePointer
	case model.KindStruct:
		return pretty.CodeStruct
	case model.KindTypedef:
		// typedefs report the code of what they alias, as a debugger does
		if s := t.t.Strip(); s != nil {
			return Type{t: s}.Code()
		}
	}
	return pretty.CodeOther
}

func (t Type) Target() pretty.Type {
	s := t.t.Strip()
	if s == nil || s.Kind != model.KindPointer {
		return nil
	}
	return typeView(s.Elem)
}

func (t Type) StripTypedefs() pretty.Type {
	s := t.t.Strip()
	if s == nil {
		return t
	}
	return Type{t: s}
}

func (t Type) FieldNames() ([]string, error) {
	s := t.t.Strip()
	if s == nil || s.Kind != model.KindStruct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t.t.Name)
	}
	if !s.Complete {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, t.t.Name)
	}

	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names, nil
}
