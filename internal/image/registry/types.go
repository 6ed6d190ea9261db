package registry

import (
	"errors"
	"fmt"

	"github.com/mabhi256/cgdiag/internal/image/model"
)

var ErrUnknownType = errors.New("unknown type")

// TypeRegistry holds every named type of an image. Pointer and array types
// are derived on demand and cached under their spelled names.
type TypeRegistry struct {
	*BaseRegistry[string, *model.Type]
	pointerSize int
}

func NewTypeRegistry(pointerSize int) *TypeRegistry {
	r := &TypeRegistry{
		BaseRegistry: NewBaseRegistry[string, *model.Type](),
		pointerSize:  pointerSize,
	}

	for _, p := range model.Primitives {
		size := p.Size
		if p.Name == "size_t" {
			size = pointerSize
		}
		align := size
		if align == 0 {
			align = 1
		}
		r.Add(p.Name, &model.Type{Name: p.Name, Kind: p.Kind, Size: size, Align: align, Complete: true})
	}

	return r
}

func (r *TypeRegistry) PointerSize() int {
	return r.pointerSize
}

// Lookup returns a named type
func (r *TypeRegistry) Lookup(name string) (*model.Type, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return t, nil
}

// Declare registers an incomplete struct shell, returning the existing one if present
func (r *TypeRegistry) Declare(name string) *model.Type {
	if t, ok := r.Get(name); ok {
		return t
	}
	t := &model.Type{Name: name, Kind: model.KindStruct}
	r.Add(name, t)
	return t
}

func (r *TypeRegistry) PointerTo(elem *model.Type) *model.Type {
	name := elem.Name + "*"
	if t, ok := r.Get(name); ok {
		return t
	}
	t := &model.Type{
		Name:     name,
		Kind:     model.KindPointer,
		Size:     r.pointerSize,
		Align:    r.pointerSize,
		Elem:     elem,
		Complete: true,
	}
	r.Add(name, t)
	return t
}

// ArrayOf derives T[n]. The element must be complete.
func (r *TypeRegistry) ArrayOf(elem *model.Type, n int) (*model.Type, error) {
	name := fmt.Sprintf("%s[%d]", elem.Name, n)
	if t, ok := r.Get(name); ok {
		return t, nil
	}
	base := elem.Strip()
	if base == nil || !base.Complete {
		return nil, fmt.Errorf("array of incomplete type %s", elem.Name)
	}
	t := &model.Type{
		Name:     name,
		Kind:     model.KindArray,
		Size:     base.Size * n,
		Align:    base.Align,
		Elem:     elem,
		Len:      n,
		Complete: true,
	}
	r.Add(name, t)
	return t, nil
}

// Structs returns declared struct types in declaration order
func (r *TypeRegistry) Structs() []*model.Type {
	var out []*model.Type
	for _, name := range r.Keys() {
		t, _ := r.Get(name)
		if t.Kind == model.KindStruct || t.Kind == model.KindTypedef {
			out = append(out, t)
		}
	}
	return out
}
