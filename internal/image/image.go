// Package image exposes a loaded process snapshot through the typed value
// interface the pretty printers consume.
package image

import (
	"errors"
	"fmt"

	"github.com/mabhi256/cgdiag/internal/image/model"
	"github.com/mabhi256/cgdiag/internal/image/parser"
	"github.com/mabhi256/cgdiag/internal/image/registry"
	"github.com/mabhi256/cgdiag/internal/pretty"
)

var (
	ErrNullPointer  = errors.New("null pointer dereference")
	ErrNotPointer   = errors.New("not a pointer")
	ErrNotStruct    = errors.New("not a structure")
	ErrNotInteger   = errors.New("not an integer")
	ErrNoField      = errors.New("no such field")
	ErrIncomplete   = errors.New("incomplete type")
	ErrUnmapped     = registry.ErrUnmapped
	ErrUnknownType  = registry.ErrUnknownType
	ErrUnknownSym   = registry.ErrUnknownSymbol
	ErrNotTruthable = errors.New("attempted truth testing on an aggregate")
)

// maxCString bounds string reads through corrupted pointers
const maxCString = 4096

// Image is a snapshot ready for inspection
type Image struct {
	Types    *registry.TypeRegistry
	Symbols  *registry.SymbolRegistry
	Memory   *registry.Memory
	Warnings []string
}

var _ pretty.ConstantResolver = (*Image)(nil)

func New(regs *parser.Registries) *Image {
	return &Image{
		Types:    regs.Types,
		Symbols:  regs.Symbols,
		Memory:   regs.Memory,
		Warnings: regs.Warnings,
	}
}

// Open loads a snapshot file
func Open(path string) (*Image, error) {
	regs, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return New(regs), nil
}

func (img *Image) PointerSize() int {
	return img.Types.PointerSize()
}

// Constant resolves an environment constant. Missing constants are
// reported as unresolvable so printers can degrade.
func (img *Image) Constant(name string) (int64, error) {
	v, err := img.Symbols.Constant(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", pretty.ErrUnresolvable, err)
	}
	return v, nil
}

// Global returns the named root value
func (img *Image) Global(name string) (*Value, error) {
	g, err := img.Symbols.Global(name)
	if err != nil {
		return nil, err
	}
	if g.Located {
		return img.At(g.Type, g.Address), nil
	}
	return img.constant(g.Type, g.Data), nil
}

// Globals returns every root in declaration order
func (img *Image) Globals() []*registry.Global {
	return img.Symbols.Globals()
}

// At returns the value of type t stored at addr
func (img *Image) At(t *model.Type, addr model.Address) *Value {
	return &Value{img: img, typ: t, addr: addr, lvalue: true}
}

// Cast reinterprets an address as a typed value, e.g. Cast("CguiNode", 0x1000)
func (img *Image) Cast(typeName string, addr model.Address) (*Value, error) {
	t, err := img.Types.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	return img.At(t, addr), nil
}

func (img *Image) constant(t *model.Type, data []byte) *Value {
	return &Value{img: img, typ: t, data: data}
}

func (img *Image) pointerValue(t *model.Type, addr model.Address) *Value {
	data := make([]byte, img.PointerSize())
	for i := range data {
		data[i] = byte(uint64(addr) >> (8 * i))
	}
	return img.constant(t, data)
}
