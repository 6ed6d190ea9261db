package registry

import (
	"errors"
	"fmt"

	"github.com/mabhi256/cgdiag/internal/image/model"
)

var ErrUnknownSymbol = errors.New("unknown symbol")

// Global is a named root of the image. Located globals live in memory at
// Address; the others carry their value bytes directly.
type Global struct {
	Name    string
	Type    *model.Type
	Address model.Address
	Located bool
	Data    []byte
}

// SymbolRegistry holds environment constants and named roots
type SymbolRegistry struct {
	constants *BaseRegistry[string, int64]
	globals   *BaseRegistry[string, *Global]
}

func NewSymbolRegistry() *SymbolRegistry {
	return &SymbolRegistry{
		constants: NewBaseRegistry[string, int64](),
		globals:   NewBaseRegistry[string, *Global](),
	}
}

func (r *SymbolRegistry) AddConstant(name string, value int64) {
	r.constants.Add(name, value)
}

func (r *SymbolRegistry) Constant(name string) (int64, error) {
	v, ok := r.constants.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: constant %s", ErrUnknownSymbol, name)
	}
	return v, nil
}

func (r *SymbolRegistry) AddGlobal(g *Global) {
	r.globals.Add(g.Name, g)
}

func (r *SymbolRegistry) Global(name string) (*Global, error) {
	g, ok := r.globals.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, name)
	}
	return g, nil
}

// Globals returns roots in declaration order
func (r *SymbolRegistry) Globals() []*Global {
	var out []*Global
	for _, name := range r.globals.Keys() {
		g, _ := r.globals.Get(name)
		out = append(out, g)
	}
	return out
}

func (r *SymbolRegistry) ConstantNames() []string {
	return r.constants.Keys()
}
