package parser

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/mabhi256/cgdiag/internal/image/model"
	"github.com/mabhi256/cgdiag/internal/image/registry"
)

const (
	defaultPointerSize = 8

	// Interned strings are placed here unless the snapshot maps this range itself
	stringHeapBase model.Address = 0x7f000000
)

// Registries is everything a loaded snapshot produces
type Registries struct {
	Types   *registry.TypeRegistry
	Symbols *registry.SymbolRegistry
	Memory  *registry.Memory

	// Warnings lists snapshot keys that were not understood
	Warnings []string
}

// Loader turns a Snapshot into registries
type Loader struct {
	types   *registry.TypeRegistry
	symbols *registry.SymbolRegistry
	memory  *registry.Memory

	interned   map[string]model.Address
	nextString model.Address
}

// ParseFile loads a TOML snapshot from disk
func ParseFile(path string) (*Registries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	regs, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return regs, nil
}

// Parse decodes a TOML snapshot and builds its registries
func Parse(r io.Reader) (*Registries, error) {
	var snap model.Snapshot
	meta, err := toml.NewDecoder(r).Decode(&snap)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	regs, err := Build(&snap)
	if err != nil {
		return nil, err
	}

	for _, key := range meta.Undecoded() {
		if encoderOwned(key) {
			continue
		}
		regs.Warnings = append(regs.Warnings, fmt.Sprintf("unknown key %s", key.String()))
	}
	return regs, nil
}

// encoderOwned reports keys nested inside free-form value tables. The TOML
// decoder leaves those undecoded; encode consumes and checks them instead.
func encoderOwned(key toml.Key) bool {
	if len(key) < 3 {
		return false
	}
	switch key[0] {
	case "objects", "arrays":
		return key[1] == "values"
	case "globals":
		return key[1] == "value"
	}
	return false
}

// Build lays out types and encodes every declared value into memory
func Build(snap *model.Snapshot) (*Registries, error) {
	ptrSize := snap.PointerSize
	if ptrSize == 0 {
		ptrSize = defaultPointerSize
	}
	if ptrSize != 4 && ptrSize != 8 {
		return nil, fmt.Errorf("invalid pointer size: %d", ptrSize)
	}

	l := &Loader{
		types:      registry.NewTypeRegistry(ptrSize),
		symbols:    registry.NewSymbolRegistry(),
		memory:     registry.NewMemory(),
		interned:   make(map[string]model.Address),
		nextString: stringHeapBase,
	}

	if err := l.loadConstants(snap.Constants); err != nil {
		return nil, err
	}
	if err := l.resolveTypes(snap.Types); err != nil {
		return nil, fmt.Errorf("failed to resolve types: %w", err)
	}
	if err := l.loadStrings(snap.Strings); err != nil {
		return nil, err
	}
	if err := l.loadArrays(snap.Arrays); err != nil {
		return nil, err
	}
	if err := l.loadObjects(snap.Objects); err != nil {
		return nil, err
	}
	if err := l.loadGlobals(snap.Globals); err != nil {
		return nil, err
	}

	return &Registries{
		Types:   l.types,
		Symbols: l.symbols,
		Memory:  l.memory,
	}, nil
}

func (l *Loader) loadConstants(constants map[string]int64) error {
	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		l.symbols.AddConstant(name, constants[name])
	}
	return nil
}

func (l *Loader) loadStrings(decls []model.StringDecl) error {
	for _, s := range decls {
		data := append([]byte(s.Value), 0)
		if err := l.memory.Map(model.Address(s.Address), data); err != nil {
			return fmt.Errorf("string %q: %w", s.Value, err)
		}
	}
	return nil
}

func (l *Loader) loadArrays(decls []model.ArrayDecl) error {
	for _, a := range decls {
		elem, err := l.resolveComplete(a.Elem)
		if err != nil {
			return fmt.Errorf("array at 0x%x: %w", a.Address, err)
		}

		arr, err := l.types.ArrayOf(elem, len(a.Values))
		if err != nil {
			return fmt.Errorf("array at 0x%x: %w", a.Address, err)
		}

		buf := make([]byte, arr.Size)
		path := fmt.Sprintf("array@0x%x", a.Address)
		if err := l.encode(arr, a.Values, buf, path); err != nil {
			return err
		}
		if err := l.memory.Map(model.Address(a.Address), buf); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func (l *Loader) loadObjects(decls []model.ObjectDecl) error {
	for _, o := range decls {
		path := fmt.Sprintf("%s@0x%x", o.Type, o.Address)

		t, err := l.resolveComplete(o.Type)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		buf := make([]byte, t.Strip().Size)
		values := o.Values
		if values == nil {
			values = map[string]any{}
		}
		if err := l.encode(t, values, buf, path); err != nil {
			return err
		}
		if err := l.memory.Map(model.Address(o.Address), buf); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func (l *Loader) loadGlobals(decls []model.GlobalDecl) error {
	for _, g := range decls {
		if g.Name == "" {
			return fmt.Errorf("global without a name")
		}

		t, err := l.resolveComplete(g.Type)
		if err != nil {
			return fmt.Errorf("global %s: %w", g.Name, err)
		}

		global := &registry.Global{Name: g.Name, Type: t}
		if g.Address != 0 {
			global.Address = model.Address(g.Address)
			global.Located = true
		} else {
			global.Data = make([]byte, t.Strip().Size)
			if err := l.encode(t, g.Value, global.Data, "global "+g.Name); err != nil {
				return err
			}
		}

		l.symbols.AddGlobal(global)
	}
	return nil
}

// intern places a string on the string heap once and returns its address
func (l *Loader) intern(s string) (model.Address, error) {
	if addr, ok := l.interned[s]; ok {
		return addr, nil
	}

	addr := l.nextString
	data := append([]byte(s), 0)
	if err := l.memory.Map(addr, data); err != nil {
		return 0, fmt.Errorf("failed to intern %q: %w", s, err)
	}

	l.interned[s] = addr
	l.nextString = addr + model.Address(alignUp(len(data), 8))
	return addr, nil
}
