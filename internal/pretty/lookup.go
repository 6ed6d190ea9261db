package pretty

import "sync"

// LookupFunc is one candidate printer factory consulted by the host
type LookupFunc func(Value) (ValuePrinter, bool)

// LookupTable is the host-owned, ordered list of candidate printers.
// First match wins, in registration order.
type LookupTable struct {
	mu    sync.RWMutex
	funcs []LookupFunc
}

func NewLookupTable() *LookupTable {
	return &LookupTable{}
}

func (t *LookupTable) Append(fn LookupFunc) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.funcs = append(t.funcs, fn)
}

func (t *LookupTable) Lookup(v Value) (ValuePrinter, bool) {
	t.mu.RLock()
	funcs := t.funcs
	t.mu.RUnlock()

	for _, fn := range funcs {
		if p, ok := fn(v); ok {
			return p, true
		}
	}
	return nil, false
}

func (t *LookupTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.funcs)
}
