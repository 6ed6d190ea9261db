package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mabhi256/cgdiag/internal/image/model"
)

var ErrUnmapped = errors.New("cannot access memory")

// Segment is one contiguous mapped range
type Segment struct {
	Base model.Address
	Data []byte
}

func (s *Segment) End() model.Address {
	return s.Base + model.Address(len(s.Data))
}

func (s *Segment) contains(addr model.Address, n int) bool {
	return addr >= s.Base && uint64(addr)+uint64(n) <= uint64(s.End())
}

// Memory is the address space of an image. Anything outside a segment is
// unreadable, which is how corrupted pointers show up.
type Memory struct {
	segments []*Segment // sorted by Base
	mu       sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{}
}

// Map adds a segment. Overlapping an existing segment is an error.
func (m *Memory) Map(base model.Address, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if uint64(base)+uint64(len(data)) < uint64(base) {
		return fmt.Errorf("segment at %s wraps the address space", base)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	seg := &Segment{Base: base, Data: data}
	i := sort.Search(len(m.segments), func(i int) bool { return m.segments[i].Base >= base })

	if i > 0 && m.segments[i-1].End() > base {
		prev := m.segments[i-1]
		return fmt.Errorf("segment at %s overlaps [%s, %s)", base, prev.Base, prev.End())
	}
	if i < len(m.segments) && seg.End() > m.segments[i].Base {
		next := m.segments[i]
		return fmt.Errorf("segment at %s overlaps [%s, %s)", base, next.Base, next.End())
	}

	m.segments = append(m.segments, nil)
	copy(m.segments[i+1:], m.segments[i:])
	m.segments[i] = seg
	return nil
}

func (m *Memory) find(addr model.Address, n int) *Segment {
	i := sort.Search(len(m.segments), func(i int) bool { return m.segments[i].End() > addr })
	if i < len(m.segments) && m.segments[i].contains(addr, n) {
		return m.segments[i]
	}
	return nil
}

// Mapped reports whether [addr, addr+n) is readable
func (m *Memory) Mapped(addr model.Address, n int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.find(addr, n) != nil
}

// Read returns a copy of n bytes at addr
func (m *Memory) Read(addr model.Address, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read size: %d", n)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seg := m.find(addr, n)
	if seg == nil {
		return nil, fmt.Errorf("%w at address %s", ErrUnmapped, addr)
	}
	off := int(addr - seg.Base)
	out := make([]byte, n)
	copy(out, seg.Data[off:off+n])
	return out, nil
}

// Write stores data into already mapped memory
func (m *Memory) Write(addr model.Address, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seg := m.find(addr, len(data))
	if seg == nil {
		return fmt.Errorf("%w at address %s", ErrUnmapped, addr)
	}
	copy(seg.Data[addr-seg.Base:], data)
	return nil
}

// ReadCString reads up to a NUL byte, at most limit bytes
func (m *Memory) ReadCString(addr model.Address, limit int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seg := m.find(addr, 1)
	if seg == nil {
		return "", fmt.Errorf("%w at address %s", ErrUnmapped, addr)
	}

	data := seg.Data[addr-seg.Base:]
	for i, b := range data {
		if b == 0 {
			return string(data[:i]), nil
		}
		if i+1 >= limit {
			return string(data[:i+1]), nil
		}
	}
	return "", fmt.Errorf("unterminated string at %s: %w", addr, ErrUnmapped)
}

// Segments returns the mapped ranges in address order
func (m *Memory) Segments() []*Segment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Segment, len(m.segments))
	copy(out, m.segments)
	return out
}

// Statistics returns summary statistics about the address space
func (m *Memory) Statistics() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, s := range m.segments {
		total += len(s.Data)
	}
	return map[string]any{
		"segments":     len(m.segments),
		"mapped_bytes": total,
	}
}
