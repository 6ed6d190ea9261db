package image

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/mabhi256/cgdiag/internal/image/model"
	"github.com/mabhi256/cgdiag/internal/pretty"
)

// Value is a typed value of an image. Lvalues are read lazily from memory;
// rvalues (pointer arithmetic results, constant globals) carry their bytes.
type Value struct {
	img    *Image
	typ    *model.Type
	addr   model.Address
	lvalue bool
	data   []byte
}

var (
	_ pretty.Value   = (*Value)(nil)
	_ pretty.Fetcher = (*Value)(nil)
)

func (v *Value) Type() pretty.Type { return typeView(v.typ) }

// ModelType is the underlying type description
func (v *Value) ModelType() *model.Type { return v.typ }

// Address is where an lvalue lives; ok is false for rvalues
func (v *Value) Address() (model.Address, bool) {
	return v.addr, v.lvalue
}

func (v *Value) base() (*model.Type, error) {
	b := v.typ.Strip()
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, v.typ.Name)
	}
	return b, nil
}

func (v *Value) bytes() ([]byte, error) {
	if v.data != nil {
		return v.data, nil
	}
	if !v.lvalue {
		return nil, fmt.Errorf("value of %s has no storage", v.typ.Name)
	}

	b, err := v.base()
	if err != nil {
		return nil, err
	}
	if !b.Complete {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, b.Name)
	}

	data, err := v.img.Memory.Read(v.addr, b.Size)
	if err != nil {
		return nil, err
	}
	v.data = data
	return data, nil
}

// Fetch verifies the value's storage can be read
func (v *Value) Fetch() error {
	_, err := v.bytes()
	return err
}

func (v *Value) word() (uint64, error) {
	data, err := v.bytes()
	if err != nil {
		return 0, err
	}
	var n uint64
	for i := len(data) - 1; i >= 0; i-- {
		n = n<<8 | uint64(data[i])
	}
	return n, nil
}

// pointee returns the address held by a pointer value
func (v *Value) pointee() (model.Address, *model.Type, error) {
	b, err := v.base()
	if err != nil {
		return 0, nil, err
	}
	if b.Kind != model.KindPointer {
		return 0, nil, fmt.Errorf("%w: %s", ErrNotPointer, v.typ.Name)
	}
	n, err := v.word()
	if err != nil {
		return 0, nil, err
	}
	return model.Address(n), b.Elem, nil
}

func (v *Value) IsNull() (bool, error) {
	b, err := v.base()
	if err != nil {
		return false, err
	}
	if !b.Kind.IsScalar() {
		return false, fmt.Errorf("%w: %s", ErrNotTruthable, v.typ.Name)
	}

	data, err := v.bytes()
	if err != nil {
		return false, err
	}
	for _, c := range data {
		if c != 0 {
			return false, nil
		}
	}
	return true, nil
}

func (v *Value) Dereference() (pretty.Value, error) {
	target, err := v.deref()
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (v *Value) deref() (*Value, error) {
	addr, elem, err := v.pointee()
	if err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, ErrNullPointer
	}

	target := elem.Strip()
	if target == nil || !target.Complete || target.Kind == model.KindVoid {
		return nil, fmt.Errorf("%w: cannot dereference %s", ErrIncomplete, v.typ.Name)
	}
	if !v.img.Memory.Mapped(addr, target.Size) {
		return nil, fmt.Errorf("%w at address %s", ErrUnmapped, addr)
	}

	return v.img.At(elem, addr), nil
}

// Field reads a member; pointers to structures are followed once
func (v *Value) Field(name string) (pretty.Value, error) {
	f, err := v.field(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (v *Value) field(name string) (*Value, error) {
	b, err := v.base()
	if err != nil {
		return nil, err
	}

	if b.Kind == model.KindPointer {
		target, err := v.deref()
		if err != nil {
			return nil, err
		}
		return target.field(name)
	}

	if b.Kind != model.KindStruct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, v.typ.Name)
	}

	f, ok := b.FieldByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoField, b.Name, name)
	}
	size := f.Type.Strip().Size

	if v.lvalue && v.data == nil {
		at := v.addr + model.Address(f.Offset)
		if !v.img.Memory.Mapped(at, size) {
			return nil, fmt.Errorf("%w at address %s", ErrUnmapped, at)
		}
		return v.img.At(f.Type, at), nil
	}

	data, err := v.bytes()
	if err != nil {
		return nil, err
	}
	out := v.img.constant(f.Type, data[f.Offset:f.Offset+size])
	if v.lvalue {
		out.addr = v.addr + model.Address(f.Offset)
		out.lvalue = true
	}
	return out, nil
}

// Index reads element i of an array or of the run a pointer points into
func (v *Value) Index(i int64) (*Value, error) {
	b, err := v.base()
	if err != nil {
		return nil, err
	}
	if b.Kind == model.KindArray && (i < 0 || i >= int64(b.Len)) {
		return nil, fmt.Errorf("index %d out of range for %s", i, b.Name)
	}

	p, err := v.add(i)
	if err != nil {
		return nil, err
	}
	return p.deref()
}

func (v *Value) Int() (int64, error) {
	b, err := v.base()
	if err != nil {
		return 0, err
	}

	switch b.Kind {
	case model.KindBool, model.KindChar, model.KindInt, model.KindUint, model.KindPointer:
	default:
		return 0, fmt.Errorf("%w: %s", ErrNotInteger, v.typ.Name)
	}

	n, err := v.word()
	if err != nil {
		return 0, err
	}
	if b.Kind == model.KindInt || b.Kind == model.KindChar {
		shift := 64 - 8*uint(b.Size)
		return int64(n<<shift) >> shift, nil
	}
	return int64(n), nil
}

// Add is pointer arithmetic. Arrays decay to a pointer to their first element.
func (v *Value) Add(n int64) (pretty.Value, error) {
	p, err := v.add(n)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (v *Value) add(n int64) (*Value, error) {
	b, err := v.base()
	if err != nil {
		return nil, err
	}

	var start model.Address
	var elem *model.Type

	switch b.Kind {
	case model.KindPointer:
		start, elem, err = v.pointee()
		if err != nil {
			return nil, err
		}
	case model.KindArray:
		if !v.lvalue {
			return nil, fmt.Errorf("array %s has no address", v.typ.Name)
		}
		start, elem = v.addr, b.Elem
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotPointer, v.typ.Name)
	}

	stride := elem.Strip()
	if stride == nil || !stride.Complete || stride.Size == 0 {
		return nil, fmt.Errorf("%w: pointer arithmetic on %s", ErrIncomplete, elem.Name)
	}

	addr := model.Address(int64(start) + n*int64(stride.Size))
	return v.img.pointerValue(v.img.Types.PointerTo(elem), addr), nil
}

func (v *Value) CString() (string, error) {
	b, err := v.base()
	if err != nil {
		return "", err
	}

	var addr model.Address
	switch {
	case v.typ.IsCharPointer():
		addr, _, err = v.pointee()
		if err != nil {
			return "", err
		}
	case b.Kind == model.KindArray && b.Elem.Strip().Size == 1 && v.lvalue:
		addr = v.addr
	default:
		return "", fmt.Errorf("%w: %s is not a string", ErrNotPointer, v.typ.Name)
	}

	if addr == 0 {
		return "", ErrNullPointer
	}
	return v.img.Memory.ReadCString(addr, maxCString)
}

// Format renders a scalar for display: integers in decimal, floats in
// shortest form, pointers in hex
func (v *Value) Format() (string, error) {
	b, err := v.base()
	if err != nil {
		return "", err
	}

	switch b.Kind {
	case model.KindBool:
		n, err := v.word()
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(n != 0), nil

	case model.KindChar, model.KindInt, model.KindUint:
		n, err := v.Int()
		if err != nil {
			return "", err
		}
		if b.Kind == model.KindUint {
			return strconv.FormatUint(uint64(n)&mask(b.Size), 10), nil
		}
		return strconv.FormatInt(n, 10), nil

	case model.KindFloat:
		data, err := v.bytes()
		if err != nil {
			return "", err
		}
		if b.Size == 4 {
			f := math.Float32frombits(binary.LittleEndian.Uint32(data))
			return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
		}
		return strconv.FormatFloat(math.Float64frombits(binary.LittleEndian.Uint64(data)), 'g', -1, 64), nil

	case model.KindPointer:
		addr, _, err := v.pointee()
		if err != nil {
			return "", err
		}
		if addr == 0 {
			return "NULL", nil
		}
		return addr.String(), nil

	default:
		return "", fmt.Errorf("%s is not a scalar", v.typ.Name)
	}
}

func mask(size int) uint64 {
	if size >= 8 {
		return math.MaxUint64
	}
	return 1<<(8*uint(size)) - 1
}

func (v *Value) String() string {
	if s, err := v.Format(); err == nil {
		return s
	}
	if v.lvalue {
		return fmt.Sprintf("(%s) @%s", v.typ.Name, v.addr)
	}
	return fmt.Sprintf("(%s)", v.typ.Name)
}
