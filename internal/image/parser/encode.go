package parser

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mabhi256/cgdiag/internal/image/model"
)

// encode writes v as a little-endian value of type t into buf, which is
// exactly t's size. path names the value in error messages.
func (l *Loader) encode(t *model.Type, v any, buf []byte, path string) error {
	base := t.Strip()
	if base == nil || !base.Complete {
		return fmt.Errorf("%s: type %s has no layout", path, t.Name)
	}

	switch base.Kind {
	case model.KindBool, model.KindChar, model.KindInt, model.KindUint:
		n, err := integerOf(v)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		putUint(buf, uint64(n))
		return nil

	case model.KindFloat:
		f, err := floatOf(v)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if base.Size == 4 {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
		} else {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		}
		return nil

	case model.KindPointer:
		if s, ok := v.(string); ok {
			if !t.IsCharPointer() {
				return fmt.Errorf("%s: string given for non-char pointer %s", path, t.Name)
			}
			addr, err := l.intern(s)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			putUint(buf, uint64(addr))
			return nil
		}
		n, err := integerOf(v)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		putUint(buf, uint64(n))
		return nil

	case model.KindArray:
		return l.encodeArray(base, v, buf, path)

	case model.KindStruct:
		fields, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected a table for %s, got %T", path, base.Name, v)
		}
		for name, fv := range fields {
			f, ok := base.FieldByName(name)
			if !ok {
				return fmt.Errorf("%s: %s has no field %s", path, base.Name, name)
			}
			size := f.Type.Strip().Size
			if err := l.encode(f.Type, fv, buf[f.Offset:f.Offset+size], path+"."+name); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%s: cannot encode a value of type %s", path, t.Name)
	}
}

func (l *Loader) encodeArray(t *model.Type, v any, buf []byte, path string) error {
	elemSize := t.Elem.Strip().Size

	if s, ok := v.(string); ok && elemSize == 1 {
		if len(s) > t.Len {
			return fmt.Errorf("%s: string of %d bytes exceeds %s", path, len(s), t.Name)
		}
		copy(buf, s)
		return nil
	}

	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("%s: expected an array for %s, got %T", path, t.Name, v)
	}
	if len(items) > t.Len {
		return fmt.Errorf("%s: %d elements exceed %s", path, len(items), t.Name)
	}

	for i, item := range items {
		off := i * elemSize
		if err := l.encode(t.Elem, item, buf[off:off+elemSize], fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func putUint(buf []byte, n uint64) {
	for i := range buf {
		buf[i] = byte(n >> (8 * i))
	}
}

func integerOf(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		if len(x) == 1 {
			return int64(x[0]), nil
		}
		return 0, fmt.Errorf("expected an integer, got string %q", x)
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func floatOf(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
