package image

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mabhi256/cgdiag/internal/image/model"
)

// Eval evaluates a small subset of C expressions against the image:
//
//	name            a global
//	*expr           dereference
//	expr.field      member access
//	expr->field     member access through a pointer
//	expr[i]         element of an array or of the run a pointer points into
//	(Type*)0x1000   an address reinterpreted as a typed pointer
//
// Unary '*' binds looser than postfix operators, as in C.
func (img *Image) Eval(expr string) (*Value, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return nil, fmt.Errorf("empty expression")
	}

	derefs := 0
	for strings.HasPrefix(s, "*") {
		derefs++
		s = strings.TrimSpace(s[1:])
	}

	v, rest, err := img.primary(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", expr, err)
	}

	v, err = img.postfix(v, rest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", expr, err)
	}

	for range derefs {
		v, err = v.deref()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", expr, err)
		}
	}
	return v, nil
}

func (img *Image) primary(s string) (*Value, string, error) {
	if strings.HasPrefix(s, "(") {
		return img.cast(s)
	}

	end := identEnd(s)
	if end == 0 {
		return nil, "", fmt.Errorf("expected a name at %q", s)
	}
	v, err := img.Global(s[:end])
	if err != nil {
		return nil, "", err
	}
	return v, s[end:], nil
}

func (img *Image) cast(s string) (*Value, string, error) {
	closing := strings.IndexByte(s, ')')
	if closing < 0 {
		return nil, "", fmt.Errorf("unterminated cast in %q", s)
	}

	spelled := strings.TrimSpace(s[1:closing])
	pointers := 0
	for strings.HasSuffix(spelled, "*") {
		pointers++
		spelled = strings.TrimSpace(strings.TrimSuffix(spelled, "*"))
	}
	spelled = strings.TrimSpace(strings.TrimPrefix(spelled, "struct "))

	t, err := img.Types.Lookup(spelled)
	if err != nil {
		return nil, "", err
	}

	rest := strings.TrimSpace(s[closing+1:])
	end := strings.IndexAny(rest, ".-[")
	if end < 0 {
		end = len(rest)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(rest[:end]), 0, 64)
	if err != nil {
		return nil, "", fmt.Errorf("invalid address %q", rest[:end])
	}
	addr := model.Address(n)

	if pointers == 0 {
		return img.At(t, addr), rest[end:], nil
	}
	for range pointers {
		t = img.Types.PointerTo(t)
	}
	return img.pointerValue(t, addr), rest[end:], nil
}

func (img *Image) postfix(v *Value, s string) (*Value, error) {
	var err error
	for {
		s = strings.TrimSpace(s)
		switch {
		case s == "":
			return v, nil

		case strings.HasPrefix(s, "->"):
			b, berr := v.base()
			if berr != nil {
				return nil, berr
			}
			if b.Kind != model.KindPointer {
				return nil, fmt.Errorf("%w: -> applied to %s", ErrNotPointer, v.typ.Name)
			}
			fallthrough

		case strings.HasPrefix(s, "."):
			s = strings.TrimLeft(s, ".->")
			end := identEnd(s)
			if end == 0 {
				return nil, fmt.Errorf("expected a field name at %q", s)
			}
			if v, err = v.field(s[:end]); err != nil {
				return nil, err
			}
			s = s[end:]

		case strings.HasPrefix(s, "["):
			closing := strings.IndexByte(s, ']')
			if closing < 0 {
				return nil, fmt.Errorf("unterminated index in %q", s)
			}
			i, perr := strconv.ParseInt(strings.TrimSpace(s[1:closing]), 0, 64)
			if perr != nil {
				return nil, fmt.Errorf("invalid index %q", s[1:closing])
			}
			if v, err = v.Index(i); err != nil {
				return nil, err
			}
			s = s[closing+1:]

		default:
			return nil, fmt.Errorf("unexpected %q", s)
		}
	}
}

func identEnd(s string) int {
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return i
		}
	}
	return len(s)
}
