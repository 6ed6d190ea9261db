package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mabhi256/cgdiag/internal/image/model"
)

// errNotReady means a by-value dependency has no layout yet
var errNotReady = errors.New("type layout not ready")

type suffixOp struct {
	pointer bool
	length  int
}

// typeExpr is a parsed type spelling:
//
//	base      "CguiNode", "unsigned int", "struct CguiTheme"
//	suffixes  "*" for a pointer, "[N]" for a fixed array, applied left to right
//
// so "CguiNode*[4]" is an array of four node pointers.
type typeExpr struct {
	base     string
	suffixes []suffixOp
}

func parseTypeName(spelled string) (typeExpr, error) {
	s := strings.TrimSpace(spelled)
	if s == "" {
		return typeExpr{}, fmt.Errorf("empty type name")
	}

	cut := strings.IndexAny(s, "*[")
	if cut < 0 {
		cut = len(s)
	}

	base, err := normalizeBase(s[:cut])
	if err != nil {
		return typeExpr{}, fmt.Errorf("type %q: %w", spelled, err)
	}
	if base == "" {
		return typeExpr{}, fmt.Errorf("type %q has no base name", spelled)
	}
	expr := typeExpr{base: base}

	rest := s[cut:]
	for len(rest) > 0 {
		switch rest[0] {
		case ' ', '\t':
			rest = rest[1:]
		case '*':
			expr.suffixes = append(expr.suffixes, suffixOp{pointer: true})
			rest = rest[1:]
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return typeExpr{}, fmt.Errorf("type %q: unterminated array bound", spelled)
			}
			n, err := strconv.Atoi(strings.TrimSpace(rest[1:end]))
			if err != nil || n < 0 {
				return typeExpr{}, fmt.Errorf("type %q: invalid array bound %q", spelled, rest[1:end])
			}
			expr.suffixes = append(expr.suffixes, suffixOp{length: n})
			rest = rest[end+1:]
		default:
			if strings.HasPrefix(rest, "const") {
				rest = rest[len("const"):]
				continue
			}
			return typeExpr{}, fmt.Errorf("type %q: unexpected %q", spelled, rest)
		}
	}

	return expr, nil
}

// normalizeBase drops qualifiers and collapses whitespace. Every remaining
// word must be a C identifier.
func normalizeBase(s string) (string, error) {
	var words []string
	for _, w := range strings.Fields(s) {
		switch w {
		case "const", "volatile", "struct":
			continue
		}
		if !isIdentifier(w) {
			return "", fmt.Errorf("invalid name %q", w)
		}
		words = append(words, w)
	}
	return strings.Join(words, " "), nil
}

func isIdentifier(w string) bool {
	for i, c := range w {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return w != ""
}

// resolve builds the type for a spelling. Undeclared names are allowed
// behind a pointer and become incomplete structs; by-value uses need a
// layout and report errNotReady until one exists.
func (l *Loader) resolve(spelled string) (*model.Type, error) {
	expr, err := parseTypeName(spelled)
	if err != nil {
		return nil, err
	}

	cur, known := l.types.Get(expr.base)
	if !known {
		if len(expr.suffixes) == 0 || !expr.suffixes[0].pointer {
			return nil, fmt.Errorf("unknown type %q", expr.base)
		}
		cur = l.types.Declare(expr.base)
	}

	for _, op := range expr.suffixes {
		if op.pointer {
			cur = l.types.PointerTo(cur)
			continue
		}
		if !ready(cur) {
			return nil, errNotReady
		}
		cur, err = l.types.ArrayOf(cur, op.length)
		if err != nil {
			return nil, err
		}
	}

	return cur, nil
}

// resolveComplete is resolve for by-value uses
func (l *Loader) resolveComplete(spelled string) (*model.Type, error) {
	t, err := l.resolve(spelled)
	if err != nil {
		return nil, err
	}
	if !ready(t) {
		return nil, errNotReady
	}
	return t, nil
}

func ready(t *model.Type) bool {
	s := t.Strip()
	return s != nil && s.Complete
}
