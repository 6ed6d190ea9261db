package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eapache/queue"
	"github.com/mabhi256/cgdiag/internal/image/model"
)

/*
* resolveTypes computes struct layouts and typedef targets.
*
* Declarations may appear in any order. Every name is registered first so
* pointers can refer forward; layouts are then computed from a worklist.
* A struct whose by-value members have no layout yet goes back on the
* queue. A full rotation without progress means the remaining structs
* contain each other by value (or an undeclared type) and is an error.
*
* Field offsets follow C natural alignment:
*	offset   aligned up to the member's alignment
*	size     aligned up to the largest member alignment
 */
func (l *Loader) resolveTypes(decls []model.TypeDecl) error {
	declared := make(map[string]bool, len(decls))
	for i := range decls {
		decl := &decls[i]
		if decl.Name == "" {
			return fmt.Errorf("type declaration %d has no name", i)
		}

		if _, builtin := l.types.Get(decl.Name); builtin || declared[decl.Name] {
			return fmt.Errorf("type %s declared twice", decl.Name)
		}
		declared[decl.Name] = true

		switch decl.Kind {
		case "", "struct":
			l.types.Declare(decl.Name)
		case "typedef":
			if decl.Target == "" {
				return fmt.Errorf("typedef %s has no target", decl.Name)
			}
			l.types.Add(decl.Name, &model.Type{Name: decl.Name, Kind: model.KindTypedef})
		default:
			return fmt.Errorf("type %s: unknown kind %q", decl.Name, decl.Kind)
		}
	}

	pending := queue.New()
	for i := range decls {
		pending.Add(&decls[i])
	}

	stalled := 0
	for pending.Length() > 0 {
		decl := pending.Remove().(*model.TypeDecl)

		err := l.layout(decl)
		if err == nil {
			stalled = 0
			continue
		}
		if !errors.Is(err, errNotReady) {
			return fmt.Errorf("type %s: %w", decl.Name, err)
		}

		pending.Add(decl)
		stalled++
		if stalled >= pending.Length() {
			return fmt.Errorf("cannot lay out %s: recursive by-value members or undeclared types", pendingNames(pending))
		}
	}

	return nil
}

func pendingNames(q *queue.Queue) string {
	names := make([]string, 0, q.Length())
	for i := 0; i < q.Length(); i++ {
		names = append(names, q.Get(i).(*model.TypeDecl).Name)
	}
	return strings.Join(names, ", ")
}

func (l *Loader) layout(decl *model.TypeDecl) error {
	t, err := l.types.Lookup(decl.Name)
	if err != nil {
		return err
	}

	if t.Kind == model.KindTypedef {
		target, err := l.resolve(decl.Target)
		if err != nil {
			return err
		}
		for cur := target; cur != nil && cur.Kind == model.KindTypedef; cur = cur.Elem {
			if cur == t {
				return fmt.Errorf("typedef refers to itself")
			}
		}
		t.Elem = target
		t.Complete = true
		return nil
	}

	fields := make([]*model.Field, 0, len(decl.Fields))
	seen := make(map[string]bool, len(decl.Fields))
	offset, maxAlign := 0, 1

	for _, fd := range decl.Fields {
		if fd.Name == "" {
			return fmt.Errorf("field without a name")
		}
		if seen[fd.Name] {
			return fmt.Errorf("duplicate field %s", fd.Name)
		}
		seen[fd.Name] = true

		ft, err := l.resolveComplete(fd.Type)
		if err != nil {
			if errors.Is(err, errNotReady) {
				return err
			}
			return fmt.Errorf("field %s: %w", fd.Name, err)
		}

		base := ft.Strip()
		if base.Kind == model.KindVoid {
			return fmt.Errorf("field %s has type void", fd.Name)
		}

		offset = alignUp(offset, base.Align)
		fields = append(fields, &model.Field{Name: fd.Name, Type: ft, Offset: offset})
		offset += base.Size
		maxAlign = max(maxAlign, base.Align)
	}

	t.Fields = fields
	t.Align = maxAlign
	t.Size = alignUp(offset, maxAlign)
	t.Complete = true
	return nil
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
