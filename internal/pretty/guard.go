package pretty

import (
	"errors"
	"fmt"
)

// State is the three-way classification of an inspected value
type State int

const (
	StateLive State = iota
	StateNull
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateNull:
		return "null"
	case StateInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	SentinelNull    = "<null>"
	SentinelInvalid = "<invalid>"
)

// Guarded is a classified value. Value is only set when State is StateLive.
type Guarded struct {
	State State
	Value Value
	Err   error
}

func (g Guarded) Live() bool { return g.State == StateLive }

// Sentinel returns the placeholder string for a non-live classification
func (g Guarded) Sentinel() string {
	if g.State == StateNull {
		return SentinelNull
	}
	return SentinelInvalid
}

var errNilValue = errors.New("nil value")

func invalid(err error) Guarded { return Guarded{State: StateInvalid, Err: err} }

// Classify normalizes pointer and direct access. A pointer is followed once:
// zero address is Null, an unreadable target is Invalid, anything else is the
// live structure it points to. A direct value is live unless it cannot be read.
func Classify(v Value) Guarded {
	return classify(v, true)
}

// Check applies the same three-way rule without following pointers. A live
// pointer stays a pointer; only its own readability and nullness are tested.
func Check(v Value) Guarded {
	return classify(v, false)
}

func classify(v Value, follow bool) (g Guarded) {
	defer func() {
		if r := recover(); r != nil {
			g = invalid(fmt.Errorf("host panic: %v", r))
		}
	}()

	if v == nil {
		return invalid(errNilValue)
	}

	t := v.Type()
	if t == nil {
		return invalid(fmt.Errorf("value has no type"))
	}

	if t.StripTypedefs().Code() != CodePointer {
		if f, ok := v.(Fetcher); ok {
			if err := f.Fetch(); err != nil {
				return invalid(err)
			}
		}
		return Guarded{State: StateLive, Value: v}
	}

	isNull, err := v.IsNull()
	if err != nil {
		return invalid(err)
	}
	if isNull {
		return Guarded{State: StateNull}
	}

	if !follow {
		return Guarded{State: StateLive, Value: v}
	}

	target, err := v.Dereference()
	if err != nil {
		return invalid(err)
	}
	if f, ok := target.(Fetcher); ok {
		if err := f.Fetch(); err != nil {
			return invalid(err)
		}
	}

	return Guarded{State: StateLive, Value: target}
}

// guard runs one host operation, turning a panic into an error
func guard[T any](op func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("host panic: %v", r)
		}
	}()
	return op()
}
