package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleHandle means the entity at the handle's index has a different
	// generation than the handle, or the slot is empty.
	ErrStaleHandle = errors.New("stale entity handle")
	// ErrUnknownComponentKind means the entity has no component of that kind,
	// or the kind id is not known to the host.
	ErrUnknownComponentKind = errors.New("unknown component kind")
	// ErrUnresolvedPath means the path names no field of the component.
	ErrUnresolvedPath = errors.New("unresolved field path")
	// ErrTypeMismatch means the field exists but holds a different type than
	// the typed operation used to reach it.
	ErrTypeMismatch        = errors.New("field type mismatch")
	ErrUnknownBehaviorType = errors.New("unknown behavior type")
	ErrUnknownListener     = errors.New("unknown event listener")
)

// FieldError reports a failed remote operation together with the locator it
// targeted.
type FieldError struct {
	Op  string
	Loc Locator
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Loc, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
