package designer

import (
	"errors"
	"fmt"
)

// Rejected operations return one of these errors and leave the session
// unchanged.
var (
	ErrCapacityExceeded   = errors.New("room bed capacity exceeded")
	ErrElementNotFound    = errors.New("element not found")
	ErrSetupRequired      = errors.New("room setup required")
	ErrInvalidDimensions  = errors.New("invalid room dimensions")
	ErrInvalidUpdate      = errors.New("invalid element update")
	ErrUnknownElementType = errors.New("unknown element type")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrNothingToRedo      = errors.New("nothing to redo")
	ErrDragInProgress     = errors.New("drag in progress")
	ErrNoDrag             = errors.New("no drag in progress")
)

// CapacityError describes a rejected add.
type CapacityError struct {
	Limit     int
	Current   int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %d beds placed, adding %d would exceed the limit of %d",
		ErrCapacityExceeded, e.Current, e.Requested, e.Limit)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
