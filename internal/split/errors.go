package split

import (
	"errors"
	"fmt"
)

var (
	// ErrNotMounted is returned by buffer-scoped operations when the panel has
	// no buffer.
	ErrNotMounted = errors.New("panel buffer not found")

	// ErrConstruction is matched by every ConstructionError via errors.Is.
	ErrConstruction = errors.New("split construction failed")
)

// ConstructionError reports a failed mount. Nothing created by the failed
// attempt is left behind.
type ConstructionError struct {
	Split int
	Stage string // "buffer", "events", "options", "window"
	Err   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("split %d: construction failed at %s: %v", e.Split, e.Stage, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// Is matches ErrConstruction.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}
