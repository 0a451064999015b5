package lifecycle

import (
	"errors"
	"fmt"
)

// ErrForcedTermination is returned by Serve when the component did not
// finish voluntary teardown within the grace period and was abandoned.
var ErrForcedTermination = errors.New("forced termination: component did not stop within the grace period")

// ConstructionError wraps a component factory failure. Startup aborts
// before the component ever runs; no partial start is exposed.
type ConstructionError struct {
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("component construction failed: %v", e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// ComponentError wraps a fatal error reported by the component's Run. The
// harness never retries; retry policy, if any, belongs to the component.
type ComponentError struct {
	Err error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component failed: %v", e.Err)
}

func (e *ComponentError) Unwrap() error { return e.Err }
