package errors

import "fmt"

// TransitionError reports a rejected order status transition.
type TransitionError struct {
	Event  string
	Status string
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s order in status %q: %v", e.Event, e.Status, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
