package action

import "fmt"

// ChildError reports the failure of one child of a composite action. For
// sequences Index is the child's position; for relative-encoder loops it is
// the repetition number. Continue-on-error composites aggregate several
// ChildErrors through multierr so no individual failure is swallowed.
type ChildError struct {
	Index    int
	ActionID string
	Err      error
}

func (e *ChildError) Error() string {
	return fmt.Sprintf("child %d (%s): %v", e.Index, e.ActionID, e.Err)
}

func (e *ChildError) Unwrap() error {
	return e.Err
}
