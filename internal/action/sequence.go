package action

import (
	"context"

	"go.uber.org/multierr"
)

// ErrorPolicy controls how a Sequence reacts to a failing child.
type ErrorPolicy int

const (
	// StopOnError aborts remaining children on the first failure.
	StopOnError ErrorPolicy = iota
	// ContinueOnError runs every child and reports all failures as one
	// aggregate error afterwards.
	ContinueOnError
)

// Sequence executes its children in declared order, waiting for each child
// to finish before starting the next, so a delay child genuinely pauses the
// whole sequence.
type Sequence struct {
	node
	policy   ErrorPolicy
	children []Action
}

// NewSequence creates a sequence over the given children.
func NewSequence(desc string, policy ErrorPolicy, children ...Action) *Sequence {
	return &Sequence{node: newNode(desc), policy: policy, children: children}
}

func (s *Sequence) Execute(ctx context.Context, in Input) error {
	var errs error
	for i, child := range s.children {
		if err := child.Execute(ctx, in); err != nil {
			ce := &ChildError{Index: i, ActionID: child.ID(), Err: err}
			if s.policy == StopOnError {
				return ce
			}
			errs = multierr.Append(errs, ce)
		}
	}
	return errs
}
