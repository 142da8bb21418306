package action

import (
	"context"

	"go.uber.org/multierr"
)

// RelativeAction decodes a sign-magnitude relative encoder byte and runs
// the matching direction child once per step of movement.
//
// Convention: 64 is the rest position; 65-127 runs the increase child
// (value-64) times and 1-63 runs the decrease child (64-value) times. Byte
// 0 is treated as no movement. This is the convention most encoders ship
// with in their default relative mode.
//
// Repetitions are awaited one by one; a failing repetition does not stop
// the remaining ones, and all failures surface as a single aggregate error.
type RelativeAction struct {
	node
	increase Action
	decrease Action
}

// NewRelativeAction creates a relative-encoder decoder.
func NewRelativeAction(desc string, increase, decrease Action) *RelativeAction {
	return &RelativeAction{node: newNode(desc), increase: increase, decrease: decrease}
}

func (r *RelativeAction) Execute(ctx context.Context, in Input) error {
	if !in.HasValue {
		return nil
	}

	child, steps := r.decode(in.Value)
	if steps == 0 {
		return nil
	}

	var errs error
	for i := 0; i < steps; i++ {
		if err := child.Execute(ctx, in); err != nil {
			errs = multierr.Append(errs, &ChildError{Index: i, ActionID: child.ID(), Err: err})
		}
	}
	return errs
}

func (r *RelativeAction) decode(value uint8) (Action, int) {
	switch {
	case value > 64:
		return r.increase, int(value - 64)
	case value >= 1 && value < 64:
		return r.decrease, int(64 - value)
	default:
		return nil, 0
	}
}
