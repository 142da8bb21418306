package action

import "context"

// ValueRange binds an inclusive [Min, Max] value range to an action.
type ValueRange struct {
	Min    uint8
	Max    uint8
	Action Action
}

// ValueSwitch executes the first range whose bounds contain the input value.
// Overlapping ranges are legal and resolved by declaration order. A missing
// input value or an unmatched value is a no-op, not an error.
type ValueSwitch struct {
	node
	ranges []ValueRange
}

// NewValueSwitch creates a value switch over the given ranges.
func NewValueSwitch(desc string, ranges ...ValueRange) *ValueSwitch {
	return &ValueSwitch{node: newNode(desc), ranges: ranges}
}

func (v *ValueSwitch) Execute(ctx context.Context, in Input) error {
	if !in.HasValue {
		return nil
	}
	for _, r := range v.ranges {
		if in.Value >= r.Min && in.Value <= r.Max {
			return r.Action.Execute(ctx, in)
		}
	}
	return nil
}
