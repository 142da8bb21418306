package action

import (
	"context"
	"time"
)

// Delay suspends for a fixed duration. Inside a sequence it pauses the
// remaining children, not just the caller.
type Delay struct {
	node
	duration time.Duration
}

// NewDelay creates a delay leaf.
func NewDelay(desc string, d time.Duration) *Delay {
	return &Delay{node: newNode(desc), duration: d}
}

func (a *Delay) Execute(ctx context.Context, in Input) error {
	if a.duration <= 0 {
		return nil
	}
	timer := time.NewTimer(a.duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
