package action

import (
	"context"

	"github.com/PixPMusic/gopher-trigger/internal/state"
)

// Alternating runs its primary and secondary child on alternating triggers.
// The turn lives in the state store under the given key (0 = primary's
// turn, 1 = secondary's) and is flipped inside the store's per-key critical
// section at selection time, so two near-simultaneous triggers can never
// both pick the same child.
type Alternating struct {
	node
	store     *state.Store
	key       string
	initial   int32
	primary   Action
	secondary Action
}

// NewAlternating creates an alternating pair. Construction never writes to
// the store: the first trigger after construction (or after a state clear)
// takes the turn startWithPrimary selects. Compiling a candidate profile
// therefore leaves the running profile's state untouched.
func NewAlternating(desc string, store *state.Store, key string, startWithPrimary bool, primary, secondary Action) *Alternating {
	initial := int32(0)
	if !startWithPrimary {
		initial = 1
	}
	return &Alternating{
		node:      newNode(desc),
		store:     store,
		key:       key,
		initial:   initial,
		primary:   primary,
		secondary: secondary,
	}
}

func (a *Alternating) Execute(ctx context.Context, in Input) error {
	// Atomically claim this turn and flip. An absent key (fresh profile or
	// cleared state) holds the configured starting turn.
	next := a.store.Apply(a.key, func(cur int32, exists bool) int32 {
		if !exists {
			cur = a.initial
		}
		if cur == 1 {
			return 0
		}
		return 1
	})
	if next == 1 {
		return a.primary.Execute(ctx, in)
	}
	return a.secondary.Execute(ctx, in)
}
