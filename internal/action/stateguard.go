package action

import (
	"context"

	"github.com/PixPMusic/gopher-trigger/internal/state"
)

// Comparison selects how a StateGuard compares the stored value against its
// threshold.
type Comparison int

const (
	Equals Comparison = iota
	GreaterThan
	LessThan
)

// StateGuard runs its child only when the stored value for its key passes
// the comparison. When Post is set, the key is overwritten after the child
// finishes, even when the child failed: state machines advance regardless
// of effector outcome.
type StateGuard struct {
	node
	store     *state.Store
	key       string
	cmp       Comparison
	threshold int32
	child     Action
	post      *int32
}

// NewStateGuard creates a guard around child. post may be nil for guards
// without a post-condition write.
func NewStateGuard(desc string, store *state.Store, key string, cmp Comparison, threshold int32, child Action, post *int32) *StateGuard {
	return &StateGuard{
		node:      newNode(desc),
		store:     store,
		key:       key,
		cmp:       cmp,
		threshold: threshold,
		child:     child,
		post:      post,
	}
}

func (g *StateGuard) Execute(ctx context.Context, in Input) error {
	cur := g.store.Get(g.key)

	matched := false
	switch g.cmp {
	case Equals:
		matched = cur == g.threshold
	case GreaterThan:
		matched = cur > g.threshold
	case LessThan:
		matched = cur < g.threshold
	}
	if !matched {
		return nil
	}

	err := g.child.Execute(ctx, in)
	if g.post != nil {
		g.store.Set(g.key, *g.post)
	}
	return err
}
