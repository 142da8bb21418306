package action

import (
	"context"

	"github.com/PixPMusic/gopher-trigger/internal/state"
)

// StateOp selects what a StateMutator does to its key.
type StateOp int

const (
	OpSet StateOp = iota
	OpAdd
	OpSubtract
)

// StateMutator writes to a single state key. It never fails.
type StateMutator struct {
	node
	store   *state.Store
	key     string
	op      StateOp
	operand int32
}

// NewStateMutator creates a mutator applying op with operand to key.
func NewStateMutator(desc string, store *state.Store, key string, op StateOp, operand int32) *StateMutator {
	return &StateMutator{node: newNode(desc), store: store, key: key, op: op, operand: operand}
}

func (m *StateMutator) Execute(ctx context.Context, in Input) error {
	switch m.op {
	case OpSet:
		m.store.Set(m.key, m.operand)
	case OpAdd:
		m.store.Increment(m.key, m.operand)
	case OpSubtract:
		m.store.Decrement(m.key, m.operand)
	}
	return nil
}
