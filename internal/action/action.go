package action

import (
	"context"

	"github.com/google/uuid"
)

// Input carries the optional 7-bit value (velocity, CC value) that
// accompanied the triggering event.
type Input struct {
	HasValue bool
	Value    uint8
}

// NoValue is the input for triggers that carry no value (e.g. SysEx).
var NoValue = Input{}

// WithValue builds an input carrying a 0-127 value.
func WithValue(v uint8) Input {
	return Input{HasValue: true, Value: v}
}

// Action is a node in a compiled trigger tree. Trees are immutable after
// profile compilation; each node exclusively owns its children. Execute may
// suspend (delays, shell commands) and runs on a dispatch worker, never on
// the hardware callback goroutine.
type Action interface {
	// ID is the action's unique identifier within the profile.
	ID() string

	// Describe returns a short human-readable label used in logs.
	Describe() string

	// Execute performs the action's side effects through its effectors,
	// recursing into child actions for composite nodes.
	Execute(ctx context.Context, in Input) error
}

// node carries the identity shared by every action variant.
type node struct {
	id   string
	desc string
}

func newNode(desc string) node {
	return node{id: uuid.New().String(), desc: desc}
}

func (n node) ID() string       { return n.id }
func (n node) Describe() string { return n.desc }
