package effector

import (
	"context"

	"gitlab.com/gomidi/midi/v2"
)

// Keyboard injects key press/release events into the OS. Implementations
// are platform-specific; the runtime only relies on this contract.
type Keyboard interface {
	Press(key string) error
	Release(key string) error
}

// Runner executes a shell command and returns its trimmed stdout.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// MidiSender delivers a raw MIDI message to a named output port.
type MidiSender interface {
	Send(portName string, msg midi.Message) error
}
