package action

import (
	"context"
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-trigger/internal/effector"
)

// MidiSend delivers a pre-built MIDI message to a named output port.
type MidiSend struct {
	node
	sender effector.MidiSender
	port   string
	msg    midi.Message
}

// NewMidiSend creates a MIDI-out leaf.
func NewMidiSend(desc string, sender effector.MidiSender, port string, msg midi.Message) *MidiSend {
	return &MidiSend{node: newNode(desc), sender: sender, port: port, msg: msg}
}

func (a *MidiSend) Execute(ctx context.Context, in Input) error {
	if err := a.sender.Send(a.port, a.msg); err != nil {
		return fmt.Errorf("midi send to %q: %w", a.port, err)
	}
	return nil
}
