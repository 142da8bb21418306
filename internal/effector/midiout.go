package effector

import (
	"gitlab.com/gomidi/midi/v2"

	internalmidi "github.com/PixPMusic/gopher-trigger/internal/midi"
)

// PortSender sends MIDI messages through the manager's output ports.
type PortSender struct {
	manager *internalmidi.Manager
}

// NewPortSender creates a sender backed by the given manager.
func NewPortSender(m *internalmidi.Manager) *PortSender {
	return &PortSender{manager: m}
}

func (s *PortSender) Send(portName string, msg midi.Message) error {
	return s.manager.Send(portName, msg)
}
