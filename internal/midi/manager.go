package midi

import (
	"fmt"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver
)

// Manager handles MIDI device discovery, input listening and raw output.
type Manager struct {
	mu sync.RWMutex
}

// NewManager creates a new MIDI manager.
func NewManager() *Manager {
	return &Manager{}
}

// Close cleans up the MIDI driver.
func (m *Manager) Close() {
	midi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports.
func (m *Manager) ListInPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// ListOutPorts returns the names of available MIDI output ports.
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// GetInPort returns an input port by name, or nil if not present.
func (m *Manager) GetInPort(name string) (drivers.In, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := midi.GetInPorts()
	for _, in := range ins {
		if in.String() == name {
			return in, nil
		}
	}
	return nil, nil
}

// EventCallback receives one normalized event per hardware message. It runs
// on the driver's callback goroutine and must return quickly.
type EventCallback func(ev Event)

// Listen starts listening on the named input port, normalizing every
// supported message into an Event. The returned function stops the listener.
func (m *Manager) Listen(inPortName string, callback EventCallback) (func(), error) {
	if inPortName == "" {
		return nil, fmt.Errorf("no input port specified")
	}

	inPort, err := m.GetInPort(inPortName)
	if inPort == nil || err != nil {
		return nil, fmt.Errorf("input port not found: %s", inPortName)
	}

	stop, err := midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
		ev, ok := normalize(msg)
		if !ok {
			return
		}
		callback(ev)
	}, midi.UseSysEx())

	if err != nil {
		return nil, fmt.Errorf("failed to start listening: %w", err)
	}

	return stop, nil
}

// normalize converts a driver message into an Event. Unsupported message
// types (clock, aftertouch, program change...) report ok=false and are
// dropped before dispatch.
func normalize(msg midi.Message) (Event, bool) {
	var channel, key, velocity uint8
	var sysex []byte

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		kind := KindNoteOn
		// Running status: NoteOn with velocity 0 is a release.
		if velocity == 0 {
			kind = KindNoteOff
		}
		return Event{
			Kind:      kind,
			Channel:   channel + 1,
			Number:    key,
			Value:     velocity,
			HasValue:  true,
			Timestamp: time.Now(),
		}, true
	case msg.GetNoteOff(&channel, &key, &velocity):
		return Event{
			Kind:      KindNoteOff,
			Channel:   channel + 1,
			Number:    key,
			Value:     velocity,
			HasValue:  true,
			Timestamp: time.Now(),
		}, true
	case msg.GetControlChange(&channel, &key, &velocity):
		return Event{
			Kind:      KindControlChange,
			Channel:   channel + 1,
			Number:    key,
			Value:     velocity,
			HasValue:  true,
			Timestamp: time.Now(),
		}, true
	case msg.GetSysEx(&sysex):
		return Event{
			Kind:      KindSysEx,
			Channel:   1,
			SysEx:     sysex,
			Timestamp: time.Now(),
		}, true
	}
	return Event{}, false
}

// Send delivers a raw MIDI message to the named output port.
func (m *Manager) Send(outPortName string, msg midi.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	outPort := m.findOutPort(outPortName)
	if outPort == nil {
		return fmt.Errorf("output port not found: %s", outPortName)
	}

	send, err := midi.SendTo(outPort)
	if err != nil {
		return fmt.Errorf("failed to create sender: %w", err)
	}

	if err := send(msg); err != nil {
		return fmt.Errorf("send failed: %v", err)
	}
	return nil
}

func (m *Manager) findOutPort(name string) drivers.Out {
	outs := midi.GetOutPorts()
	for _, out := range outs {
		if out.String() == name {
			return out
		}
	}
	return nil
}
