package midi

import "time"

// EventKind classifies a normalized hardware event.
type EventKind int

const (
	KindNoteOn EventKind = iota
	KindNoteOff
	KindControlChange
	KindSysEx
	KindOther
)

func (k EventKind) String() string {
	switch k {
	case KindNoteOn:
		return "note_on"
	case KindNoteOff:
		return "note_off"
	case KindControlChange:
		return "cc"
	case KindSysEx:
		return "sysex"
	default:
		return "other"
	}
}

// Event is an immutable normalized MIDI event produced once per hardware
// callback. Channel is 1-16; Number is the note or controller number (0 for
// SysEx); Value carries velocity or the CC value when HasValue is set.
type Event struct {
	Kind      EventKind
	Channel   uint8
	Number    uint8
	Value     uint8
	HasValue  bool
	SysEx     []byte
	Timestamp time.Time
}
