package registry

import (
	"github.com/PixPMusic/gopher-trigger/internal/action"
)

// InputType classifies the hardware input a mapping listens for.
type InputType int

const (
	NoteOn InputType = iota
	NoteOff
	ControlChange
	SysEx
)

func (t InputType) String() string {
	switch t {
	case NoteOn:
		return "note_on"
	case NoteOff:
		return "note_off"
	case ControlChange:
		return "cc"
	case SysEx:
		return "sysex"
	default:
		return "unknown"
	}
}

// WildcardDevice matches events from any device.
const WildcardDevice = "*"

// AnyChannel matches events on any channel. Concrete channels are 1-16.
const AnyChannel uint8 = 0

// Key identifies a hardware control. In registry entries, Device may be
// WildcardDevice and Channel may be AnyChannel; lookup keys carry the
// concrete device name and channel of the event.
type Key struct {
	Device  string
	Type    InputType
	Number  uint16
	Channel uint8
}

// Entry binds one key to the actions it triggers. Multiple entries for the
// same key are legal; all of them fire, in configuration order.
type Entry struct {
	Key     Key
	Actions []action.Action
}

// indexed pairs an action with its global configuration position so lookup
// can union buckets without losing declaration order.
type indexed struct {
	seq int
	act action.Action
}

// Registry is an immutable index from keys to compiled actions. It is built
// once per profile load and only ever read afterwards; a profile switch
// publishes a whole new instance instead of mutating this one.
type Registry struct {
	buckets map[Key][]indexed
	size    int
}

// Build constructs a registry from entries. Entries with AnyChannel land in
// a separate bucket from channel-specific ones; lookup unions both.
func Build(entries []Entry) *Registry {
	r := &Registry{buckets: make(map[Key][]indexed, len(entries))}
	seq := 0
	for _, e := range entries {
		for _, a := range e.Actions {
			r.buckets[e.Key] = append(r.buckets[e.Key], indexed{seq: seq, act: a})
			r.size++
			seq++
		}
	}
	return r
}

// Size returns the total number of registered actions.
func (r *Registry) Size() int {
	return r.size
}

// Lookup resolves the actions registered for a concrete event key. Exact-
// device matches come before wildcard-device matches; within each group the
// channel-specific and any-channel buckets are unioned in configuration
// order. Duplicate matches are intentional: a control mapped both for a
// specific device and the wildcard fires both. No match yields an empty
// slice, not an error.
func (r *Registry) Lookup(key Key) []action.Action {
	exact := r.group(key.Device, key)
	wild := r.group(WildcardDevice, key)
	if key.Device == WildcardDevice {
		wild = nil
	}

	if len(wild) == 0 {
		return exact
	}
	return append(exact, wild...)
}

// group merges the channel-specific and any-channel buckets for one device,
// preserving configuration order.
func (r *Registry) group(device string, key Key) []action.Action {
	specific := r.buckets[Key{Device: device, Type: key.Type, Number: key.Number, Channel: key.Channel}]
	var anyChan []indexed
	if key.Channel != AnyChannel {
		anyChan = r.buckets[Key{Device: device, Type: key.Type, Number: key.Number, Channel: AnyChannel}]
	}

	if len(specific) == 0 && len(anyChan) == 0 {
		return nil
	}

	out := make([]action.Action, 0, len(specific)+len(anyChan))
	i, j := 0, 0
	for i < len(specific) && j < len(anyChan) {
		if specific[i].seq < anyChan[j].seq {
			out = append(out, specific[i].act)
			i++
		} else {
			out = append(out, anyChan[j].act)
			j++
		}
	}
	for ; i < len(specific); i++ {
		out = append(out, specific[i].act)
	}
	for ; j < len(anyChan); j++ {
		out = append(out, anyChan[j].act)
	}
	return out
}
