// Package profile compiles validated profile configuration into registry
// entries. All configuration errors are caught here, before anything
// reaches the dispatch runtime.
package profile

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-trigger/internal/action"
	"github.com/PixPMusic/gopher-trigger/internal/config"
	"github.com/PixPMusic/gopher-trigger/internal/effector"
	"github.com/PixPMusic/gopher-trigger/internal/registry"
	"github.com/PixPMusic/gopher-trigger/internal/state"
)

// Deps are the collaborators compiled actions are bound to.
type Deps struct {
	Store    *state.Store
	Keyboard effector.Keyboard
	Runner   effector.Runner
	Sender   effector.MidiSender
}

// user-defined state keys: alphanumeric plus underscore, never the
// reserved "*" internal prefix.
var stateKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type compiler struct {
	deps    Deps
	named   map[string]*config.ActionSpec
	visited map[string]bool // named actions on the current ref chain
}

// Compile turns a profile into registry entries. It validates triggers,
// value ranges, state keys and named-action references (including cycles)
// and reports the first problem with its JSON path.
func Compile(p *config.Profile, deps Deps) ([]registry.Entry, error) {
	c := &compiler{
		deps:    deps,
		named:   p.Actions,
		visited: make(map[string]bool),
	}

	entries := make([]registry.Entry, 0, len(p.Mappings))
	for i, m := range p.Mappings {
		path := fmt.Sprintf("mappings[%d]", i)

		key, err := c.compileKey(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if m.Action == nil {
			return nil, fmt.Errorf("%s: missing action", path)
		}
		act, err := c.compileSpec(m.Action, path+".action")
		if err != nil {
			return nil, err
		}

		entries = append(entries, registry.Entry{Key: key, Actions: []action.Action{act}})
	}
	return entries, nil
}

func (c *compiler) compileKey(m config.Mapping) (registry.Key, error) {
	var typ registry.InputType
	switch m.Trigger {
	case "note_on":
		typ = registry.NoteOn
	case "note_off":
		typ = registry.NoteOff
	case "cc":
		typ = registry.ControlChange
	case "sysex":
		typ = registry.SysEx
	default:
		return registry.Key{}, fmt.Errorf("unknown trigger %q", m.Trigger)
	}

	if m.Device == "" {
		return registry.Key{}, fmt.Errorf("missing device (use %q for any)", registry.WildcardDevice)
	}
	if m.Channel > 16 {
		return registry.Key{}, fmt.Errorf("channel %d out of range 0-16", m.Channel)
	}
	if typ == registry.SysEx {
		// SysEx events always dispatch with number 0; any other value
		// could never match.
		if m.Number != 0 {
			return registry.Key{}, fmt.Errorf("sysex triggers use number 0, got %d", m.Number)
		}
	} else if m.Number > 127 {
		return registry.Key{}, fmt.Errorf("number %d out of range 0-127", m.Number)
	}

	return registry.Key{
		Device:  m.Device,
		Type:    typ,
		Number:  m.Number,
		Channel: m.Channel,
	}, nil
}

// compileSpec builds one action node, dispatching on the spec's type
// discriminator.
func (c *compiler) compileSpec(spec *config.ActionSpec, path string) (action.Action, error) {
	if spec == nil {
		return nil, fmt.Errorf("%s: missing action", path)
	}

	desc := spec.Description
	if desc == "" {
		desc = spec.Type
	}

	switch spec.Type {
	case "ref":
		return c.compileRef(spec, path)
	case "sequence":
		return c.compileSequence(spec, desc, path)
	case "switch":
		return c.compileSwitch(spec, desc, path)
	case "state_guard":
		return c.compileStateGuard(spec, desc, path)
	case "alternate":
		return c.compileAlternate(spec, desc, path)
	case "relative":
		return c.compileRelative(spec, desc, path)
	case "state_set", "state_add", "state_subtract":
		return c.compileMutator(spec, desc, path)
	case "key_down":
		if spec.Key == "" {
			return nil, fmt.Errorf("%s: missing key", path)
		}
		return action.NewKeyDown(desc, c.deps.Keyboard, c.deps.Store, spec.Key), nil
	case "key_up":
		if spec.Key == "" {
			return nil, fmt.Errorf("%s: missing key", path)
		}
		return action.NewKeyUp(desc, c.deps.Keyboard, c.deps.Store, spec.Key), nil
	case "key_tap":
		if spec.Key == "" {
			return nil, fmt.Errorf("%s: missing key", path)
		}
		return action.NewKeyTap(desc, c.deps.Keyboard, c.deps.Store, spec.Key), nil
	case "shell":
		if strings.TrimSpace(spec.Command) == "" {
			return nil, fmt.Errorf("%s: missing command", path)
		}
		if spec.TimeoutMS < 0 {
			return nil, fmt.Errorf("%s: negative timeout", path)
		}
		return action.NewShellAction(desc, c.deps.Runner, spec.Command,
			time.Duration(spec.TimeoutMS)*time.Millisecond), nil
	case "delay":
		if spec.DelayMS < 0 {
			return nil, fmt.Errorf("%s: negative delay", path)
		}
		return action.NewDelay(desc, time.Duration(spec.DelayMS)*time.Millisecond), nil
	case "midi":
		return c.compileMidi(spec, desc, path)
	case "":
		return nil, fmt.Errorf("%s: missing action type", path)
	default:
		return nil, fmt.Errorf("%s: unknown action type %q", path, spec.Type)
	}
}

func (c *compiler) compileRef(spec *config.ActionSpec, path string) (action.Action, error) {
	if spec.Ref == "" {
		return nil, fmt.Errorf("%s: missing ref name", path)
	}
	target, ok := c.named[spec.Ref]
	if !ok {
		return nil, fmt.Errorf("%s: unknown action %q", path, spec.Ref)
	}
	if c.visited[spec.Ref] {
		return nil, fmt.Errorf("%s: action reference cycle through %q", path, spec.Ref)
	}
	c.visited[spec.Ref] = true
	defer delete(c.visited, spec.Ref)
	return c.compileSpec(target, fmt.Sprintf("actions[%s]", spec.Ref))
}

func (c *compiler) compileSequence(spec *config.ActionSpec, desc, path string) (action.Action, error) {
	if len(spec.Children) == 0 {
		return nil, fmt.Errorf("%s: sequence has no children", path)
	}

	var policy action.ErrorPolicy
	switch spec.OnError {
	case "", "stop":
		policy = action.StopOnError
	case "continue":
		policy = action.ContinueOnError
	default:
		return nil, fmt.Errorf("%s: unknown on_error %q", path, spec.OnError)
	}

	children := make([]action.Action, 0, len(spec.Children))
	for i, cs := range spec.Children {
		child, err := c.compileSpec(cs, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return action.NewSequence(desc, policy, children...), nil
}

func (c *compiler) compileSwitch(spec *config.ActionSpec, desc, path string) (action.Action, error) {
	if len(spec.Ranges) == 0 {
		return nil, fmt.Errorf("%s: switch has no ranges", path)
	}

	ranges := make([]action.ValueRange, 0, len(spec.Ranges))
	for i, rs := range spec.Ranges {
		rpath := fmt.Sprintf("%s.ranges[%d]", path, i)
		if rs.Min > rs.Max {
			return nil, fmt.Errorf("%s: min %d > max %d", rpath, rs.Min, rs.Max)
		}
		if rs.Max > 127 {
			return nil, fmt.Errorf("%s: max %d out of range 0-127", rpath, rs.Max)
		}
		child, err := c.compileSpec(rs.Action, rpath+".action")
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, action.ValueRange{Min: rs.Min, Max: rs.Max, Action: child})
	}
	return action.NewValueSwitch(desc, ranges...), nil
}

func (c *compiler) compileStateGuard(spec *config.ActionSpec, desc, path string) (action.Action, error) {
	if err := c.checkStateKey(spec.StateKey, path); err != nil {
		return nil, err
	}

	var cmp action.Comparison
	switch spec.Compare {
	case "", "eq":
		cmp = action.Equals
	case "gt":
		cmp = action.GreaterThan
	case "lt":
		cmp = action.LessThan
	default:
		return nil, fmt.Errorf("%s: unknown compare %q", path, spec.Compare)
	}

	if spec.Primary == nil {
		return nil, fmt.Errorf("%s: missing primary action", path)
	}
	child, err := c.compileSpec(spec.Primary, path+".primary")
	if err != nil {
		return nil, err
	}

	return action.NewStateGuard(desc, c.deps.Store, spec.StateKey, cmp, spec.Threshold, child, spec.Post), nil
}

func (c *compiler) compileAlternate(spec *config.ActionSpec, desc, path string) (action.Action, error) {
	if err := c.checkStateKey(spec.StateKey, path); err != nil {
		return nil, err
	}
	if spec.Primary == nil || spec.Secondary == nil {
		return nil, fmt.Errorf("%s: alternate needs primary and secondary", path)
	}

	primary, err := c.compileSpec(spec.Primary, path+".primary")
	if err != nil {
		return nil, err
	}
	secondary, err := c.compileSpec(spec.Secondary, path+".secondary")
	if err != nil {
		return nil, err
	}

	startWithPrimary := true
	if spec.StartWithPrimary != nil {
		startWithPrimary = *spec.StartWithPrimary
	}
	return action.NewAlternating(desc, c.deps.Store, spec.StateKey, startWithPrimary, primary, secondary), nil
}

func (c *compiler) compileRelative(spec *config.ActionSpec, desc, path string) (action.Action, error) {
	if spec.Increase == nil || spec.Decrease == nil {
		return nil, fmt.Errorf("%s: relative needs increase and decrease", path)
	}
	inc, err := c.compileSpec(spec.Increase, path+".increase")
	if err != nil {
		return nil, err
	}
	dec, err := c.compileSpec(spec.Decrease, path+".decrease")
	if err != nil {
		return nil, err
	}
	return action.NewRelativeAction(desc, inc, dec), nil
}

func (c *compiler) compileMutator(spec *config.ActionSpec, desc, path string) (action.Action, error) {
	if err := c.checkStateKey(spec.StateKey, path); err != nil {
		return nil, err
	}

	var op action.StateOp
	switch spec.Type {
	case "state_set":
		op = action.OpSet
	case "state_add":
		op = action.OpAdd
	case "state_subtract":
		op = action.OpSubtract
	}
	return action.NewStateMutator(desc, c.deps.Store, spec.StateKey, op, spec.Value), nil
}

func (c *compiler) compileMidi(spec *config.ActionSpec, desc, path string) (action.Action, error) {
	ms := spec.Midi
	if ms == nil {
		return nil, fmt.Errorf("%s: missing midi parameters", path)
	}
	if ms.Port == "" {
		return nil, fmt.Errorf("%s: missing midi port", path)
	}
	if ms.Channel < 1 || ms.Channel > 16 {
		return nil, fmt.Errorf("%s: channel %d out of range 1-16", path, ms.Channel)
	}
	if ms.Number > 127 || ms.Value > 127 {
		return nil, fmt.Errorf("%s: midi data out of range 0-127", path)
	}

	channel := ms.Channel - 1 // wire format is 0-based
	var msg midi.Message
	switch ms.MsgType {
	case "note_on":
		msg = midi.NoteOn(channel, ms.Number, ms.Value)
	case "note_off":
		msg = midi.NoteOff(channel, ms.Number)
	case "cc":
		msg = midi.ControlChange(channel, ms.Number, ms.Value)
	case "pc":
		msg = midi.ProgramChange(channel, ms.Number)
	default:
		return nil, fmt.Errorf("%s: unknown midi msg_type %q", path, ms.MsgType)
	}

	return action.NewMidiSend(desc, c.deps.Sender, ms.Port, msg), nil
}

func (c *compiler) checkStateKey(key, path string) error {
	if key == "" {
		return fmt.Errorf("%s: missing state_key", path)
	}
	if strings.HasPrefix(key, state.InternalPrefix) {
		return fmt.Errorf("%s: state key %q uses reserved internal prefix", path, key)
	}
	if !stateKeyPattern.MatchString(key) {
		return fmt.Errorf("%s: invalid state key %q", path, key)
	}
	return nil
}
