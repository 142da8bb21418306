package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/PixPMusic/gopher-trigger/internal/action"
	"github.com/PixPMusic/gopher-trigger/internal/midi"
	"github.com/PixPMusic/gopher-trigger/internal/registry"
)

type recordAction struct {
	id     string
	calls  atomic.Int32
	inputs chan action.Input
	err    error
}

func newRecord(id string) *recordAction {
	return &recordAction{id: id, inputs: make(chan action.Input, 16)}
}

func (a *recordAction) ID() string       { return a.id }
func (a *recordAction) Describe() string { return a.id }
func (a *recordAction) Execute(ctx context.Context, in action.Input) error {
	a.calls.Add(1)
	a.inputs <- in
	return a.err
}

func noteOn(number, velocity uint8, channel uint8) midi.Event {
	return midi.Event{
		Kind:      midi.KindNoteOn,
		Channel:   channel,
		Number:    number,
		Value:     velocity,
		HasValue:  true,
		Timestamp: time.Now(),
	}
}

func TestDispatchEndToEnd(t *testing.T) {
	act := newRecord("press-a")
	reg := registry.Build([]registry.Entry{{
		Key:     registry.Key{Device: registry.WildcardDevice, Type: registry.NoteOn, Number: 60, Channel: 1},
		Actions: []action.Action{act},
	}})

	e := New(zap.NewNop(), reg, Options{Workers: 2})
	e.Dispatch(noteOn(60, 127, 1), "Launchpad")
	e.Dispatch(noteOn(61, 127, 1), "Launchpad") // unmapped, must not fire
	e.Close()

	if got := act.calls.Load(); got != 1 {
		t.Fatalf("action ran %d times, want exactly 1", got)
	}
	in := <-act.inputs
	if !in.HasValue || in.Value != 127 {
		t.Errorf("action input = %+v, want velocity 127", in)
	}
}

func TestDispatchFailureIsolation(t *testing.T) {
	failing := newRecord("failing")
	failing.err = errors.New("effector down")
	after := newRecord("after")

	key := registry.Key{Device: "Foo", Type: registry.ControlChange, Number: 7, Channel: 1}
	reg := registry.Build([]registry.Entry{
		{Key: key, Actions: []action.Action{failing}},
		{Key: key, Actions: []action.Action{after}},
	})

	e := New(zap.NewNop(), reg, Options{Workers: 1})
	e.Dispatch(midi.Event{
		Kind: midi.KindControlChange, Channel: 1, Number: 7,
		Value: 64, HasValue: true, Timestamp: time.Now(),
	}, "Foo")
	e.Close()

	if after.calls.Load() != 1 {
		t.Error("a failing matched action must not prevent later matches from running")
	}
}

func TestDispatchUnsupportedKindIsNoop(t *testing.T) {
	act := newRecord("any")
	reg := registry.Build([]registry.Entry{{
		Key:     registry.Key{Device: registry.WildcardDevice, Type: registry.NoteOn, Number: 60, Channel: 1},
		Actions: []action.Action{act},
	}})

	e := New(zap.NewNop(), reg, Options{})
	e.Dispatch(midi.Event{Kind: midi.KindOther, Channel: 1, Number: 60, Timestamp: time.Now()}, "Foo")
	e.Close()

	if act.calls.Load() != 0 {
		t.Error("unsupported event kinds must terminate as a no-op")
	}
}

func TestReplaceRegistry(t *testing.T) {
	old := newRecord("old")
	key := registry.Key{Device: registry.WildcardDevice, Type: registry.NoteOn, Number: 60, Channel: 1}
	e := New(zap.NewNop(), registry.Build([]registry.Entry{
		{Key: key, Actions: []action.Action{old}},
	}), Options{Workers: 1})

	fresh := newRecord("fresh")
	e.ReplaceRegistry(registry.Build([]registry.Entry{
		{Key: key, Actions: []action.Action{fresh}},
	}))

	e.Dispatch(noteOn(60, 100, 1), "Launchpad")
	e.Close()

	if old.calls.Load() != 0 {
		t.Error("old registry fired after replacement")
	}
	if fresh.calls.Load() != 1 {
		t.Errorf("new registry fired %d times, want 1", fresh.calls.Load())
	}
}

func TestStats(t *testing.T) {
	act := newRecord("a")
	reg := registry.Build([]registry.Entry{{
		Key:     registry.Key{Device: registry.WildcardDevice, Type: registry.NoteOn, Number: 60, Channel: 1},
		Actions: []action.Action{act},
	}})

	e := New(zap.NewNop(), reg, Options{Workers: 1})
	e.Dispatch(noteOn(60, 1, 1), "Foo")
	e.Dispatch(noteOn(60, 2, 1), "Foo")
	e.Close()

	stats := e.Stats()
	if stats.RegistrySize != 1 {
		t.Errorf("RegistrySize = %d, want 1", stats.RegistrySize)
	}
	if len(stats.LatencySamples) != 2 {
		t.Errorf("recorded %d latency samples, want 2", len(stats.LatencySamples))
	}
	for _, d := range stats.LatencySamples {
		if d < 0 {
			t.Errorf("negative latency sample %v", d)
		}
	}
}

func TestDispatchAfterCloseIsNoop(t *testing.T) {
	act := newRecord("a")
	reg := registry.Build([]registry.Entry{{
		Key:     registry.Key{Device: registry.WildcardDevice, Type: registry.NoteOn, Number: 60, Channel: 1},
		Actions: []action.Action{act},
	}})

	e := New(zap.NewNop(), reg, Options{})
	e.Close()
	e.Dispatch(noteOn(60, 127, 1), "Foo") // must not panic or block

	if act.calls.Load() != 0 {
		t.Error("event dispatched after Close must be dropped")
	}
}
