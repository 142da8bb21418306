package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/PixPMusic/gopher-trigger/internal/action"
	"github.com/PixPMusic/gopher-trigger/internal/midi"
	"github.com/PixPMusic/gopher-trigger/internal/registry"
)

const (
	defaultWorkers   = 4
	defaultQueueSize = 256
)

// Options tunes the engine's worker pool.
type Options struct {
	Workers   int
	QueueSize int
}

type job struct {
	event    midi.Event
	device   string
	received time.Time
}

// Engine routes normalized hardware events to compiled actions. Dispatch
// hands events off to a bounded worker pool so slow actions never occupy
// the hardware driver's callback goroutine; a full queue drops the event
// rather than block.
type Engine struct {
	logger   *zap.Logger
	registry atomic.Pointer[registry.Registry]
	latency  latencyRing
	dropped  atomic.Uint64

	queue chan job
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New creates an engine over the given registry and starts its workers.
func New(logger *zap.Logger, reg *registry.Registry, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	e := &Engine{
		logger: logger,
		queue:  make(chan job, opts.QueueSize),
	}
	e.registry.Store(reg)

	e.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go e.worker()
	}
	return e
}

// Dispatch enqueues one event for execution and returns immediately. It is
// safe to call from hardware callback goroutines. Events arriving while the
// queue is full are dropped and counted.
func (e *Engine) Dispatch(ev midi.Event, deviceName string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}

	select {
	case e.queue <- job{event: ev, device: deviceName, received: time.Now()}:
	default:
		e.dropped.Add(1)
		e.logger.Warn("event queue full, dropping event",
			zap.String("device", deviceName),
			zap.String("kind", ev.Kind.String()))
	}
}

// ReplaceRegistry atomically publishes a new registry. In-flight lookups
// see either the old or the new instance, never a partial one.
func (e *Engine) ReplaceRegistry(reg *registry.Registry) {
	e.registry.Store(reg)
}

// Stats is a diagnostics snapshot.
type Stats struct {
	RegistrySize   int
	DroppedEvents  uint64
	LatencySamples []time.Duration
}

// Stats returns current diagnostics.
func (e *Engine) Stats() Stats {
	return Stats{
		RegistrySize:   e.registry.Load().Size(),
		DroppedEvents:  e.dropped.Load(),
		LatencySamples: e.latency.snapshot(),
	}
}

// Close stops intake, drains queued events and waits for in-flight actions
// to finish.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	e.wg.Wait()
}

func (e *Engine) worker() {
	defer e.wg.Done()
	for j := range e.queue {
		e.process(j)
	}
}

// process runs one event through lookup and execution. Each matched action
// runs to completion in registry order; one action's failure never prevents
// the remaining matches from running.
func (e *Engine) process(j job) {
	key, ok := keyFor(j.event, j.device)
	if !ok {
		return
	}

	matched := e.registry.Load().Lookup(key)
	if len(matched) == 0 {
		return
	}

	in := action.NoValue
	if j.event.HasValue {
		in = action.WithValue(j.event.Value)
	}

	ctx := context.Background()
	for _, a := range matched {
		if err := a.Execute(ctx, in); err != nil {
			e.logger.Error("action failed",
				zap.String("action", a.ID()),
				zap.String("description", a.Describe()),
				zap.String("device", j.device),
				zap.Error(err))
		}
	}

	e.latency.record(time.Since(j.received))
}

// keyFor derives the lookup key for an event. Unsupported event kinds
// report ok=false: a no-op, not an error.
func keyFor(ev midi.Event, device string) (registry.Key, bool) {
	var typ registry.InputType
	switch ev.Kind {
	case midi.KindNoteOn:
		typ = registry.NoteOn
	case midi.KindNoteOff:
		typ = registry.NoteOff
	case midi.KindControlChange:
		typ = registry.ControlChange
	case midi.KindSysEx:
		typ = registry.SysEx
	default:
		return registry.Key{}, false
	}
	return registry.Key{
		Device:  device,
		Type:    typ,
		Number:  uint16(ev.Number),
		Channel: ev.Channel,
	}, true
}
