package dispatch

import (
	"sync"
	"time"
)

const latencyRingSize = 256

// latencyRing keeps the most recent receive-to-complete durations for
// diagnostics. Recording is O(1) under a single short mutex hold.
type latencyRing struct {
	mu      sync.Mutex
	samples [latencyRingSize]time.Duration
	next    int
	count   int
}

func (r *latencyRing) record(d time.Duration) {
	r.mu.Lock()
	r.samples[r.next] = d
	r.next = (r.next + 1) % latencyRingSize
	if r.count < latencyRingSize {
		r.count++
	}
	r.mu.Unlock()
}

// snapshot returns the recorded samples, oldest first.
func (r *latencyRing) snapshot() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]time.Duration, 0, r.count)
	start := r.next - r.count
	if start < 0 {
		start += latencyRingSize
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.samples[(start+i)%latencyRingSize])
	}
	return out
}
