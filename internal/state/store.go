package state

import (
	"hash/fnv"
	"strings"
	"sync"
)

// InternalPrefix marks state keys reserved for runtime bookkeeping (for
// example tracking which keyboard keys are currently held down). Profiles
// may not define keys with this prefix.
const InternalPrefix = "*"

// Absent is returned by Get when a key has never been written.
const Absent int32 = -1

const shardCount = 32

type shard struct {
	mu     sync.RWMutex
	values map[string]int32
}

// Store is a process-wide integer key/value store scoped to the active
// profile. Keys are sharded so writers to different keys do not serialize
// against each other; writers to the same key always do.
type Store struct {
	shards [shardCount]shard
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i].values = make(map[string]int32)
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.shards[h.Sum32()%shardCount]
}

// Get returns the current value for key, or Absent (-1) if it was never set.
func (s *Store) Get(key string) int32 {
	sh := s.shardFor(key)
	sh.mu.RLock()
	v, ok := sh.values[key]
	sh.mu.RUnlock()
	if !ok {
		return Absent
	}
	return v
}

// Set inserts or overwrites key with value.
func (s *Store) Set(key string, value int32) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	sh.values[key] = value
	sh.mu.Unlock()
}

// Apply atomically replaces the value for key with f(current). The callback
// receives the current value and whether the key existed; the returned value
// is stored and returned. f runs inside the key's critical section and must
// not block.
func (s *Store) Apply(key string, f func(current int32, exists bool) int32) int32 {
	sh := s.shardFor(key)
	sh.mu.Lock()
	cur, ok := sh.values[key]
	next := f(cur, ok)
	sh.values[key] = next
	sh.mu.Unlock()
	return next
}

// Increment atomically adds delta to key and returns the new value. An
// absent key counts as 0 here, not -1, so arithmetic on a fresh key starts
// from zero.
func (s *Store) Increment(key string, delta int32) int32 {
	return s.Apply(key, func(cur int32, exists bool) int32 {
		if !exists {
			cur = 0
		}
		return cur + delta
	})
}

// Decrement atomically subtracts delta from key and returns the new value.
func (s *Store) Decrement(key string, delta int32) int32 {
	return s.Increment(key, -delta)
}

// ClearAll removes every entry. Used on profile switch; in-flight actions
// from the outgoing profile may observe cleared state, which is acceptable
// because a switch also rebinds devices.
func (s *Store) ClearAll() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		sh.values = make(map[string]int32)
		sh.mu.Unlock()
	}
}

// ReleaseInternal invokes release for every internal ("*"-prefixed) key
// holding a non-zero value, then removes those keys. It is called before a
// profile switch so nothing physical stays stuck down.
func (s *Store) ReleaseInternal(release func(key string, value int32)) {
	for i := range s.shards {
		sh := &s.shards[i]

		sh.mu.Lock()
		held := make(map[string]int32)
		for k, v := range sh.values {
			if strings.HasPrefix(k, InternalPrefix) && v != 0 {
				held[k] = v
			}
		}
		sh.mu.Unlock()

		// The callback may take time (it talks to an effector), so it runs
		// outside the shard lock.
		for k, v := range held {
			release(k, v)
			sh.mu.Lock()
			delete(sh.values, k)
			sh.mu.Unlock()
		}
	}
}

// Len returns the number of entries currently stored.
func (s *Store) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.values)
		sh.mu.RUnlock()
	}
	return n
}
