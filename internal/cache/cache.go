// Package cache stores derived attendance summaries between writes.
//
// Entries are namespaced by a generation number; Invalidate bumps the
// generation so every previously cached summary becomes unreachable at once.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"schoolboard/internal/metrics"
)

// Cache is a JSON value cache with whole-namespace invalidation.
//
// Get reports the generation it looked in. A value computed after a miss
// must be stored with that generation: Set writes nothing reachable when an
// Invalidate happened in between, so a summary read before a write can never
// outlive that write.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (gen int64, hit bool, err error)
	Set(ctx context.Context, gen int64, key string, v any) error
	Invalidate(ctx context.Context) error
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (int64, bool, error) {
	metrics.CacheLookups.WithLabelValues("disabled").Inc()
	return 0, false, nil
}
func (Nop) Set(context.Context, int64, string, any) error { return nil }
func (Nop) Invalidate(context.Context) error              { return nil }

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// Memory is a process-local Cache for tests and single-instance dev runs.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	gen     int64
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (int64, bool, error) {
	m.mu.Lock()
	gen := m.gen
	e, ok := m.entries[key]
	if ok && m.ttl > 0 && m.now().After(e.expires) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return gen, false, nil
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return gen, true, json.Unmarshal(e.data, dst)
}

// Set stores v unless the cache was invalidated since gen was read.
func (m *Memory) Set(_ context.Context, gen int64, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil
	}
	m.entries[key] = memoryEntry{data: data, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Invalidate(context.Context) error {
	m.mu.Lock()
	m.gen++
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
