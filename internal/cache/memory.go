package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type memEntry struct {
	val       []byte
	storedAt  time.Time
	expiresAt time.Time
}

// Memory is a mutex-guarded in-process store with per-entry TTL and a
// capacity bound. Expired entries are dropped lazily on read; when an insert
// finds the map full it first sweeps expired entries, then discards the
// oldest-stored entry. Counters live outside the bound and never expire.
type Memory struct {
	mu       sync.Mutex
	max      int
	entries  map[string]memEntry
	counters map[string]int64
}

func NewMemory(maxEntries int) *Memory {
	if maxEntries < 1 {
		maxEntries = 1000
	}
	return &Memory{
		max:      maxEntries,
		entries:  make(map[string]memEntry, maxEntries),
		counters: make(map[string]int64),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		if time.Now().After(e.expiresAt) {
			delete(m.entries, key)
			return nil, ErrMiss
		}
		out := make([]byte, len(e.val))
		copy(out, e.val)
		return out, nil
	}
	if n, ok := m.counters[key]; ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return nil, ErrMiss
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.max {
		m.sweepLocked(now)
		if len(m.entries) >= m.max {
			m.evictOldestLocked()
		}
	}
	stored := make([]byte, len(val))
	copy(stored, val)
	m.entries[key] = memEntry{val: stored, storedAt: now, expiresAt: now.Add(ttl)}
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
		delete(m.counters, k)
	}
	return nil
}

func (m *Memory) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
	return m.counters[key], nil
}

func (m *Memory) Ping(_ context.Context) error { return nil }

// Len reports live (non-expired) entries; counters are not included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	now := time.Now()
	for _, e := range m.entries {
		if !now.After(e.expiresAt) {
			n++
		}
	}
	return n
}

func (m *Memory) sweepLocked(now time.Time) {
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

func (m *Memory) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range m.entries {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
