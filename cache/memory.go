package cache

import (
	"context"
	"sync"
	"time"

	"github.com/warp/loan-schedule/loan"
)

type memoryEntry struct {
	schedule  loan.Schedule
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process Cache. Expired entries are dropped on Get and
// by a sweep that Set runs at most once per ttl.
type Memory struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

// NewMemory returns a cache whose entries expire after ttl. A zero ttl
// keeps entries forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (loan.Schedule, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return loan.Schedule{}, false
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return loan.Schedule{}, false
	}
	return e.schedule, true
}

func (m *Memory) Set(_ context.Context, key string, s loan.Schedule) error {
	now := m.now()
	e := memoryEntry{schedule: s}
	if m.ttl > 0 {
		e.expiresAt = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ttl > 0 && !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(m.ttl)
	}
	m.entries[key] = e
	return nil
}

// sweep deletes expired entries. Callers hold mu.
func (m *Memory) sweep(now time.Time) {
	for key, e := range m.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.entries, key)
		}
	}
}

// Len returns the number of entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

var _ Cache = (*Memory)(nil)
