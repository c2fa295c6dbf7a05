// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/loan-schedule/loan"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	schedules map[string]loan.SavedSchedule
}

func NewMemory() *Memory {
	return &Memory{
		schedules: make(map[string]loan.SavedSchedule),
	}
}

func (m *Memory) Save(_ context.Context, s loan.SavedSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[s.ID] = s
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (loan.SavedSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.schedules[id]
	if !ok {
		return loan.SavedSchedule{}, loan.ErrScheduleNotFound
	}
	return s, nil
}

// List returns schedules newest first; ties are broken by ID for a stable order.
func (m *Memory) List(_ context.Context) ([]loan.SavedSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]loan.SavedSchedule, 0, len(m.schedules))
	for _, s := range m.schedules {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.schedules[id]; !ok {
		return loan.ErrScheduleNotFound
	}
	delete(m.schedules, id)
	return nil
}

var _ loan.Store = (*Memory)(nil)
