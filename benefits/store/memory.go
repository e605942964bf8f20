// Package store provides Backend implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/benefits-engine/benefits"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps one collection per storage key. Several Memory values can
// share a Space to simulate separate processes opening the same storage.
type Memory struct {
	space *Space
	key   string

	// FailSaves makes Save return the error, for rollback tests.
	FailSaves error
}

// Space is the shared map behind Memory backends.
type Space struct {
	mu   sync.RWMutex
	data map[string][]benefits.Employee
	// Saves counts successful writes per key.
	saves map[string]int
}

func NewSpace() *Space {
	return &Space{
		data:  make(map[string][]benefits.Employee),
		saves: make(map[string]int),
	}
}

// NewMemory returns a backend on a private space.
func NewMemory(key string) *Memory {
	return NewSpace().Backend(key)
}

// Backend returns a Memory bound to key inside this space.
func (s *Space) Backend(key string) *Memory {
	return &Memory{space: s, key: key}
}

// Saves reports how many times key was written.
func (s *Space) Saves(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves[key]
}

func (m *Memory) Load(_ context.Context) ([]benefits.Employee, error) {
	m.space.mu.RLock()
	defer m.space.mu.RUnlock()

	stored, ok := m.space.data[m.key]
	if !ok {
		return nil, benefits.ErrNotPersisted
	}
	return copyEmployees(stored), nil
}

func (m *Memory) Save(_ context.Context, employees []benefits.Employee) error {
	if m.FailSaves != nil {
		return m.FailSaves
	}
	m.space.mu.Lock()
	defer m.space.mu.Unlock()

	m.space.data[m.key] = copyEmployees(employees)
	m.space.saves[m.key]++
	return nil
}

// Saves reports how many times this backend's key was written.
func (m *Memory) Saves() int {
	return m.space.Saves(m.key)
}

func copyEmployees(in []benefits.Employee) []benefits.Employee {
	out := make([]benefits.Employee, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
