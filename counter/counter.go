// Package counter is the state container behind the counter demo.
package counter

import (
	"log/slog"
	"sync"

	"github.com/use-agent/scrape-playground/models"
	"github.com/use-agent/scrape-playground/persist"
)

// Store holds a bear count and a name. Every mutation is written through to
// the snapshot file, if one is configured. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	state models.CounterState
	file  *persist.File[models.CounterState]
}

// New creates a Store and hydrates it from path (empty path: memory only).
func New(path string) *Store {
	s := &Store{file: persist.NewFile[models.CounterState](path)}

	state, ok, err := s.file.Load()
	if err != nil {
		slog.Warn("counter: ignoring unreadable snapshot", "path", path, "error", err)
	}
	if ok {
		if state.Bears < 0 {
			state.Bears = 0
		}
		s.state = state
	}
	return s
}

// Get returns the current state.
func (s *Store) Get() models.CounterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Add increments the count.
func (s *Store) Add() models.CounterState {
	return s.mutate(func(st *models.CounterState) { st.Bears++ })
}

// Remove decrements the count, never below zero.
func (s *Store) Remove() models.CounterState {
	return s.mutate(func(st *models.CounterState) {
		if st.Bears > 0 {
			st.Bears--
		}
	})
}

// SetName replaces the name.
func (s *Store) SetName(name string) models.CounterState {
	return s.mutate(func(st *models.CounterState) { st.Name = name })
}

// Reset restores the zero state.
func (s *Store) Reset() models.CounterState {
	return s.mutate(func(st *models.CounterState) { *st = models.CounterState{} })
}

func (s *Store) mutate(fn func(*models.CounterState)) models.CounterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	if err := s.file.Save(s.state); err != nil {
		slog.Warn("counter: persist failed", "path", s.file.Path(), "error", err)
	}
	return s.state
}
