// Package history keeps the bounded list of recent scrape runs.
package history

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/use-agent/scrape-playground/models"
	"github.com/use-agent/scrape-playground/persist"
)

// DefaultSize is the number of runs kept when none is configured.
const DefaultSize = 5

// Store holds the most recent runs, newest first. Every mutation is written
// through to the snapshot file, if one is configured.
// It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	runs []models.Run
	size int
	file *persist.File[[]models.Run]
	now  func() time.Time
}

// New creates a Store holding at most size runs and hydrates it from path.
// An unreadable snapshot is logged and the store starts empty.
func New(size int, path string) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	s := &Store{
		size: size,
		file: persist.NewFile[[]models.Run](path),
		now:  time.Now,
	}

	runs, ok, err := s.file.Load()
	if err != nil {
		slog.Warn("history: ignoring unreadable snapshot", "path", path, "error", err)
	}
	if ok {
		if len(runs) > size {
			runs = runs[:size]
		}
		interrupted := failInterrupted(runs)
		s.runs = runs
		if interrupted > 0 {
			s.saveLocked()
		}
		slog.Info("history: hydrated", "path", path, "runs", len(runs), "interrupted", interrupted)
	}
	return s
}

// failInterrupted marks runs still loading in a snapshot as failed: the
// process that started them is gone and nothing will finish them.
func failInterrupted(runs []models.Run) int {
	n := 0
	for i := range runs {
		if runs[i].Status != models.RunLoading {
			continue
		}
		runs[i].Status = models.RunError
		resp := models.NewErrorResponse(models.MsgRunInterrupted)
		runs[i].Result = &resp
		n++
	}
	return n
}

// Start records a new run for url in the loading state and returns it.
func (s *Store) Start(url string) models.Run {
	run := models.Run{
		ID:        uuid.NewString(),
		URL:       url,
		Status:    models.RunLoading,
		Timestamp: s.now(),
	}
	s.Add(run)
	return run
}

// Add prepends run, dropping the oldest entries beyond the size limit.
func (s *Store) Add(run models.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep := s.runs
	if len(keep) > s.size-1 {
		keep = keep[:s.size-1]
	}
	next := make([]models.Run, 0, len(keep)+1)
	next = append(next, run)
	next = append(next, keep...)
	s.runs = next
	s.saveLocked()
}

// Update merges u into the run with the given id. It reports whether the
// run was found; runs already evicted are silently ignored.
func (s *Store) Update(id string, u models.RunUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.runs {
		if s.runs[i].ID != id {
			continue
		}
		if u.Status != nil {
			s.runs[i].Status = *u.Status
		}
		if u.Result != nil {
			s.runs[i].Result = u.Result
		}
		s.saveLocked()
		return true
	}
	return false
}

// Finish marks a run as succeeded or failed according to result.Success.
func (s *Store) Finish(id string, result *models.ScrapeResponse) bool {
	status := models.RunError
	if result != nil && result.Success {
		status = models.RunSuccess
	}
	return s.Update(id, models.RunUpdate{Status: &status, Result: result})
}

// Clear removes every run.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = nil
	s.saveLocked()
}

// List returns a copy of the runs, newest first.
func (s *Store) List() []models.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Run, len(s.runs))
	copy(out, s.runs)
	return out
}

// Get returns the run with the given id.
func (s *Store) Get(id string) (models.Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.runs {
		if r.ID == id {
			return r, true
		}
	}
	return models.Run{}, false
}

// Len returns the number of runs held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// saveLocked persists the current runs. Failures are logged: the in-memory
// state stays authoritative.
func (s *Store) saveLocked() {
	if err := s.file.Save(s.runs); err != nil {
		slog.Warn("history: persist failed", "path", s.file.Path(), "error", err)
	}
}
