// Package persist snapshots small state values to JSON files.
//
// Stores call Load once when they start (hydrate) and Save after every
// mutation (serialize). A File with an empty path is a no-op, which keeps
// the owning store purely in memory.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File is a JSON snapshot of a value of type T.
type File[T any] struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a File backed by path.
func NewFile[T any](path string) *File[T] {
	return &File[T]{path: path}
}

// Path returns the backing file path ("" when disabled).
func (f *File[T]) Path() string { return f.path }

// Load reads the snapshot. ok is false when persistence is disabled or no
// snapshot has been written yet.
func (f *File[T]) Load() (value T, ok bool, err error) {
	if f.path == "" {
		return value, false, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("persist: read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("persist: decode %s: %w", f.path, err)
	}
	return value, true, nil
}

// Save writes value atomically: it is encoded to a temp file in the same
// directory, which then replaces the snapshot.
func (f *File[T]) Save(value T) error {
	if f.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: encode: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("persist: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("persist: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: replace %s: %w", f.path, err)
	}
	return nil
}
