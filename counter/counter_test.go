package counter

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/use-agent/scrape-playground/models"
)

func TestStore_Operations(t *testing.T) {
	s := New("")
	assert.Equal(t, models.CounterState{}, s.Get())

	s.Add()
	s.Add()
	assert.Equal(t, 2, s.Get().Bears)

	s.Remove()
	assert.Equal(t, 1, s.Get().Bears)

	st := s.SetName("Yogi")
	assert.Equal(t, models.CounterState{Bears: 1, Name: "Yogi"}, st)

	assert.Equal(t, models.CounterState{}, s.Reset())
}

func TestStore_RemoveFloorsAtZero(t *testing.T) {
	s := New("")
	s.Remove()
	s.Remove()
	assert.Equal(t, 0, s.Get().Bears)
}

func TestStore_PersistsAndHydrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")

	s := New(path)
	s.Add()
	s.Add()
	s.Add()
	s.SetName("Baloo")

	reloaded := New(path)
	assert.Equal(t, models.CounterState{Bears: 3, Name: "Baloo"}, reloaded.Get())
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := New("")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Get().Bears)
}
