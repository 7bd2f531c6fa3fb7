package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/use-agent/scrape-playground/models"
)

func newTestCache(t *testing.T, maxEntries int) (*Cache, *time.Time) {
	t.Helper()
	c := New(maxEntries)
	t.Cleanup(c.Stop)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestKey(t *testing.T) {
	a := Key("https://example.com", []string{"markdown", "html"})
	assert.Equal(t, a, Key("https://example.com", []string{"markdown", "html"}))
	assert.NotEqual(t, a, Key("https://example.com", []string{"html", "markdown"}))
	assert.NotEqual(t, a, Key("https://example.org", []string{"markdown", "html"}))
}

func TestCache_GetRespectsMaxAge(t *testing.T) {
	c, now := newTestCache(t, 10)
	data := &models.ScrapeData{Markdown: "# cached"}
	c.Set("k", data)

	got, hit := c.Get("k", 1000)
	assert.True(t, hit)
	assert.Same(t, data, got)

	*now = now.Add(2 * time.Second)
	_, hit = c.Get("k", 1000)
	assert.False(t, hit)

	_, hit = c.Get("k", 0)
	assert.False(t, hit, "maxAge 0 never reads the cache")
}

func TestCache_EvictsAtCapacity(t *testing.T) {
	c, _ := newTestCache(t, 3)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprint(i), &models.ScrapeData{})
	}
	assert.Equal(t, 3, c.Len())

	// Overwriting an existing key does not evict.
	c.Set("4", &models.ScrapeData{Markdown: "new"})
	assert.Equal(t, 3, c.Len())
}

func TestCache_EvictExpired(t *testing.T) {
	c, now := newTestCache(t, 10)
	c.Set("old", &models.ScrapeData{})
	*now = now.Add(2 * time.Hour)
	c.Set("fresh", &models.ScrapeData{})

	c.evictExpired()
	assert.Equal(t, 1, c.Len())
}

func TestCache_NilAndZeroCapacity(t *testing.T) {
	var nilCache *Cache
	nilCache.Set("k", &models.ScrapeData{})
	_, hit := nilCache.Get("k", 1000)
	assert.False(t, hit)

	c, _ := newTestCache(t, 0)
	c.Set("k", &models.ScrapeData{})
	assert.Equal(t, 0, c.Len())
}
