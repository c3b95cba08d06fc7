package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetThenGet(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Close()

	series := Series{SiteID: "site-1", Points: []Point{{Time: time.Now(), PowerKW: 5}}}
	c.Set("key-1", series)

	got, ok := c.Get("key-1")
	assert.True(t, ok)
	assert.Equal(t, "site-1", got.SiteID)
}

func TestCache_MissReturnsFalse(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCache_ExpiredEntryNotReturned(t *testing.T) {
	c := NewCache(time.Millisecond)
	defer c.Close()

	c.Set("key-1", Series{SiteID: "site-1"})
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("key-1")
	assert.False(t, ok)
}

func TestCache_NilCacheIsNoop(t *testing.T) {
	var c *Cache
	c.Set("key-1", Series{SiteID: "site-1"})
	_, ok := c.Get("key-1")
	assert.False(t, ok)
	c.Close()
}

func TestCacheKey_DeterministicAndDistinct(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	a := CacheKey("site-1", start, end, 15, 0.5)
	b := CacheKey("site-1", start, end, 15, 0.5)
	c := CacheKey("site-2", start, end, 15, 0.5)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
