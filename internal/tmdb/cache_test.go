package tmdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := newCache(time.Hour)

	_, ok := c.getDetails(MediaMovie, 12345)
	assert.False(t, ok, "empty cache should miss")

	c.setDetails(MediaMovie, 12345, &Details{ID: 12345, Title: "Test Movie"})

	got, ok := c.getDetails(MediaMovie, 12345)
	require.True(t, ok, "should hit after set")
	assert.Equal(t, "Test Movie", got.Title)

	// same id, other media type
	_, ok = c.getDetails(MediaTV, 12345)
	assert.False(t, ok)

	c.setFind("tt0137523", &FindResult{MovieResults: []SearchResult{{ID: 550}}})
	f, ok := c.getFind("tt0137523")
	require.True(t, ok)
	assert.Equal(t, int64(550), f.MovieResults[0].ID)
	assert.Equal(t, 2, c.len())
}

func TestCache_Expiry(t *testing.T) {
	c := newCache(10 * time.Millisecond)

	c.setDetails(MediaTV, 1396, &Details{ID: 1396, Name: "Breaking Bad"})

	_, ok := c.getDetails(MediaTV, 1396)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.getDetails(MediaTV, 1396)
	assert.False(t, ok, "should miss after TTL")
}
