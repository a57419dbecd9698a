package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/cinetrack/internal/events"
	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/internal/stats"
	"github.com/vmunix/cinetrack/internal/upcoming"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"The Lord of the Rings", 10, "The Lor..."},
		{"Amélie Poulain", 8, "Améli..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.max), tt.in)
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "never", formatTimeAgo(0))
	assert.Equal(t, "just now", formatTimeAgo(now.Unix()))
	assert.Equal(t, "5m ago", formatTimeAgo(now.Add(-5*time.Minute).Unix()))
	assert.Equal(t, "1h ago", formatTimeAgo(now.Add(-90*time.Minute).Unix()))
	assert.Equal(t, "3d ago", formatTimeAgo(now.Add(-73*time.Hour).Unix()))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[····]", progressBar(0, 0, 4))
	assert.Equal(t, "[██··]", progressBar(5, 10, 4))
	assert.Equal(t, "[████]", progressBar(10, 10, 4))
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"movie", "Movies"} {
		k, err := parseKind(s)
		assert.NoError(t, err)
		assert.Equal(t, media.KindMovie, k)
	}
	for _, s := range []string{"series", "show", "TV"} {
		k, err := parseKind(s)
		assert.NoError(t, err)
		assert.Equal(t, media.KindSeries, k)
	}
	_, err := parseKind("podcast")
	assert.Error(t, err)
}

func TestPrintRecord_Series(t *testing.T) {
	rec := media.NewSeries(1396, "Breaking Bad")
	rec.Year = "2008"
	rec.Status = media.StatusWatching
	rec.Series.Seasons["1"] = &media.SeasonProgress{EpisodesWatched: 7, TotalEpisodes: 7}
	rec.Series.Seasons["10"] = media.NewSeasonProgress(8)
	rec.Series.Seasons["2"] = &media.SeasonProgress{EpisodesWatched: 3, TotalEpisodes: 13}

	var buf bytes.Buffer
	printRecord(&buf, rec)
	out := buf.String()

	assert.Contains(t, out, "Breaking Bad (2008)")
	assert.Contains(t, out, "Status:   Watching")
	assert.Contains(t, out, "7/7 ✓")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("3/13")), bytes.Index(buf.Bytes(), []byte("0/8")))
}

func TestPrintStats(t *testing.T) {
	s := stats.Summary{
		WatchTime:    stats.WatchTime{Minutes: 1500},
		TotalItems:   3,
		StatusCounts: map[media.WatchStatus]int{media.StatusCompleted: 2},
		Genres:       []stats.GenreCount{{Name: "Drama", Count: 2}},
	}
	var buf bytes.Buffer
	printStats(&buf, s)

	assert.Contains(t, buf.String(), "1d 1h 0m")
	assert.Contains(t, buf.String(), "Drama")
	assert.Contains(t, buf.String(), "Plan to Watch   0")
}

func TestPrintUpcoming_Empty(t *testing.T) {
	var buf bytes.Buffer
	printUpcoming(&buf, []upcoming.Episode{})
	assert.Equal(t, "No upcoming episodes.\n", buf.String())
}

func TestPrintEvents_Reason(t *testing.T) {
	raw := events.RawEvent{
		ID:         1,
		EventType:  events.EventCatalogChanged,
		EntityType: events.EntityRecord,
		EntityID:   603,
		Payload:    `{"type":"catalog.changed","reason":"status_changed","size":4}`,
		OccurredAt: time.Now(),
	}
	var buf bytes.Buffer
	printEvents(&buf, []events.RawEvent{raw}, 1)

	assert.Contains(t, buf.String(), "Recent Events (1)")
	assert.Contains(t, buf.String(), "record/603")
	assert.Contains(t, buf.String(), "status_changed")
}

func TestPrintAdded(t *testing.T) {
	rec := media.NewSeries(1396, "Breaking Bad")
	rec.Year = "2008"
	rec.Series.Seasons["1"] = media.NewSeasonProgress(7)

	var buf bytes.Buffer
	printAdded(&buf, rec, true)
	assert.Contains(t, buf.String(), "Added Breaking Bad (2008) as Plan to Watch")
	assert.Contains(t, buf.String(), "1 seasons tracked")

	buf.Reset()
	printAdded(&buf, rec, false)
	assert.Equal(t, "Breaking Bad is already in your list\n", buf.String())
}
