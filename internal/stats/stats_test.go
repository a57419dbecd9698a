package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/cinetrack/internal/media"
)

func movie(id int64, runtime *int, status media.WatchStatus, genres ...string) media.Record {
	r := media.NewMovie(id, "movie", runtime)
	r.Status = status
	r.Genres = genres
	return *r
}

func series(id int64, runtimes []int, status media.WatchStatus, seasons map[string]*media.SeasonProgress, genres ...string) media.Record {
	r := media.NewSeries(id, "series")
	r.Status = status
	r.Series.EpisodeRuntime = runtimes
	if seasons != nil {
		r.Series.Seasons = seasons
	}
	r.Genres = genres
	return *r
}

func TestCompute_SingleCompletedMovie(t *testing.T) {
	s := Compute([]media.Record{movie(1, media.Ptr(120), media.StatusCompleted)})

	assert.Equal(t, "0d 2h 0m", s.WatchTime.String())
	assert.Equal(t, 1, s.CompletedMovies)
	assert.Equal(t, 0, s.CompletedSeries)
	assert.Equal(t, 1, s.TotalItems)
}

func TestCompute_WatchTime(t *testing.T) {
	records := []media.Record{
		movie(1, media.Ptr(100), media.StatusWatching),
		movie(2, media.Ptr(500), media.StatusPlanToWatch),
		movie(3, nil, media.StatusCompleted),
		series(4, []int{30, 60}, media.StatusCompleted, map[string]*media.SeasonProgress{
			"1": {EpisodesWatched: 2, TotalEpisodes: 10},
			"2": {EpisodesWatched: 0, TotalEpisodes: 8},
		}),
		series(5, []int{45}, media.StatusWatching, map[string]*media.SeasonProgress{
			"1": {EpisodesWatched: 4, TotalEpisodes: 10},
			"3": {EpisodesWatched: 2, TotalEpisodes: 6},
		}),
		series(6, nil, media.StatusCompleted, map[string]*media.SeasonProgress{
			"1": {EpisodesWatched: 10, TotalEpisodes: 10},
		}),
		series(7, []int{50}, media.StatusDropped, map[string]*media.SeasonProgress{
			"1": {EpisodesWatched: 3, TotalEpisodes: 10},
		}),
		series(8, []int{50}, media.StatusWatching, nil),
	}

	s := Compute(records)
	// 100 + 18*30 + 6*45 = 910
	assert.Equal(t, 910, s.WatchTime.Minutes)
	assert.Equal(t, "0d 15h 10m", s.WatchTime.String())
	assert.Equal(t, TotalWatchTime(records), s.WatchTime)
	assert.Equal(t, 1, s.CompletedMovies)
	assert.Equal(t, 2, s.CompletedSeries)
	assert.Equal(t, 8, s.TotalItems)
	assert.Equal(t, 2+4+2+10+3, s.EpisodesWatched)
	assert.Equal(t, 3, s.StatusCounts[media.StatusWatching])
	assert.Equal(t, 3, s.StatusCounts[media.StatusCompleted])
	assert.Equal(t, 1, s.StatusCounts[media.StatusPlanToWatch])
	assert.Equal(t, 1, s.StatusCounts[media.StatusDropped])
}

func TestWatchTime_Format(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0d 0h 0m"},
		{59, "0d 0h 59m"},
		{60, "0d 1h 0m"},
		{1440, "1d 0h 0m"},
		{1500, "1d 1h 0m"},
		{3*1440 + 5*60 + 7, "3d 5h 7m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, WatchTime{Minutes: tt.minutes}.String())
		})
	}
}

func TestCompute_GenreBreakdownStable(t *testing.T) {
	records := []media.Record{
		movie(1, nil, media.StatusPlanToWatch, "Drama", "Crime"),
		movie(2, nil, media.StatusDropped, "Comedy", "Drama"),
		series(3, nil, media.StatusWatching, nil, "Crime", "Sci-Fi", "Comedy"),
		movie(4, nil, media.StatusCompleted, "Horror"),
	}

	s := Compute(records)
	require.Len(t, s.Genres, 5)
	assert.Equal(t, []GenreCount{
		{Name: "Drama", Count: 2},
		{Name: "Crime", Count: 2},
		{Name: "Comedy", Count: 2},
		{Name: "Sci-Fi", Count: 1},
		{Name: "Horror", Count: 1},
	}, s.Genres)
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil)
	assert.Equal(t, "0d 0h 0m", s.WatchTime.String())
	assert.Equal(t, 0, s.TotalItems)
	assert.Empty(t, s.Genres)
	assert.Len(t, s.StatusCounts, 4)
}

func TestSummary_JSON(t *testing.T) {
	s := Compute([]media.Record{movie(1, media.Ptr(120), media.StatusCompleted, "Drama")})
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_watch_time":"0d 2h 0m"`)
	assert.Contains(t, string(data), `"Plan to Watch":0`)
}

func TestSeriesProgress(t *testing.T) {
	r := series(1, nil, media.StatusWatching, map[string]*media.SeasonProgress{
		"1": {EpisodesWatched: 3, TotalEpisodes: 5},
		"2": nil,
	})
	watched, total := SeriesProgress(&r)
	assert.Equal(t, 3, watched)
	assert.Equal(t, 5, total)

	m := movie(2, nil, media.StatusWatching)
	watched, total = SeriesProgress(&m)
	assert.Zero(t, watched)
	assert.Zero(t, total)
}
