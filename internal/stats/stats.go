// Package stats derives watch-time, completion and genre statistics from a
// catalog snapshot. Everything here is a pure function of its input.
package stats

import (
	"fmt"
	"sort"

	"github.com/vmunix/cinetrack/internal/media"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// WatchTime is an amount of viewing time in whole minutes.
type WatchTime struct {
	Minutes int `json:"minutes"`
}

// Days, Hours and Mins split the total with integer division.
func (w WatchTime) Days() int  { return w.Minutes / minutesPerDay }
func (w WatchTime) Hours() int { return (w.Minutes % minutesPerDay) / minutesPerHour }
func (w WatchTime) Mins() int  { return w.Minutes % minutesPerHour }

// String formats as "Xd Yh Zm".
func (w WatchTime) String() string {
	return fmt.Sprintf("%dd %dh %dm", w.Days(), w.Hours(), w.Mins())
}

// MarshalText renders the formatted form, so JSON carries "0d 2h 0m".
func (w WatchTime) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// GenreCount is one row of the genre breakdown.
type GenreCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the full statistics view of a catalog.
type Summary struct {
	WatchTime       WatchTime                 `json:"total_watch_time"`
	CompletedMovies int                       `json:"completed_movies"`
	CompletedSeries int                       `json:"completed_shows"`
	TotalItems      int                       `json:"total_items"`
	Genres          []GenreCount              `json:"genres"`
	StatusCounts    map[media.WatchStatus]int `json:"status_counts"`
	EpisodesWatched int                       `json:"episodes_watched"`
}

// Compute builds the summary for records. Missing runtimes or seasons
// contribute nothing.
func Compute(records []media.Record) Summary {
	s := Summary{
		TotalItems:   len(records),
		StatusCounts: make(map[media.WatchStatus]int, len(media.Statuses)),
	}
	for _, st := range media.Statuses {
		s.StatusCounts[st] = 0
	}

	genreIndex := make(map[string]int)
	for i := range records {
		r := &records[i]

		s.WatchTime.Minutes += watchMinutes(r)
		s.StatusCounts[r.Status]++

		if r.Status == media.StatusCompleted {
			if r.IsMovie() {
				s.CompletedMovies++
			} else {
				s.CompletedSeries++
			}
		}

		if r.IsSeries() {
			watched, _ := SeriesProgress(r)
			s.EpisodesWatched += watched
		}

		for _, g := range r.Genres {
			if idx, ok := genreIndex[g]; ok {
				s.Genres[idx].Count++
				continue
			}
			genreIndex[g] = len(s.Genres)
			s.Genres = append(s.Genres, GenreCount{Name: g, Count: 1})
		}
	}

	// ties keep first-encounter order
	sort.SliceStable(s.Genres, func(i, j int) bool {
		return s.Genres[i].Count > s.Genres[j].Count
	})
	return s
}

// TotalWatchTime sums watch time over records.
func TotalWatchTime(records []media.Record) WatchTime {
	var w WatchTime
	for i := range records {
		w.Minutes += watchMinutes(&records[i])
	}
	return w
}

// watchMinutes is a movie's runtime, or for a series the first episode
// runtime times all episodes (Completed) or watched episodes (Watching).
func watchMinutes(r *media.Record) int {
	if !r.Status.Active() {
		return 0
	}
	switch r.Kind {
	case media.KindMovie:
		return r.Runtime()
	case media.KindSeries:
		per := r.FirstEpisodeRuntime()
		if per == 0 {
			return 0
		}
		watched, total := SeriesProgress(r)
		if r.Status == media.StatusCompleted {
			return total * per
		}
		return watched * per
	}
	return 0
}

// SeriesProgress sums watched and total episodes across all seasons.
func SeriesProgress(r *media.Record) (watched, total int) {
	for _, sp := range r.Seasons() {
		if sp == nil {
			continue
		}
		watched += sp.EpisodesWatched
		total += sp.TotalEpisodes
	}
	return watched, total
}
