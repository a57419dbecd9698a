// Package tmdb provides a client for The Movie Database API.
package tmdb

import "strings"

// Media types used in TMDB multi-search and detail paths.
const (
	MediaMovie = "movie"
	MediaTV    = "tv"
)

// SearchResult is one hit from /search/multi or /find. Movies populate
// Title/ReleaseDate, series populate Name/FirstAirDate.
type SearchResult struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	PosterPath   string  `json:"poster_path"` // "/abc123.jpg"
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
}

// DisplayTitle returns whichever title field is populated.
func (r SearchResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Date returns whichever release date field is populated.
func (r SearchResult) Date() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

type searchResponse struct {
	Page    int            `json:"page"`
	Results []SearchResult `json:"results"`
}

// FindResult holds /find matches split by media type.
type FindResult struct {
	MovieResults []SearchResult `json:"movie_results"`
	TVResults    []SearchResult `json:"tv_results"`
}

// All returns movie matches followed by series matches, with MediaType set.
func (f *FindResult) All() []SearchResult {
	out := make([]SearchResult, 0, len(f.MovieResults)+len(f.TVResults))
	for _, r := range f.MovieResults {
		if r.MediaType == "" {
			r.MediaType = MediaMovie
		}
		out = append(out, r)
	}
	for _, r := range f.TVResults {
		if r.MediaType == "" {
			r.MediaType = MediaTV
		}
		out = append(out, r)
	}
	return out
}

// Genre represents a TMDB genre tag.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Season is a season summary embedded in series details.
type Season struct {
	SeasonNumber int     `json:"season_number"`
	EpisodeCount int     `json:"episode_count"`
	Name         string  `json:"name"`
	AirDate      string  `json:"air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

// ExternalIDs are the cross-reference ids returned by append_to_response=external_ids.
type ExternalIDs struct {
	IMDBID *string `json:"imdb_id"`
	TVDBID *int64  `json:"tvdb_id"`
}

// Details is the full movie or series detail object.
type Details struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title,omitempty"`
	Name            string      `json:"name,omitempty"`
	Overview        string      `json:"overview"`
	PosterPath      *string     `json:"poster_path"`
	ReleaseDate     string      `json:"release_date,omitempty"`
	FirstAirDate    string      `json:"first_air_date,omitempty"`
	VoteAverage     float64     `json:"vote_average"`
	Genres          []Genre     `json:"genres"`
	Runtime         *int        `json:"runtime,omitempty"` // minutes, movies
	EpisodeRunTime  []int       `json:"episode_run_time,omitempty"`
	NumberOfSeasons *int        `json:"number_of_seasons,omitempty"`
	Status          *string     `json:"status,omitempty"`
	Seasons         []Season    `json:"seasons,omitempty"`
	ExternalIDs     ExternalIDs `json:"external_ids"`
}

// DisplayTitle returns whichever title field is populated.
func (d *Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Year returns the four-digit prefix of the populated release date, or "".
func (d *Details) Year() string {
	date := d.ReleaseDate
	if date == "" {
		date = d.FirstAirDate
	}
	year, _, _ := strings.Cut(date, "-")
	return year
}

// PosterURL returns the full poster image URL.
// Size can be: w92, w154, w185, w342, w500, w780, original
func PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/" + size + path
}
