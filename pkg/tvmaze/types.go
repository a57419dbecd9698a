// Package tvmaze provides a client for the public TVmaze API.
package tvmaze

import "time"

// Show is a TVmaze show.
type Show struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Premiered string    `json:"premiered"`
	Status    string    `json:"status"` // "Running", "Ended", "To Be Determined"
	Summary   *string   `json:"summary"`
	Externals Externals `json:"externals"`
}

// Externals are cross-reference ids TVmaze knows for a show.
type Externals struct {
	IMDB    *string `json:"imdb"`
	TheTVDB *int64  `json:"thetvdb"`
}

// SearchResult is one ranked hit from /search/shows.
type SearchResult struct {
	Score float64 `json:"score"`
	Show  Show    `json:"show"`
}

// Episode is an episode embedded in a show response.
type Episode struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Season   int     `json:"season"`
	Number   *int    `json:"number"` // nil for specials
	AirDate  string  `json:"airdate"`
	AirStamp string  `json:"airstamp"`
	Runtime  *int    `json:"runtime"`
	Summary  *string `json:"summary"`
}

// AirDay returns the calendar day the episode airs, taken from the airstamp
// in its own offset and falling back to airdate. ok is false when neither
// parses.
func (e Episode) AirDay() (day time.Time, ok bool) {
	if e.AirStamp != "" {
		if t, err := time.Parse(time.RFC3339, e.AirStamp); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	if e.AirDate != "" {
		if t, err := time.Parse(time.DateOnly, e.AirDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ShowWithEpisodes is the /shows/{id}?embed=episodes response.
type ShowWithEpisodes struct {
	Show
	Embedded struct {
		Episodes []Episode `json:"episodes"`
	} `json:"_embedded"`
}

// Episodes returns the embedded episode list.
func (s *ShowWithEpisodes) Episodes() []Episode {
	return s.Embedded.Episodes
}
