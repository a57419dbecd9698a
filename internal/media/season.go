package media

import "fmt"

// Episode describes a single episode within a season.
type Episode struct {
	Number int      `json:"episode_number"`
	Name   string   `json:"name"`
	Rating *float64 `json:"vote_average,omitempty"`
}

// SeasonProgress tracks watched episodes for one season.
// EpisodesWatched always stays within [0, TotalEpisodes]; mutators clamp.
type SeasonProgress struct {
	EpisodesWatched int       `json:"episodesWatched"`
	TotalEpisodes   int       `json:"totalEpisodes"`
	AverageRating   *float64  `json:"vote_average,omitempty"`
	Episodes        []Episode `json:"episodes,omitempty"`
}

// NewSeasonProgress returns an unwatched season with the given episode count.
func NewSeasonProgress(total int) *SeasonProgress {
	sp := &SeasonProgress{TotalEpisodes: total}
	sp.clamp()
	return sp
}

// Increment marks one more episode watched. No-op at TotalEpisodes.
func (s *SeasonProgress) Increment() {
	s.SetWatched(s.EpisodesWatched + 1)
}

// Decrement un-marks one episode. No-op at 0.
func (s *SeasonProgress) Decrement() {
	s.SetWatched(s.EpisodesWatched - 1)
}

// SetWatched sets the watched counter, clamped to [0, TotalEpisodes].
func (s *SeasonProgress) SetWatched(n int) {
	s.EpisodesWatched = n
	s.clamp()
}

// MarkAll marks the whole season watched (true) or unwatched (false).
func (s *SeasonProgress) MarkAll(watched bool) {
	if watched {
		s.EpisodesWatched = s.TotalEpisodes
		return
	}
	s.EpisodesWatched = 0
}

// Complete reports whether every episode has been watched.
func (s *SeasonProgress) Complete() bool {
	return s.EpisodesWatched == s.TotalEpisodes
}

// Clone returns a deep copy.
func (s *SeasonProgress) Clone() SeasonProgress {
	c := *s
	c.AverageRating = clonePtr(s.AverageRating)
	if s.Episodes != nil {
		c.Episodes = make([]Episode, len(s.Episodes))
		for i, ep := range s.Episodes {
			c.Episodes[i] = Episode{Number: ep.Number, Name: ep.Name, Rating: clonePtr(ep.Rating)}
		}
	}
	return c
}

func (s *SeasonProgress) clamp() {
	if s.TotalEpisodes < 0 {
		s.TotalEpisodes = 0
	}
	if s.EpisodesWatched < 0 {
		s.EpisodesWatched = 0
	}
	if s.EpisodesWatched > s.TotalEpisodes {
		s.EpisodesWatched = s.TotalEpisodes
	}
}

// ProgressAction names a season progress change.
type ProgressAction string

const (
	ActionIncrement ProgressAction = "inc"
	ActionDecrement ProgressAction = "dec"
	ActionAll       ProgressAction = "all"
	ActionNone      ProgressAction = "none"
	ActionSet       ProgressAction = "set"
)

// Mutator returns the SeasonProgress change for the action. n is only
// used by ActionSet.
func (a ProgressAction) Mutator(n int) (func(*SeasonProgress), error) {
	switch a {
	case ActionIncrement:
		return (*SeasonProgress).Increment, nil
	case ActionDecrement:
		return (*SeasonProgress).Decrement, nil
	case ActionAll:
		return func(s *SeasonProgress) { s.MarkAll(true) }, nil
	case ActionNone:
		return func(s *SeasonProgress) { s.MarkAll(false) }, nil
	case ActionSet:
		return func(s *SeasonProgress) { s.SetWatched(n) }, nil
	}
	return nil, fmt.Errorf("unknown progress action %q (want inc, dec, all, none or set)", a)
}
