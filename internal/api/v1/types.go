package v1

import (
	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/internal/resolve"
	"github.com/vmunix/cinetrack/internal/upcoming"
	"github.com/vmunix/cinetrack/pkg/trakt"
)

// listRecordsResponse is the response for GET /catalog.
type listRecordsResponse struct {
	Items []media.Record `json:"items"`
	Total int            `json:"total"`
}

// recordResponse wraps a record with its computed progress.
type recordResponse struct {
	media.Record
	EpisodesWatched *int `json:"episodes_watched,omitempty"`
	EpisodesTotal   *int `json:"episodes_total,omitempty"`
}

// addRequest is the request body for POST /catalog. Either Candidate is
// given, or Query is searched and the Pick-th hit (1-based) is added.
type addRequest struct {
	Query     string             `json:"query"`
	Pick      int                `json:"pick"`
	Candidate *resolve.Candidate `json:"candidate"`
}

// addResponse is the response for POST /catalog.
type addResponse struct {
	Added  bool         `json:"added"`
	Record media.Record `json:"record"`
}

// statusRequest is the request body for PUT /catalog/{id}/status.
type statusRequest struct {
	Status string `json:"status"`
}

// progressRequest is the request body for PUT /catalog/{id}/seasons/{season}.
type progressRequest struct {
	Action string `json:"action"`
	Value  int    `json:"value"`
}

// searchResponse is the response for GET /search.
type searchResponse struct {
	Query   string              `json:"query"`
	Results []resolve.Candidate `json:"results"`
}

// upcomingResponse is the response for GET /upcoming.
type upcomingResponse struct {
	Items []upcoming.Episode `json:"items"`
}

// trendingResponse is the response for GET /trending/{kind}.
type trendingResponse struct {
	Kind  trakt.Kind   `json:"kind"`
	List  trakt.List   `json:"list"`
	Items []trakt.Item `json:"items"`
}

// EventResponse is a single persisted event.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}

// listEventsResponse is the response for GET /events.
type listEventsResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// pushMessage is written to websocket clients on every catalog change.
type pushMessage struct {
	Type     string `json:"type"`
	Reason   string `json:"reason,omitempty"`
	RecordID int64  `json:"record_id,omitempty"`
	Size     int    `json:"size"`
}
