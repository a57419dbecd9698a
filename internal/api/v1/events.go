package v1

import (
	"net/http"
	"time"

	"github.com/vmunix/cinetrack/internal/events"
	"github.com/vmunix/cinetrack/internal/upcoming"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	// Validate pagination parameters
	if limit < 0 || offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}
	const maxLimit = 1000
	if limit > maxLimit {
		limit = maxLimit
	}

	raw, total, err := s.deps.EventLog.Recent(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Items:  toEventResponses(raw),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Server) listRecordEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	raw, err := s.deps.EventLog.ForEntity(r.Context(), events.EntityRecord, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Items: toEventResponses(raw),
		Total: len(raw),
		Limit: len(raw),
	})
}

func toEventResponses(raw []events.RawEvent) []EventResponse {
	out := make([]EventResponse, len(raw))
	for i, e := range raw {
		out[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
	}
	return out
}

func (s *Server) listUpcoming(w http.ResponseWriter, r *http.Request) {
	items := s.deps.Upcoming.Project(r.Context(), s.deps.Catalog.All())
	if items == nil {
		items = []upcoming.Episode{}
	}
	writeJSON(w, http.StatusOK, upcomingResponse{Items: items})
}
