// Package v1 implements the native REST API.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rs/cors"

	"github.com/vmunix/cinetrack/internal/catalog"
	"github.com/vmunix/cinetrack/internal/events"
	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/internal/resolve"
	"github.com/vmunix/cinetrack/internal/stats"
	"github.com/vmunix/cinetrack/pkg/trakt"
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	hub  *Hub
	sub  <-chan events.Event // catalog changes for the hub, nil without a bus
	log  *slog.Logger
}

// NewWithDeps creates a v1 API server from explicit dependencies.
func NewWithDeps(deps ServerDeps, log *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDependency, err)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("component", "api")
	s := &Server{
		deps: deps,
		hub:  NewHub(log),
		log:  log,
	}
	// Subscribe now so changes made before Run starts are still pushed.
	if deps.Bus != nil {
		s.sub = deps.Bus.Subscribe(events.EventCatalogChanged, pushBufferSize)
	}
	return s, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Catalog
	mux.HandleFunc("GET /api/v1/catalog", s.listRecords)
	mux.HandleFunc("GET /api/v1/catalog/{id}", s.getRecord)
	mux.HandleFunc("POST /api/v1/catalog", s.addRecord)
	mux.HandleFunc("PUT /api/v1/catalog/{id}/status", s.updateStatus)
	mux.HandleFunc("PUT /api/v1/catalog/{id}/seasons/{season}", s.updateSeason)
	mux.HandleFunc("DELETE /api/v1/catalog/{id}", s.removeRecord)
	mux.HandleFunc("GET /api/v1/catalog/{id}/events", s.requireEventLog(s.listRecordEvents))

	// Metadata
	mux.HandleFunc("GET /api/v1/search", s.requireResolver(s.search))
	mux.HandleFunc("GET /api/v1/trending/{kind}", s.requireDiscovery(s.trending))

	// Insights
	mux.HandleFunc("GET /api/v1/stats", s.getStats)
	mux.HandleFunc("GET /api/v1/upcoming", s.requireUpcoming(s.listUpcoming))

	// Events
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))
	mux.HandleFunc("GET /api/v1/ws", s.serveWS)
}

// Handler returns the routed API with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(logRequests(mux, s.log))
}

// Run forwards catalog events to websocket clients until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if s.sub == nil {
		<-ctx.Done()
		return nil
	}
	defer s.deps.Bus.Unsubscribe(s.sub)
	return s.hub.Run(ctx, s.sub)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeStoreError maps a failed catalog mutation to a response.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrPersist) {
		writeError(w, http.StatusInternalServerError, "PERSIST_ERROR", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

// pathID extracts the integer {id} from the URL path.
func pathID(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.New("missing path parameter: id")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}

func toRecordResponse(rec media.Record) recordResponse {
	resp := recordResponse{Record: rec}
	if rec.IsSeries() {
		watched, total := stats.SeriesProgress(&rec)
		resp.EpisodesWatched = &watched
		resp.EpisodesTotal = &total
	}
	return resp
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	var f catalog.Filter

	if v := queryString(r, "status"); v != nil {
		st, err := media.ParseWatchStatus(*v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", err.Error())
			return
		}
		f.Status = &st
	}
	if v := queryString(r, "type"); v != nil {
		k := media.Kind(*v)
		if !k.Valid() {
			writeError(w, http.StatusBadRequest, "INVALID_TYPE", fmt.Sprintf("unknown type %q", *v))
			return
		}
		f.Kind = &k
	}
	if v := queryString(r, "sort"); v != nil {
		order, err := catalog.ParseSortOrder(*v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SORT", err.Error())
			return
		}
		f.Sort = order
	}
	f.Query = r.URL.Query().Get("q")

	items := s.deps.Catalog.List(f)
	if items == nil {
		items = []media.Record{}
	}
	writeJSON(w, http.StatusOK, listRecordsResponse{Items: items, Total: len(items)})
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	rec, ok := s.deps.Catalog.FindByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Record not found")
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (s *Server) addRecord(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if s.deps.Resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Search provider not configured")
		return
	}

	cand := req.Candidate
	if cand == nil {
		if req.Query == "" {
			writeError(w, http.StatusBadRequest, "MISSING_QUERY", "query or candidate is required")
			return
		}
		results := s.deps.Resolver.Search(r.Context(), req.Query)
		if len(results) == 0 {
			writeError(w, http.StatusNotFound, "NO_RESULTS", fmt.Sprintf("no results for %q", req.Query))
			return
		}
		pick := req.Pick
		if pick == 0 {
			pick = 1
		}
		if pick < 1 || pick > len(results) {
			writeError(w, http.StatusBadRequest, "INVALID_PICK", fmt.Sprintf("pick must be between 1 and %d", len(results)))
			return
		}
		cand = &results[pick-1]
	}

	if existing, ok := s.deps.Catalog.FindByID(cand.ID); ok {
		writeJSON(w, http.StatusOK, addResponse{Added: false, Record: existing})
		return
	}

	rec, err := s.deps.Resolver.Expand(r.Context(), *cand)
	if err != nil {
		if errors.Is(err, resolve.ErrNoData) {
			writeError(w, http.StatusBadGateway, "PROVIDER_ERROR", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	added, err := s.deps.Catalog.Add(r.Context(), rec)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	code := http.StatusCreated
	if !added {
		code = http.StatusOK
	}
	writeJSON(w, code, addResponse{Added: added, Record: *rec})
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	status, err := media.ParseWatchStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", err.Error())
		return
	}

	ok, err := s.deps.Catalog.UpdateStatus(r.Context(), id, status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Record not found")
		return
	}
	s.writeRecord(w, id)
}

func (s *Server) updateSeason(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	season := r.PathValue("season")

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	fn, err := media.ProgressAction(req.Action).Mutator(req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ACTION", err.Error())
		return
	}

	ok, err := s.deps.Catalog.UpdateSeason(r.Context(), id, season, fn)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Series or season not found")
		return
	}
	s.writeRecord(w, id)
}

func (s *Server) removeRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	ok, err := s.deps.Catalog.Remove(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeRecord(w http.ResponseWriter, id int64) {
	rec, ok := s.deps.Catalog.FindByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Record not found")
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results := s.deps.Resolver.Search(r.Context(), q)
	if results == nil {
		results = []resolve.Candidate{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: q, Results: results})
}

func (s *Server) trending(w http.ResponseWriter, r *http.Request) {
	kind := trakt.Kind(r.PathValue("kind"))
	if kind != trakt.Movies && kind != trakt.Shows {
		writeError(w, http.StatusBadRequest, "INVALID_KIND", "kind must be movies or shows")
		return
	}
	list := trakt.Trending
	if v := queryString(r, "list"); v != nil {
		list = trakt.List(*v)
		if list != trakt.Trending && list != trakt.Popular {
			writeError(w, http.StatusBadRequest, "INVALID_LIST", "list must be trending or popular")
			return
		}
	}
	limit := queryInt(r, "limit", 10)

	items, err := s.deps.Discovery.Fetch(r.Context(), kind, list, limit)
	if err != nil {
		s.log.Warn("discovery fetch failed", "kind", kind, "list", list, "error", err)
		writeError(w, http.StatusBadGateway, "PROVIDER_ERROR", err.Error())
		return
	}
	if items == nil {
		items = []trakt.Item{}
	}
	writeJSON(w, http.StatusOK, trendingResponse{Kind: kind, List: list, Items: items})
}

func (s *Server) getStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stats.Compute(s.deps.Catalog.All()))
}
