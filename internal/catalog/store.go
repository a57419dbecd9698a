// Package catalog owns the user's tracked titles and their durable snapshot.
package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vmunix/cinetrack/internal/events"
	"github.com/vmunix/cinetrack/internal/media"
)

// Notifier receives a change event after every successful persist.
// *events.Bus satisfies it.
type Notifier interface {
	Publish(ctx context.Context, e events.Event) error
}

// Store is the authoritative in-memory catalog plus its durable mirror.
//
// Every mutation runs read-modify-persist under one mutex and persists the
// whole catalog before returning. Mutations build a modified copy and only
// swap it in once the snapshot is written, so a failed write leaves the
// catalog untouched.
type Store struct {
	mu      sync.Mutex
	records []*media.Record
	medium  Medium
	notify  Notifier
	log     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets the change notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		s.notify = n
	}
}

// WithLogger sets a logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log.With("component", "catalog")
		}
	}
}

// NewStore creates an empty store over medium. Call Load to read the snapshot.
func NewStore(medium Medium, opts ...Option) *Store {
	s := &Store{
		medium: medium,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory catalog with the durable snapshot.
// A missing or unreadable snapshot resets the catalog to empty and logs a
// warning; Load never fails.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	records, err := s.medium.Load()
	switch {
	case err != nil && isNotExist(err):
		s.log.Warn("no catalog snapshot, starting empty", "error", err)
		records = nil
	case err != nil:
		s.log.Warn("catalog snapshot unreadable, starting empty", "error", err)
		records = nil
	}

	s.records = make([]*media.Record, 0, len(records))
	seen := make(map[int64]bool, len(records))
	for i := range records {
		r := records[i]
		if seen[r.ID] {
			s.log.Warn("dropping duplicate record from snapshot", "id", r.ID, "title", r.Title)
			continue
		}
		seen[r.ID] = true
		r.Normalize()
		s.records = append(s.records, &r)
	}
	size := len(s.records)
	s.mu.Unlock()

	s.log.Info("catalog loaded", "records", size)
	s.publish(ctx, events.NewCatalogChanged(events.ReasonLoaded, 0, size))
}

// Add appends rec and persists. It reports false without touching the
// catalog when a record with the same ID is already present.
func (s *Store) Add(ctx context.Context, rec *media.Record) (bool, error) {
	if rec == nil || !rec.Kind.Valid() {
		return false, nil
	}

	s.mu.Lock()
	if s.indexOf(rec.ID) >= 0 {
		s.mu.Unlock()
		s.log.Debug("record already in catalog", "id", rec.ID, "title", rec.Title)
		return false, nil
	}

	c := rec.Clone()
	c.Normalize()
	next := make([]*media.Record, len(s.records), len(s.records)+1)
	copy(next, s.records)
	next = append(next, &c)

	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	size := len(s.records)
	s.mu.Unlock()

	s.log.Info("record added", "id", c.ID, "title", c.Title, "type", c.Kind)
	s.publish(ctx, events.NewCatalogChanged(events.ReasonAdded, c.ID, size))
	return true, nil
}

// All returns a snapshot copy of every record in catalog order.
func (s *Store) All() []media.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// FindByID returns a copy of the record with the given ID.
func (s *Store) FindByID(id int64) (media.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return media.Record{}, false
	}
	return s.records[i].Clone(), true
}

// Contains reports whether id is tracked.
func (s *Store) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// UpdateStatus sets the watch status of a record and persists.
// Reports false when id is absent or status is not a known value.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status media.WatchStatus) (bool, error) {
	if !status.Valid() {
		return false, nil
	}
	return s.update(ctx, id, events.ReasonStatusChanged, func(r *media.Record) bool {
		r.Status = status
		return true
	})
}

// UpdateSeasons replaces a series' seasons map wholesale and persists.
// Reports false when id is absent or the record is not a series.
func (s *Store) UpdateSeasons(ctx context.Context, id int64, seasons map[string]*media.SeasonProgress) (bool, error) {
	cloned := media.CloneSeasons(seasons)
	return s.update(ctx, id, events.ReasonSeasons, func(r *media.Record) bool {
		if !r.IsSeries() {
			return false
		}
		if cloned == nil {
			cloned = make(map[string]*media.SeasonProgress)
		}
		r.Series.Seasons = cloned
		r.Normalize()
		return true
	})
}

// UpdateSeason applies fn to one season's progress and persists.
// Reports false when the record or season does not exist.
func (s *Store) UpdateSeason(ctx context.Context, id int64, season string, fn func(*media.SeasonProgress)) (bool, error) {
	return s.update(ctx, id, events.ReasonSeasons, func(r *media.Record) bool {
		sp, ok := r.Season(season)
		if !ok {
			return false
		}
		fn(sp)
		r.Normalize()
		return true
	})
}

// Remove deletes a record and persists. Reports false when id is absent.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}

	next := make([]*media.Record, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	next = append(next, s.records[i+1:]...)

	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	size := len(s.records)
	s.mu.Unlock()

	s.log.Info("record removed", "id", id)
	s.publish(ctx, events.NewCatalogChanged(events.ReasonRemoved, id, size))
	return true, nil
}

// update runs mutate on a copy of record id. mutate returning false aborts
// without persisting.
func (s *Store) update(ctx context.Context, id int64, reason events.ChangeReason, mutate func(*media.Record) bool) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}

	c := s.records[i].Clone()
	if !mutate(&c) {
		s.mu.Unlock()
		return false, nil
	}

	next := make([]*media.Record, len(s.records))
	copy(next, s.records)
	next[i] = &c

	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	size := len(s.records)
	s.mu.Unlock()

	s.log.Debug("record updated", "id", id, "reason", reason)
	s.publish(ctx, events.NewCatalogChanged(reason, id, size))
	return true, nil
}

// commit persists next and, on success, makes it the live catalog.
// Caller holds s.mu.
func (s *Store) commit(next []*media.Record) error {
	snap := make([]media.Record, len(next))
	for i, r := range next {
		snap[i] = *r
	}
	if err := s.medium.Save(snap); err != nil {
		s.log.Error("failed to persist catalog", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.records = next
	return nil
}

func (s *Store) publish(ctx context.Context, e events.Event) {
	if s.notify == nil {
		return
	}
	if err := s.notify.Publish(ctx, e); err != nil {
		s.log.Warn("failed to publish catalog change", "error", err)
	}
}

// caller holds s.mu
func (s *Store) indexOf(id int64) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// caller holds s.mu
func (s *Store) snapshot() []media.Record {
	out := make([]media.Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}
