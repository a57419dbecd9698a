package v1

import (
	"context"
	"errors"

	"github.com/vmunix/cinetrack/internal/catalog"
	"github.com/vmunix/cinetrack/internal/events"
	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/internal/resolve"
	"github.com/vmunix/cinetrack/internal/upcoming"
	"github.com/vmunix/cinetrack/pkg/trakt"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Resolver finds candidates and expands them into records.
type Resolver interface {
	Search(ctx context.Context, query string) []resolve.Candidate
	Expand(ctx context.Context, c resolve.Candidate) (*media.Record, error)
}

// Projector computes upcoming episodes for a set of records.
type Projector interface {
	Project(ctx context.Context, records []media.Record) []upcoming.Episode
}

// Discovery lists trending and popular titles.
type Discovery interface {
	Fetch(ctx context.Context, kind trakt.Kind, list trakt.List, limit int) ([]trakt.Item, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Catalog *catalog.Store

	// Optional dependencies (nil if not configured)
	Resolver  Resolver
	Upcoming  Projector
	Discovery Discovery
	Bus       *events.Bus      // push channel source
	EventLog  *events.EventLog // event audit log
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Catalog == nil {
		return errors.New("catalog store is required")
	}
	return nil
}
