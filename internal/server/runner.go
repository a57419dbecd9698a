// Package server runs the daemon: the HTTP API, the websocket push loop and
// periodic database housekeeping.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Defaults applied by NewRunner.
const (
	DefaultPruneInterval  = time.Hour
	DefaultEventRetention = 90 * 24 * time.Hour
	shutdownTimeout       = 5 * time.Second
)

// API is the HTTP surface plus its background push loop.
type API interface {
	Handler() http.Handler
	Run(ctx context.Context) error
}

// CachePruner removes expired metadata cache entries.
type CachePruner interface {
	Prune(ctx context.Context) (int64, error)
}

// EventPruner removes events older than a retention window.
type EventPruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Config for the daemon.
type Config struct {
	Addr           string
	PruneInterval  time.Duration
	EventRetention time.Duration
}

// Runner manages the daemon components.
type Runner struct {
	api    API
	cache  CachePruner // optional
	events EventPruner // optional
	config Config
	logger *slog.Logger
}

// NewRunner creates a new runner. cache and events may be nil.
func NewRunner(api API, cache CachePruner, events EventPruner, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = DefaultPruneInterval
	}
	if cfg.EventRetention <= 0 {
		cfg.EventRetention = DefaultEventRetention
	}
	return &Runner{
		api:    api,
		cache:  cache,
		events: events,
		config: cfg,
		logger: logger.With("component", "server"),
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return err
	}
	return r.Serve(ctx, ln)
}

// Serve runs every component on ln until ctx is canceled or one of them
// fails. A clean shutdown returns nil.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return r.api.Run(ctx)
	})

	g.Go(func() error {
		r.housekeeping(ctx)
		return nil
	})

	return g.Wait()
}

// housekeeping prunes once at start and then every PruneInterval.
func (r *Runner) housekeeping(ctx context.Context) {
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	for {
		r.prune(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Runner) prune(ctx context.Context) {
	if r.cache != nil {
		n, err := r.cache.Prune(ctx)
		if err != nil {
			r.logger.Warn("cache prune failed", "error", err)
		} else if n > 0 {
			r.logger.Debug("pruned cache entries", "count", n)
		}
	}
	if r.events != nil {
		n, err := r.events.Prune(ctx, r.config.EventRetention)
		if err != nil {
			r.logger.Warn("event prune failed", "error", err)
		} else if n > 0 {
			r.logger.Debug("pruned events", "count", n)
		}
	}
}
