package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/cinetrack/internal/api/v1"
	"github.com/vmunix/cinetrack/internal/catalog"
	"github.com/vmunix/cinetrack/internal/config"
	"github.com/vmunix/cinetrack/internal/events"
	"github.com/vmunix/cinetrack/internal/metadata"
	"github.com/vmunix/cinetrack/internal/migrations"
	"github.com/vmunix/cinetrack/internal/resolve"
	"github.com/vmunix/cinetrack/internal/tmdb"
	"github.com/vmunix/cinetrack/internal/upcoming"
	"github.com/vmunix/cinetrack/pkg/omdb"
	"github.com/vmunix/cinetrack/pkg/trakt"
	"github.com/vmunix/cinetrack/pkg/tvmaze"
)

// errNoTMDB is returned by commands that need the primary provider.
var errNoTMDB = errors.New("TMDB API key not configured (set TMDB_API_KEY or providers.tmdb.api_key)")

// app holds the wired core for one CLI invocation.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	db       *sql.DB
	bus      *events.Bus
	eventLog *events.EventLog
	cache    *metadata.Cache
	store    *catalog.Store

	resolver  *resolve.Resolver    // nil without a TMDB key
	projector *upcoming.Projector
	schedule  *metadata.ScheduleService
	discovery *trakt.Client // nil without a Trakt key
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig resolves the config file: --config, then discovery, then
// built-in defaults.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrations.Apply(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// newApp wires the catalog, event log, cache and providers from cfg and
// loads the catalog snapshot.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, db: db}
	a.eventLog = events.NewEventLog(db)
	a.bus = events.NewBus(a.eventLog, log.With("component", "bus"))
	a.cache = metadata.NewCache(db)
	a.store = catalog.NewStore(
		catalog.NewFileMedium(cfg.Catalog.Path),
		catalog.WithNotifier(a.bus),
		catalog.WithLogger(log),
	)

	p := cfg.Providers
	if p.TMDB.Enabled() {
		opts := []tmdb.Option{tmdb.WithTimeout(p.TMDB.Timeout), tmdb.WithLogger(log)}
		if p.TMDB.BaseURL != "" {
			opts = append(opts, tmdb.WithBaseURL(p.TMDB.BaseURL))
		}
		ropts := []resolve.Option{resolve.WithLogger(log)}
		if p.OMDb.Enabled() {
			oopts := []omdb.Option{omdb.WithTimeout(p.OMDb.Timeout), omdb.WithLogger(log)}
			if p.OMDb.BaseURL != "" {
				oopts = append(oopts, omdb.WithBaseURL(p.OMDb.BaseURL))
			}
			ropts = append(ropts, resolve.WithSecondary(omdb.New(p.OMDb.APIKey, oopts...)))
		}
		a.resolver = resolve.New(tmdb.NewClient(p.TMDB.APIKey, opts...), ropts...)
	}

	topts := []tvmaze.Option{tvmaze.WithTimeout(p.TVMaze.Timeout), tvmaze.WithLogger(log)}
	if p.TVMaze.BaseURL != "" {
		topts = append(topts, tvmaze.WithBaseURL(p.TVMaze.BaseURL))
	}
	a.schedule = metadata.NewScheduleService(tvmaze.New(topts...), a.cache, log)
	a.projector = upcoming.New(a.schedule,
		upcoming.WithConcurrency(cfg.Upcoming.Concurrency),
		upcoming.WithLogger(log),
	)

	if p.Trakt.Enabled() {
		kopts := []trakt.Option{trakt.WithTimeout(p.Trakt.Timeout), trakt.WithLogger(log)}
		if p.Trakt.BaseURL != "" {
			kopts = append(kopts, trakt.WithBaseURL(p.Trakt.BaseURL))
		}
		a.discovery = trakt.New(p.Trakt.APIKey, kopts...)
	}

	a.store.Load(ctx)
	return a, nil
}

// apiDeps exposes the wired core to the HTTP API. Optional providers stay
// nil interfaces when unconfigured.
func (a *app) apiDeps() v1.ServerDeps {
	deps := v1.ServerDeps{
		Catalog:  a.store,
		Upcoming: a.projector,
		Bus:      a.bus,
		EventLog: a.eventLog,
	}
	if a.resolver != nil {
		deps.Resolver = a.resolver
	}
	if a.discovery != nil {
		deps.Discovery = a.discovery
	}
	return deps
}

func (a *app) Close() error {
	_ = a.bus.Close()
	return a.db.Close()
}

// withApp loads config, wires the app and runs fn with it. Interactive
// commands log warnings and above unless --verbose is set.
func withApp(ctx context.Context, fn func(*app) error) error {
	return runApp(ctx, true, fn)
}

func runApp(ctx context.Context, quiet bool, fn func(*app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	level := parseLogLevel(cfg.Server.LogLevel)
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet && level < slog.LevelWarn:
		level = slog.LevelWarn
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func (a *app) requireResolver() error {
	if a.resolver == nil {
		return errNoTMDB
	}
	return nil
}
