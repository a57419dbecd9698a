package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	v1 "github.com/vmunix/cinetrack/internal/api/v1"
	"github.com/vmunix/cinetrack/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over HTTP",
	Long: `Serve the catalog over HTTP.

The REST API lives under /api/v1; /api/v1/ws pushes a message on every
catalog change. Expired cache entries and old events are pruned hourly.`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runApp(ctx, false, func(a *app) error {
		return serve(ctx, a, addr)
	})
}

func serve(ctx context.Context, a *app, addr string) error {
	if addr == "" {
		addr = a.cfg.Server.Addr()
	}

	api, err := v1.NewWithDeps(a.apiDeps(), a.log)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	a.log.Info("starting cinetrack",
		"version", version,
		"catalog", a.cfg.Catalog.Path,
		"database", a.cfg.Database.Path,
		"records", a.store.Len(),
		"tmdb", a.resolver != nil,
		"trakt", a.discovery != nil,
	)

	runner := server.NewRunner(api, a.cache, a.eventLog, server.Config{Addr: addr}, a.log)
	return runner.Run(ctx)
}
