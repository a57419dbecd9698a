package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/cinetrack/internal/events"
	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/internal/stats"
	"github.com/vmunix/cinetrack/internal/upcoming"
	"github.com/vmunix/cinetrack/pkg/trakt"
)

func init() {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show watch statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}

	upcomingCmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show upcoming episodes of the series you follow",
		Long: `Show upcoming episodes of the series you follow.

Series marked Watching or Plan to Watch are looked up on TVmaze.
Schedules are cached for six hours; --refresh drops the cached schedules first.`,
		Args: cobra.NoArgs,
		RunE: runUpcomingCmd,
	}
	upcomingCmd.Flags().Bool("refresh", false, "Refetch schedules instead of using the cache")

	trendingCmd := &cobra.Command{
		Use:       "trending [movies|shows]",
		Short:     "Show trending titles from Trakt",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(trakt.Movies), string(trakt.Shows)},
		RunE:      runTrendingCmd,
	}
	trendingCmd.Flags().Bool("popular", false, "Show the popular list instead of trending")
	trendingCmd.Flags().IntP("limit", "l", 10, "Number of titles")

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent catalog events",
		Args:  cobra.NoArgs,
		RunE:  runEventsCmd,
	}
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")

	rootCmd.AddCommand(statsCmd, upcomingCmd, trendingCmd, eventsCmd)
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		s := stats.Compute(a.store.All())
		out := cmd.OutOrStdout()
		if jsonOutput {
			printJSON(out, s)
			return nil
		}
		printStats(out, s)
		return nil
	})
}

func printStats(w io.Writer, s stats.Summary) {
	fmt.Fprintln(w, "Watch statistics")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	fmt.Fprintf(w, "  Watch time:        %s\n", s.WatchTime)
	fmt.Fprintf(w, "  Titles tracked:    %d\n", s.TotalItems)
	fmt.Fprintf(w, "  Movies completed:  %d\n", s.CompletedMovies)
	fmt.Fprintf(w, "  Shows completed:   %d\n", s.CompletedSeries)
	fmt.Fprintf(w, "  Episodes watched:  %d\n", s.EpisodesWatched)

	fmt.Fprintln(w, "\nBy status:")
	for _, st := range media.Statuses {
		fmt.Fprintf(w, "  %-15s %d\n", st, s.StatusCounts[st])
	}

	if len(s.Genres) > 0 {
		fmt.Fprintln(w, "\nTop genres:")
		for i, g := range s.Genres {
			if i == 5 {
				break
			}
			fmt.Fprintf(w, "  %-15s %d\n", g.Name, g.Count)
		}
	}
}

func runUpcomingCmd(cmd *cobra.Command, _ []string) error {
	refresh, _ := cmd.Flags().GetBool("refresh")
	return withApp(cmd.Context(), func(a *app) error {
		ctx := cmd.Context()
		records := a.store.All()

		if refresh {
			for i := range records {
				r := &records[i]
				if !upcoming.Tracked(r) {
					continue
				}
				matches, err := a.schedule.SearchShows(ctx, r.Title)
				if err != nil || len(matches) == 0 {
					continue
				}
				if err := a.schedule.InvalidateShow(ctx, matches[0].Show.ID); err != nil {
					a.log.Warn("cache invalidation failed", "title", r.Title, "error", err)
				}
			}
		}

		eps := a.projector.Project(ctx, records)
		out := cmd.OutOrStdout()
		if jsonOutput {
			if eps == nil {
				eps = []upcoming.Episode{}
			}
			printJSON(out, map[string]any{"items": eps, "total": len(eps)})
			return nil
		}
		printUpcoming(out, eps)
		return nil
	})
}

func printUpcoming(w io.Writer, eps []upcoming.Episode) {
	if len(eps) == 0 {
		fmt.Fprintln(w, "No upcoming episodes.")
		return
	}
	fmt.Fprintf(w, "%-10s │ %-28s │ %-7s │ %s\n", "DATE", "SHOW", "EP", "TITLE")
	fmt.Fprintln(w, "───────────┼──────────────────────────────┼─────────┼────────────────────────")
	for _, e := range eps {
		ep := fmt.Sprintf("S%02dE%02d", e.SeasonNumber, e.EpisodeNumber)
		if e.EpisodeNumber == 0 {
			ep = fmt.Sprintf("S%02d SP", e.SeasonNumber)
		}
		fmt.Fprintf(w, "%-10s │ %-28s │ %-7s │ %s\n", e.AirDate, truncate(e.ShowTitle, 28), ep, truncate(e.EpisodeName, 40))
	}
}

func runTrendingCmd(cmd *cobra.Command, args []string) error {
	kind := trakt.Movies
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "movies", "movie":
		case "shows", "show", "series", "tv":
			kind = trakt.Shows
		default:
			return fmt.Errorf("unknown kind %q (want movies or shows)", args[0])
		}
	}
	list := trakt.Trending
	if popular, _ := cmd.Flags().GetBool("popular"); popular {
		list = trakt.Popular
	}
	limit, _ := cmd.Flags().GetInt("limit")

	return withApp(cmd.Context(), func(a *app) error {
		if a.discovery == nil {
			return fmt.Errorf("trakt client id not configured (set TRAKT_API_KEY or providers.trakt.api_key)")
		}
		items, err := a.discovery.Fetch(cmd.Context(), kind, list, limit)
		if err != nil {
			return fmt.Errorf("fetch %s %s: %w", list, kind, err)
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			printJSON(out, items)
			return nil
		}
		printTrending(out, list, kind, items, a.store.Contains)
		return nil
	})
}

func printTrending(w io.Writer, list trakt.List, kind trakt.Kind, items []trakt.Item, tracked func(int64) bool) {
	if len(items) == 0 {
		fmt.Fprintf(w, "No %s %s.\n", list, kind)
		return
	}
	fmt.Fprintf(w, "%s %s:\n\n", strings.ToUpper(string(list[:1]))+string(list[1:]), kind)
	for i, it := range items {
		year := "----"
		if it.Year != nil {
			year = fmt.Sprintf("%d", *it.Year)
		}
		line := fmt.Sprintf(" %2d. %-40s %s", i+1, truncate(it.Title.Title, 40), year)
		if it.Watchers > 0 {
			line += fmt.Sprintf("  %d watching", it.Watchers)
		}
		if it.IDs.TMDB != nil {
			line += fmt.Sprintf("  tmdb:%d", *it.IDs.TMDB)
			if tracked != nil && tracked(*it.IDs.TMDB) {
				line += " ✓"
			}
		}
		fmt.Fprintln(w, line)
	}
}

func runEventsCmd(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	return withApp(cmd.Context(), func(a *app) error {
		items, total, err := a.eventLog.Recent(cmd.Context(), limit, 0)
		if err != nil {
			return fmt.Errorf("failed to fetch events: %w", err)
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			printJSON(out, map[string]any{"items": items, "total": total})
			return nil
		}
		printEvents(out, items, total)
		return nil
	})
}

func printEvents(w io.Writer, items []events.RawEvent, total int) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}

	fmt.Fprintf(w, "Recent Events (%d):\n\n", total)
	fmt.Fprintf(w, "  %-12s %-18s %-15s %s\n", "TIME", "TYPE", "ENTITY", "REASON")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 60))

	for _, e := range items {
		ago := formatTimeAgo(e.OccurredAt.Unix())
		entity := fmt.Sprintf("%s/%d", e.EntityType, e.EntityID)
		reason := ""
		if ev, err := events.Decode(e); err == nil {
			if cc, ok := ev.(*events.CatalogChanged); ok {
				reason = string(cc.Reason)
			}
		}
		fmt.Fprintf(w, "  %-12s %-18s %-15s %s\n", ago, e.EventType, entity, reason)
	}
}
