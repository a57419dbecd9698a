package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/cinetrack/internal/catalog"
	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/internal/stats"
)

func init() {
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tracked titles",
		Long: `List tracked titles.

Sort orders: title, title-desc, newest, oldest, rating, rating-asc.`,
		RunE: runListCmd,
	}
	listCmd.Flags().StringP("status", "s", "", "Filter by status (watching, completed, plan, dropped)")
	listCmd.Flags().StringP("type", "t", "", "Filter by type (movie, series)")
	listCmd.Flags().StringP("query", "q", "", "Filter by title")
	listCmd.Flags().String("sort", "", "Sort order")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a tracked title",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,

		ValidArgsFunction: completeRecordArgs,
	}

	statusCmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set the watch status of a title",
		Long: `Set the watch status of a title.

Statuses: watching, completed, plan, dropped.`,
		Args: cobra.ExactArgs(2),
		RunE: runStatusCmd,

		ValidArgsFunction: completeRecordArgs,
	}

	removeCmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a title from your list",
		Args:    cobra.ExactArgs(1),
		RunE:    runRemoveCmd,

		ValidArgsFunction: completeRecordArgs,
	}

	progressCmd := &cobra.Command{
		Use:   "progress <id> <season> <inc|dec|all|none|set> [n]",
		Short: "Update season progress of a series",
		Long: `Update season progress of a series.

Examples:
  cinetrack progress 1396 1 inc
  cinetrack progress 1396 2 all
  cinetrack progress 1396 3 set 5`,
		Args: cobra.RangeArgs(3, 4),
		RunE: runProgressCmd,

		ValidArgsFunction: completeRecordArgs,
	}

	rootCmd.AddCommand(listCmd, showCmd, statusCmd, removeCmd, progressCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseKind(s string) (media.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return media.KindMovie, nil
	case "series", "show", "shows", "tv":
		return media.KindSeries, nil
	}
	return "", fmt.Errorf("unknown type %q (want movie or series)", s)
}

// listFilter builds a catalog filter from the list command flags.
func listFilter(cmd *cobra.Command) (catalog.Filter, error) {
	var f catalog.Filter
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		st, err := media.ParseWatchStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	if v, _ := cmd.Flags().GetString("type"); v != "" {
		k, err := parseKind(v)
		if err != nil {
			return f, err
		}
		f.Kind = &k
	}
	f.Query, _ = cmd.Flags().GetString("query")
	v, _ := cmd.Flags().GetString("sort")
	order, err := catalog.ParseSortOrder(v)
	if err != nil {
		return f, err
	}
	f.Sort = order
	return f, nil
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	f, err := listFilter(cmd)
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), func(a *app) error {
		items := a.store.List(f)
		out := cmd.OutOrStdout()
		if jsonOutput {
			if items == nil {
				items = []media.Record{}
			}
			printJSON(out, map[string]any{"items": items, "total": len(items)})
			return nil
		}
		printRecords(out, items)
		return nil
	})
}

func printRecords(w io.Writer, items []media.Record) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Your list is empty.")
		return
	}

	fmt.Fprintf(w, "%-8s │ %-36s │ %4s │ %-6s │ %-13s │ %s\n", "ID", "TITLE", "YEAR", "TYPE", "STATUS", "PROGRESS")
	fmt.Fprintln(w, "─────────┼──────────────────────────────────────┼──────┼────────┼───────────────┼────────────────")
	for i := range items {
		r := &items[i]
		progress := ""
		if r.IsSeries() {
			watched, total := stats.SeriesProgress(r)
			progress = fmt.Sprintf("%s %d/%d", progressBar(watched, total, 10), watched, total)
		}
		fmt.Fprintf(w, "%-8d │ %-36s │ %4s │ %-6s │ %-13s │ %s\n",
			r.ID, truncate(r.Title, 36), yearOrDash(r.Year), kindLabel(r.Kind), r.Status, progress)
	}
	fmt.Fprintf(w, "\n%d titles\n", len(items))
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), func(a *app) error {
		rec, ok := a.store.FindByID(id)
		if !ok {
			return fmt.Errorf("title %d is not in your list", id)
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			printJSON(out, rec)
			return nil
		}
		printRecord(out, &rec)
		return nil
	})
}

func printRecord(w io.Writer, r *media.Record) {
	fmt.Fprintf(w, "%s (%s)\n", r.Title, yearOrDash(r.Year))
	fmt.Fprintf(w, "  ID:       %d\n", r.ID)
	fmt.Fprintf(w, "  Type:     %s\n", kindLabel(r.Kind))
	fmt.Fprintf(w, "  Status:   %s\n", r.Status)
	fmt.Fprintf(w, "  Rating:   %s\n", formatRating(r.Rating))
	if len(r.Genres) > 0 {
		fmt.Fprintf(w, "  Genres:   %s\n", strings.Join(r.Genres, ", "))
	}
	if r.IMDBID != nil {
		fmt.Fprintf(w, "  IMDb:     %s\n", *r.IMDBID)
	}
	if rt := r.Runtime(); rt > 0 {
		fmt.Fprintf(w, "  Runtime:  %d min\n", rt)
	}
	if r.IsSeries() {
		if rt := r.FirstEpisodeRuntime(); rt > 0 {
			fmt.Fprintf(w, "  Episode:  %d min\n", rt)
		}
		if r.Series.ProductionStatus != nil {
			fmt.Fprintf(w, "  Airing:   %s\n", *r.Series.ProductionStatus)
		}
		keys := r.SeasonKeys()
		if len(keys) > 0 {
			fmt.Fprintln(w, "\n  Seasons:")
			for _, k := range keys {
				sp, _ := r.Season(k)
				mark := ""
				if sp.Complete() {
					mark = " ✓"
				}
				fmt.Fprintf(w, "    %-4s %s %d/%d%s\n", k, progressBar(sp.EpisodesWatched, sp.TotalEpisodes, 20),
					sp.EpisodesWatched, sp.TotalEpisodes, mark)
			}
		}
	}
	if r.Overview != "" {
		fmt.Fprintf(w, "\n  %s\n", r.Overview)
	}
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	status, err := media.ParseWatchStatus(args[1])
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), func(a *app) error {
		ok, err := a.store.UpdateStatus(cmd.Context(), id, status)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("title %d is not in your list", id)
		}
		return printUpdated(cmd.OutOrStdout(), a, id)
	})
}

func runRemoveCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), func(a *app) error {
		rec, found := a.store.FindByID(id)
		ok, err := a.store.Remove(cmd.Context(), id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			printJSON(out, map[string]any{"removed": ok, "id": id})
			return nil
		}
		if !ok || !found {
			return fmt.Errorf("title %d is not in your list", id)
		}
		fmt.Fprintf(out, "Removed %s\n", rec.Title)
		return nil
	})
}

func runProgressCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	season := args[1]
	action := media.ProgressAction(strings.ToLower(args[2]))

	var n int
	if action == media.ActionSet {
		if len(args) != 4 {
			return fmt.Errorf("set needs an episode count")
		}
		if n, err = strconv.Atoi(args[3]); err != nil {
			return fmt.Errorf("invalid episode count %q", args[3])
		}
	}
	fn, err := action.Mutator(n)
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app) error {
		ok, err := a.store.UpdateSeason(cmd.Context(), id, season, fn)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("series %d has no season %s in your list", id, season)
		}
		return printUpdated(cmd.OutOrStdout(), a, id)
	})
}

func printUpdated(w io.Writer, a *app, id int64) error {
	rec, ok := a.store.FindByID(id)
	if !ok {
		return fmt.Errorf("title %d is not in your list", id)
	}
	if jsonOutput {
		printJSON(w, rec)
		return nil
	}
	printRecord(w, &rec)
	return nil
}
