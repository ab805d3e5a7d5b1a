package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"animelog/internal/microservices/http-api/service"

	"github.com/spf13/cobra"
)

var (
	wlTargetSeason string
	wlTargetYear   int
	wlStatus       string
	watchedSeason  string
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage your watchlist (積みアニメ)",
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add [anilist_id] [title]",
	Short: "Add an anime to the watchlist",
	Args:  cobra.MinimumNArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		anilistID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid AniList ID %q", args[0])
		}
		in := service.WatchlistInput{
			AniListID:    anilistID,
			Title:        strings.Join(args[1:], " "),
			TargetSeason: wlTargetSeason,
		}
		if wlTargetYear > 0 {
			in.TargetYear = &wlTargetYear
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		item, created, err := a.watchlist.Add(ctx, a.store, in)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "ℹ️  %s is already on your watchlist (ID: %s)\n", item.Title, item.ID)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added %s (ID: %s)\n", item.Title, item.ID)
		return nil
	}),
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the watchlist",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		items, err := a.watchlist.List(ctx, a.store, wlStatus)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "📭 Your watchlist is empty")
			return nil
		}
		fmt.Fprintf(out, "📋 Watchlist (%d)\n", len(items))
		for i, item := range items {
			target := ""
			if item.TargetYear != nil && item.TargetSeason != "" {
				target = fmt.Sprintf(" → %d %s", *item.TargetYear, item.TargetSeason)
			}
			fmt.Fprintf(out, "%d. [%s] %s%s (ID: %s)\n", i+1, item.EffectiveStatus(), item.Title, target, item.ID)
		}
		return nil
	}),
}

var watchlistWatchedCmd = &cobra.Command{
	Use:   "watched [id...]",
	Short: "Move watchlist items into the log",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		out := cmd.OutOrStdout()
		failed := 0
		for _, res := range a.watchlist.BulkMarkWatched(ctx, a.store, args, watchedSeason) {
			if res.Error != "" {
				failed++
				fmt.Fprintf(out, "❌ %s: %s\n", res.ID, res.Error)
				continue
			}
			fmt.Fprintf(out, "✅ %s → anime %s\n", res.ID, res.AnimeID)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d items failed", failed, len(args))
		}
		return nil
	}),
}

func init() {
	watchlistAddCmd.Flags().StringVar(&wlTargetSeason, "target-season", "", "冬, 春, 夏 or 秋")
	watchlistAddCmd.Flags().IntVar(&wlTargetYear, "target-year", 0, "target year")
	watchlistListCmd.Flags().StringVar(&wlStatus, "status", "", "planned, watching or completed")
	watchlistWatchedCmd.Flags().StringVar(&watchedSeason, "season", "", "season to log under (default: target or current season)")

	watchlistCmd.AddCommand(watchlistAddCmd, watchlistListCmd, watchlistWatchedCmd)
	rootCmd.AddCommand(watchlistCmd)
}
