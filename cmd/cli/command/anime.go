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
	addSeason string
	addRating int
	addTags   []string
	backfill  bool
)

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "Show your log grouped by season",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		groups, err := a.animes.Seasons(ctx, a.store, backfill)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(groups) == 0 {
			fmt.Fprintln(out, "📺 Your log is empty")
			return nil
		}
		for _, year := range groups {
			for _, bucket := range year.Seasons {
				if len(bucket.Items) == 0 {
					continue
				}
				fmt.Fprintf(out, "%s (%d)\n", bucket.Name, len(bucket.Items))
				for _, anime := range bucket.Items {
					fmt.Fprintf(out, "  %s  %s  [%s]\n", stars(anime.Rating), anime.Title, anime.ID)
				}
			}
		}
		return nil
	}),
}

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Log a watched anime",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		anime, err := a.animes.Add(ctx, a.store, service.AnimeInput{
			Title:      strings.Join(args, " "),
			Rating:     addRating,
			Watched:    true,
			Tags:       addTags,
			SeasonName: addSeason,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Logged %s in %s (ID: %s)\n", anime.Title, anime.SeasonName, anime.ID)
		return nil
	}),
}

var rateCmd = &cobra.Command{
	Use:   "rate [anime_id] [1-5]",
	Short: "Rate a logged anime",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rating %q", args[1])
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		anime, err := a.animes.Rate(ctx, a.store, args[0], rating)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s %s\n", anime.Title, stars(anime.Rating))
		return nil
	}),
}

func stars(rating int) string {
	if rating <= 0 {
		return "-----"
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func init() {
	seasonsCmd.Flags().BoolVar(&backfill, "backfill", false, "include empty seasons")
	addCmd.Flags().StringVar(&addSeason, "season", "", "season such as 2024年秋 (default: current season)")
	addCmd.Flags().IntVar(&addRating, "rating", 0, "rating 1-5")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "tag, repeatable")

	rootCmd.AddCommand(seasonsCmd, addCmd, rateCmd)
}
