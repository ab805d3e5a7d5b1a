package command

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"animelog/internal/ingestion/anilist"
	"animelog/internal/ingestion/annict"
	"animelog/internal/logging"
	"animelog/internal/search"

	"github.com/spf13/cobra"
)

var (
	searchSeason bool
	searchLimit  int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search AniList and Annict",
	Long: `Search both catalogs and merge the results. With --season the query is a
season name such as 2025年春. Annict is only queried when ANNICT_TOKEN is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(logLevel, "text")
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		svc := search.NewService(
			anilist.NewClient(envOr("ANILIST_API_URL", anilist.DefaultAPIURL)),
			annict.NewClient(envOr("ANNICT_API_URL", annict.DefaultAPIURL), os.Getenv("ANNICT_TOKEN")),
			10*time.Second, logger)

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		query := strings.Join(args, " ")
		var result *search.Result
		if searchSeason {
			result, err = svc.Season(ctx, query)
		} else {
			result, err = svc.Search(ctx, query)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Partial {
			fmt.Fprintf(out, "⚠️  partial results, failed: %s\n", strings.Join(result.Failed, ", "))
		}
		if len(result.Items) == 0 {
			fmt.Fprintln(out, "No results")
			return nil
		}
		for i, item := range result.Items {
			if searchLimit > 0 && i >= searchLimit {
				break
			}
			ids := ""
			if item.AniListID != nil {
				ids += fmt.Sprintf(" anilist:%d", *item.AniListID)
			}
			if item.AnnictID != nil {
				ids += fmt.Sprintf(" annict:%d", *item.AnnictID)
			}
			fmt.Fprintf(out, "%d. %s  %s [%s]%s\n", i+1, item.Title, item.Season, item.Source, ids)
		}
		return nil
	},
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	searchCmd.Flags().BoolVar(&searchSeason, "season", false, "treat the query as a season name")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "max results to print")
	rootCmd.AddCommand(searchCmd)
}
