package command

import (
	"context"
	"fmt"
	"time"

	"animelog/internal/dnacard"
	"animelog/internal/microservices/http-api/service"

	"github.com/spf13/cobra"
)

var dnaFormat string

var dnaCmd = &cobra.Command{
	Use:   "dna",
	Short: "Print your anime DNA card",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		format, err := dnacard.ParseFormat(dnaFormat)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		card, err := a.animes.DNACard(ctx, a.store)
		if err != nil {
			return err
		}
		return dnacard.Render(cmd.OutOrStdout(), *card, format)
	}),
}

var rolloverCmd = &cobra.Command{
	Use:   "rollover [backlog|watching|delete]",
	Short: "Check for leftover planned items after a season change",
	Long: `Without arguments, shows the planned items left over from the last season.
With a choice, moves them to the backlog, starts watching them, or deletes them.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{service.ChoiceBacklog, service.ChoiceWatching, service.ChoiceDelete},
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		out := cmd.OutOrStdout()
		now := time.Now()
		if len(args) == 1 {
			n, err := a.rollover.Resolve(ctx, a.store, now, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✅ %d items updated\n", n)
			return nil
		}

		result, err := a.rollover.Check(ctx, a.store, now)
		if err != nil {
			return err
		}
		if !result.Show {
			fmt.Fprintf(out, "Nothing to do for %s\n", result.CurrentSeason)
			return nil
		}
		fmt.Fprintf(out, "🌸 %s → %s: %d planned items left over\n", result.LastSeason, result.CurrentSeason, len(result.Items))
		for _, item := range result.Items {
			fmt.Fprintf(out, "  - %s (ID: %s)\n", item.Title, item.ID)
		}
		fmt.Fprintln(out, "Run `animelog rollover backlog|watching|delete` to resolve.")
		return nil
	}),
}

func init() {
	dnaCmd.Flags().StringVarP(&dnaFormat, "format", "f", "markdown", "json, yaml or markdown")
	rootCmd.AddCommand(dnaCmd, rolloverCmd)
}
