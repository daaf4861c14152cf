package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/livedict/internal/database"
	"github.com/example/livedict/internal/dictionary"
	"github.com/example/livedict/pkg/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDictionary(ctx, func(a *app, d *dictionary.Dictionary) error {
			summary := d.Summary()
			t := summary.At.UTC()
			since := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			stats, err := database.NewStatisticsRepository(a.db).Get(ctx, since)
			if err != nil {
				return err
			}
			counts, err := database.NewLabelRepository(a.db).CountByLabel(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "📊 Dictionary")
			fmt.Fprintf(out, "  Translations:  %d\n", summary.Total)
			fmt.Fprintf(out, "  Excluded:      %d\n", summary.Excluded)
			fmt.Fprintf(out, "  Due now:       %d\n", summary.Eligible)
			fmt.Fprintf(out, "  Resting:       %d\n", summary.Resting)
			fmt.Fprintf(out, "  Difficult:     %d\n", summary.Difficult)
			if !summary.NextUnlock.IsZero() {
				fmt.Fprintf(out, "  Next unlock:   %s\n", summary.NextUnlock.Local().Format("2006-01-02 15:04"))
			}

			fmt.Fprintln(out, "\n📝 Answers")
			fmt.Fprintf(out, "  Total:         %d\n", stats.TotalAnswers)
			fmt.Fprintf(out, "  Correct:       %d (%d%%)\n", stats.CorrectAnswers, stats.Accuracy())
			fmt.Fprintf(out, "  Incorrect:     %d\n", stats.IncorrectAnswers)
			fmt.Fprintf(out, "  Today (UTC):   %d\n", stats.AnsweredToday)

			fmt.Fprintln(out, "\n🏷 Labels")
			for _, l := range models.AllLabels {
				fmt.Fprintf(out, "  %s %-8s %d\n", l, l.Colour(), counts[l])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
