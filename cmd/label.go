package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/livedict/internal/database"
	"github.com/example/livedict/internal/dictionary"
	"github.com/example/livedict/pkg/models"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage translation labels",
	Long: `Labels A (RED), B (BLACK), C (YELLOW) and D (GREEN) can be attached to
translations. By default A and B are left out of practice; set
LIVEDICT_EXCLUDED_LABELS to change that.`,
}

var labelAddCmd = &cobra.Command{
	Use:   "add [id] [label]",
	Short: "Attach a label to a translation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeLabel(cmd, args, true)
	},
}

var labelRemoveCmd = &cobra.Command{
	Use:   "remove [id] [label]",
	Short: "Detach a label from a translation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeLabel(cmd, args, false)
	},
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the labels and how many translations carry them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		counts, err := database.NewLabelRepository(a.db).CountByLabel(cmd.Context())
		if err != nil {
			return err
		}

		excluded := make(map[models.Label]bool)
		for _, l := range a.config.ExcludedLabels {
			excluded[l] = true
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Label\tColour\tTranslations\tPracticed")
		for _, l := range models.AllLabels {
			practiced := "yes"
			if excluded[l] {
				practiced = "no"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", l, l.Colour(), counts[l], practiced)
		}
		return w.Flush()
	},
}

func init() {
	labelCmd.AddCommand(labelAddCmd, labelRemoveCmd, labelListCmd)
	rootCmd.AddCommand(labelCmd)
}

func changeLabel(cmd *cobra.Command, args []string, add bool) error {
	ctx := cmd.Context()
	label, err := models.ParseLabel(args[1])
	if err != nil {
		return err
	}
	return withDictionary(ctx, func(_ *app, d *dictionary.Dictionary) error {
		t, err := findByID(ctx, d, args[0])
		if err != nil {
			return err
		}
		if add {
			_, err = d.AddLabel(ctx, t, label)
		} else {
			_, err = d.RemoveLabel(ctx, t, label)
		}
		if err != nil {
			return err
		}

		if add {
			fmt.Fprintf(cmd.OutOrStdout(), "🏷 Labelled '%s' with %s (%s)\n", t, label, label.Colour())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "🏷 Removed %s (%s) from '%s'\n", label, label.Colour(), t)
		}
		return nil
	})
}
