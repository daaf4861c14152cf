package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/livedict/internal/database"
	"github.com/example/livedict/internal/dictionary"
	"github.com/example/livedict/internal/spaced_repetition"
	"github.com/example/livedict/pkg/models"
)

var (
	listLabel  string
	listSearch string
)

var addCmd = &cobra.Command{
	Use:   "add [foreign] [native]",
	Short: "Add a translation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDictionary(ctx, func(_ *app, d *dictionary.Dictionary) error {
			t := models.NewTranslation(args[0], args[1])
			created, err := d.Insert(ctx, t)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "ℹ️ '%s' is already in the dictionary\n", t)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Added '%s'\n", t)
			return nil
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [id] [foreign] [native]",
	Short: "Change the words of a translation",
	Long: `Change the words of a translation. If another translation already has
the new words, the edited one is merged into it.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDictionary(ctx, func(_ *app, d *dictionary.Dictionary) error {
			t, err := findByID(ctx, d, args[0])
			if err != nil {
				return err
			}
			t.ForeignWord, t.NativeWord = args[1], args[2]
			updated, err := d.Update(ctx, t)
			if err != nil {
				return err
			}
			if !updated {
				return errors.Errorf("translation %d was not updated", t.ID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🔄 Updated %d to '%s'\n", t.ID, t)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a translation with its answers and labels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDictionary(ctx, func(_ *app, d *dictionary.Dictionary) error {
			t, err := findByID(ctx, d, args[0])
			if err != nil {
				return err
			}
			if err := d.Delete(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑 Deleted '%s'\n", t)
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored translations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDictionary(ctx, func(a *app, d *dictionary.Dictionary) error {
			var (
				translations []models.Translation
				err          error
			)
			switch {
			case listLabel != "":
				label, perr := models.ParseLabel(listLabel)
				if perr != nil {
					return perr
				}
				translations, err = d.Labelled(ctx, label)
			case listSearch != "":
				translations, err = searchTranslations(cmd, a, d, listSearch)
			default:
				translations, err = d.All(ctx)
			}
			if err != nil {
				return err
			}
			printTranslations(cmd, translations)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd, editCmd, deleteCmd, listCmd)

	listCmd.Flags().StringVarP(&listLabel, "label", "l", "", "Only translations with this label (A-D or colour)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only translations containing this text")
}

// searchTranslations matches in storage, then takes answers and labels from
// the full listing
func searchTranslations(cmd *cobra.Command, a *app, d *dictionary.Dictionary, pattern string) ([]models.Translation, error) {
	ctx := cmd.Context()
	found, err := database.NewTranslationRepository(a.db).Search(ctx, pattern)
	if err != nil {
		return nil, err
	}
	all, err := d.All(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Translation, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}
	for i, t := range found {
		if full, ok := byID[t.ID]; ok {
			found[i] = full
		}
	}
	return found, nil
}

func printTranslations(cmd *cobra.Command, translations []models.Translation) {
	reminder := spaced_repetition.NewReminder()
	at := now.Now()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tForeign\tNative\tLabels\tAnswers\tStatus")
	fmt.Fprintln(w, "--\t-------\t------\t------\t-------\t------")
	for _, t := range translations {
		labels := make([]string, len(t.Metadata.Labels))
		for i, l := range t.Metadata.Labels {
			labels[i] = l.String()
		}

		correct := 0
		for _, a := range t.Metadata.Answers {
			if a.Outcome == models.Correct {
				correct++
			}
		}

		status := "due"
		if p := reminder.Evaluate(t.Metadata.Answers); p.RestrictedAt(at) {
			status = fmt.Sprintf("level %d until %s", p.Level, p.RestrictedUntil().Local().Format("2006-01-02 15:04"))
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\t%s\n",
			t.ID, t.ForeignWord, t.NativeWord, strings.Join(labels, ","), correct, len(t.Metadata.Answers), status)
	}
	w.Flush()
}
