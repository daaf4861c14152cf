package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/livedict/internal/dictionary"
	"github.com/example/livedict/pkg/models"
)

var quizLimit int

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Practice translations in the terminal",
	Long: `Start a practice session. Each question shows the foreign word; press
Enter to reveal the translation, then answer y if you knew it or n if you
didn't. Type q to stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDictionary(cmd.Context(), func(_ *app, d *dictionary.Dictionary) error {
			return runQuiz(cmd, d, quizLimit)
		})
	},
}

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.Flags().IntVarP(&quizLimit, "limit", "n", 0, "Stop after this many questions (0 means no limit)")
}

func runQuiz(cmd *cobra.Command, d *dictionary.Dictionary, limit int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	correct, answered := 0, 0
	defer func() {
		if answered > 0 {
			fmt.Fprintf(out, "\n🎉 Session complete: %d/%d correct\n", correct, answered)
		}
	}()

	for limit <= 0 || answered < limit {
		t, err := d.GetRandomTranslation()
		if errors.Is(err, dictionary.ErrPoolExhausted) {
			fmt.Fprintln(out, describeExhausted(d.Summary()))
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "\n========================================")
		fmt.Fprintf(out, "❓ %s\n", t.ForeignWord)
		fmt.Fprint(out, "Press Enter to reveal (q to quit)...")
		input, err := reader.ReadString('\n')
		if strings.TrimSpace(input) == "q" {
			return nil
		}
		if err != nil {
			return ignoreEOF(err)
		}
		fmt.Fprintf(out, "💡 %s\n", t.NativeWord)

		outcome, quit, err := readOutcome(reader, out)
		if err != nil {
			return ignoreEOF(err)
		}
		if quit {
			return nil
		}

		if _, err := d.Mark(ctx, t, outcome); err != nil {
			return err
		}
		answered++
		if outcome == models.Correct {
			correct++
		}
	}
	return nil
}

// readOutcome asks until it gets y, n or q
func readOutcome(reader *bufio.Reader, out io.Writer) (models.Outcome, bool, error) {
	for {
		fmt.Fprint(out, "Did you know it? [y/n/q]: ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "q" {
			return models.Incorrect, true, nil
		}
		if outcome, perr := models.ParseOutcome(input); perr == nil {
			return outcome, false, nil
		}
		if err != nil {
			return models.Incorrect, false, err
		}
		fmt.Fprintln(out, "⚠️ Please answer y or n.")
	}
}

func describeExhausted(s dictionary.Summary) string {
	switch {
	case s.Total == 0:
		return `📭 Your dictionary is empty. Add words with "livedict add" or "livedict import".`
	case s.NextUnlock.IsZero():
		return "✅ Nothing to practice right now."
	default:
		return fmt.Sprintf("✅ Nothing to practice right now. Next translation unlocks in %s.",
			s.NextUnlock.Sub(s.At).Round(time.Minute))
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
