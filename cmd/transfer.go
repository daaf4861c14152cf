package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/livedict/internal/database"
	"github.com/example/livedict/internal/dictionary"
	"github.com/example/livedict/internal/excel"
)

var importConfig = excel.DefaultImportConfig()

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import translations from an Excel, CSV or text file",
	Long: `Import translations from a file. The format follows the extension:
.xlsx and .xlsm are read as spreadsheets, .csv as comma separated values and
anything else as text with one "foreign - native" pair per line. Pairs that
already exist are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		config := importConfig
		config.FilePath = args[0]
		result, err := excel.ImportTranslations(cmd.Context(), config, database.NewTranslationRepository(a.db))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Imported %s: %d created, %d skipped\n", args[0], result.Created, result.Skipped)
		if len(result.Errors) > 0 {
			fmt.Fprintf(out, "⚠️ %d rows could not be read:\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintln(out, "  -", e)
			}
		}
		a.logger.Info("import finished", "file", args[0], "result", result.String())
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export every translation to an Excel, CSV or text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDictionary(ctx, func(_ *app, d *dictionary.Dictionary) error {
			all, err := d.All(ctx)
			if err != nil {
				return err
			}
			if err := excel.ExportTranslations(args[0], all); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Exported %d translations to %s\n", len(all), args[0])
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add a starter vocabulary of Spanish colours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		repo := database.NewTranslationRepository(a.db)
		before, err := repo.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		if err := database.Seed(cmd.Context(), repo); err != nil {
			return err
		}
		after, err := repo.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🌱 Added %d starter translations\n", len(after)-len(before))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd, seedCmd)

	importCmd.Flags().StringVar(&importConfig.SheetName, "sheet", "", "Sheet to read (default: the first one)")
	importCmd.Flags().StringVar(&importConfig.ForeignColumn, "foreign-column", importConfig.ForeignColumn, "Column with the foreign words")
	importCmd.Flags().StringVar(&importConfig.NativeColumn, "native-column", importConfig.NativeColumn, "Column with the translations")
	importCmd.Flags().IntVar(&importConfig.StartRow, "start-row", importConfig.StartRow, "First row to read, 1-based")
}
