package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/example/verbtrainer/internal/vocab"
	"github.com/spf13/cobra"
)

func init() {
	defaults := vocab.DefaultImportConfig()

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Convert an .xlsx or .csv verb table to verbs JSON",
		Args:  cobra.ExactArgs(1),
		Run:   run("import", runImport),
	}

	cmd.Flags().StringP("output", "o", "verbs.json", "Output file, - for stdout")
	cmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().Int("start-row", defaults.StartRow, "First data row (1-based)")
	cmd.Flags().String("infinitive-col", defaults.InfinitiveColumn, "Infinitive column")
	cmd.Flags().String("preterite-col", defaults.PreteriteColumn, "Präteritum column")
	cmd.Flags().String("participle-col", defaults.PastParticipleColumn, "Partizip II column")
	cmd.Flags().String("translation-col", defaults.TranslationColumn, "Translation column, empty for none")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	config := vocab.DefaultImportConfig()
	config.FilePath = args[0]
	config.SheetName, _ = cmd.Flags().GetString("sheet")
	config.StartRow, _ = cmd.Flags().GetInt("start-row")
	config.InfinitiveColumn, _ = cmd.Flags().GetString("infinitive-col")
	config.PreteriteColumn, _ = cmd.Flags().GetString("preterite-col")
	config.PastParticipleColumn, _ = cmd.Flags().GetString("participle-col")
	config.TranslationColumn, _ = cmd.Flags().GetString("translation-col")

	result, err := vocab.ImportSpreadsheet(config)
	if err != nil {
		return err
	}
	if len(result.Entries) == 0 {
		return fmt.Errorf("no complete verb rows in %s", config.FilePath)
	}

	if output == "-" {
		if err := vocab.Encode(cmd.OutOrStdout(), result.Entries); err != nil {
			return err
		}
	} else if err := writeVerbsFile(output, result); err != nil {
		return err
	}
	printImportSummary(cmd.ErrOrStderr(), result)
	return nil
}

func writeVerbsFile(path string, result *vocab.ImportResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := vocab.Encode(f, result.Entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printImportSummary(w io.Writer, result *vocab.ImportResult) {
	fmt.Fprintf(w, "Imported %d verbs from %d rows (%d duplicates, %d skipped)\n",
		len(result.Entries), result.TotalProcessed, result.Duplicates, result.Skipped)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}
