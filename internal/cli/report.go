package cli

import (
	"github.com/law-makers/boxdiff/internal/compare"
	"github.com/law-makers/boxdiff/internal/utils/output"
	"github.com/law-makers/boxdiff/pkg/models"
	"github.com/spf13/cobra"
)

var (
	reportGenre  string
	reportOutput string
	reportSort   string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <user-a> <user-b>",
	Short: "Run both comparisons in one go",
	Long: `Runs the unique comparison followed by the shared one.

Pages fetched by the first comparison are served from memory to the second,
so user A's rated films are only crawled once.

With --output, each comparison is saved to its own file: report.md becomes
report-unique.md and report-shared.md.`,
	Example: `  # Both views for alice and bob
  boxdiff report alice bob

  # Write both as HTML
  boxdiff report alice bob --output report.html`,
	Args: cobra.ExactArgs(2),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportGenre, "genre", "g", "", "Only compare films of this genre (e.g., horror, science-fiction)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Base file path for results; the mode is appended to the name")
	reportCmd.Flags().StringVarP(&reportSort, "sort", "s", string(models.SortCombined), "Order shared films by: combined, user-a, user-b or title")
}

func runReport(cmd *cobra.Command, args []string) error {
	key, err := compare.ParseSortKey(reportSort)
	if err != nil {
		return err
	}
	if reportOutput != "" {
		if _, err := output.ForPath(reportOutput); err != nil {
			return err
		}
	}

	a, err := requireApp(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, mode := range []models.Mode{models.ModeUnique, models.ModeShared} {
		result, err := runComparison(cmd, a, comparison{
			mode:  mode,
			userA: args[0],
			userB: args[1],
			genre: reportGenre,
			sort:  key,
		})
		if err != nil {
			return err
		}

		printResult(out, result)
		if reportOutput != "" {
			if err := saveResult(out, result, modePath(reportOutput, mode)); err != nil {
				return err
			}
		}
	}

	printMetrics(cmd.ErrOrStderr(), a)
	return nil
}
