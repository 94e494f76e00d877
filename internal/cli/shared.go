package cli

import (
	"github.com/law-makers/boxdiff/internal/compare"
	"github.com/law-makers/boxdiff/internal/utils/output"
	"github.com/law-makers/boxdiff/pkg/models"
	"github.com/spf13/cobra"
)

var (
	sharedGenre  string
	sharedOutput string
	sharedSort   string
)

// sharedCmd represents the shared command
var sharedCmd = &cobra.Command{
	Use:   "shared <user-a> <user-b>",
	Short: "Films both users rated, with both ratings",
	Long: `Crawls the rated films of both users and lists every film they both rated,
with each user's rating and the mean of the two.

Results are ordered by the combined rating unless --sort says otherwise.`,
	Example: `  # Films alice and bob both rated
  boxdiff shared alice bob

  # Order by bob's ratings instead
  boxdiff shared alice bob --sort user-b

  # Export to CSV
  boxdiff shared alice bob --output shared.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runShared,
}

func init() {
	rootCmd.AddCommand(sharedCmd)

	sharedCmd.Flags().StringVarP(&sharedGenre, "genre", "g", "", "Only compare films of this genre (e.g., horror, science-fiction)")
	sharedCmd.Flags().StringVarP(&sharedOutput, "output", "o", "", "File path to save results (supports .json, .csv, .html, .md)")
	sharedCmd.Flags().StringVarP(&sharedSort, "sort", "s", string(models.SortCombined), "Order by: combined, user-a, user-b or title")
}

func runShared(cmd *cobra.Command, args []string) error {
	key, err := compare.ParseSortKey(sharedSort)
	if err != nil {
		return err
	}
	if sharedOutput != "" {
		if _, err := output.ForPath(sharedOutput); err != nil {
			return err
		}
	}

	a, err := requireApp(cmd)
	if err != nil {
		return err
	}

	result, err := runComparison(cmd, a, comparison{
		mode:  models.ModeShared,
		userA: args[0],
		userB: args[1],
		genre: sharedGenre,
		sort:  key,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResult(out, result)
	printMetrics(cmd.ErrOrStderr(), a)

	if sharedOutput != "" {
		return saveResult(out, result, sharedOutput)
	}
	return nil
}
