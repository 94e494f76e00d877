package cli

import (
	"github.com/law-makers/boxdiff/internal/utils/output"
	"github.com/law-makers/boxdiff/pkg/models"
	"github.com/spf13/cobra"
)

var (
	uniqueGenre  string
	uniqueOutput string
)

// uniqueCmd represents the unique command
var uniqueCmd = &cobra.Command{
	Use:   "unique <user-a> <user-b>",
	Short: "Films user A rated that user B has never logged",
	Long: `Crawls user A's rated films and every film user B has logged, then lists
the films only user A has seen, best rated first.

Use it to find recommendations: the films a friend loved that you have
not watched yet.`,
	Example: `  # What has alice rated that bob has not seen?
  boxdiff unique alice bob

  # Only horror films
  boxdiff unique alice bob --genre horror

  # Save the list as Markdown
  boxdiff unique alice bob --output recs.md`,
	Args: cobra.ExactArgs(2),
	RunE: runUnique,
}

func init() {
	rootCmd.AddCommand(uniqueCmd)

	uniqueCmd.Flags().StringVarP(&uniqueGenre, "genre", "g", "", "Only compare films of this genre (e.g., horror, science-fiction)")
	uniqueCmd.Flags().StringVarP(&uniqueOutput, "output", "o", "", "File path to save results (supports .json, .csv, .html, .md)")
}

func runUnique(cmd *cobra.Command, args []string) error {
	if uniqueOutput != "" {
		if _, err := output.ForPath(uniqueOutput); err != nil {
			return err
		}
	}

	a, err := requireApp(cmd)
	if err != nil {
		return err
	}

	result, err := runComparison(cmd, a, comparison{
		mode:  models.ModeUnique,
		userA: args[0],
		userB: args[1],
		genre: uniqueGenre,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResult(out, result)
	printMetrics(cmd.ErrOrStderr(), a)

	if uniqueOutput != "" {
		return saveResult(out, result, uniqueOutput)
	}
	return nil
}
