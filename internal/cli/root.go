package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/boxdiff/internal/app"
	"github.com/law-makers/boxdiff/internal/config"
	"github.com/law-makers/boxdiff/internal/engine"
	"github.com/law-makers/boxdiff/internal/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boxdiff",
	Short: "Compare the film libraries of two Letterboxd users",
	Long: `Boxdiff crawls the public film listings of two Letterboxd users and compares them.

It can list the films the first user rated that the second has never logged,
or the films both users rated side by side.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command under ctx and returns the process exit code.
// This is called by main.main(). The application is initialized lazily in
// PersistentPreRunE so -h and --version never touch the network stack.
func Execute(ctx context.Context) int {
	if err := execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(engine.UserMessage(err)))
		log.Debug().Err(err).Msg("Command failed")
		return 1
	}
	return 0
}

func execute(ctx context.Context) error {
	cmd, err := rootCmd.ExecuteContextC(ctx)
	// PersistentPostRun is skipped when RunE fails
	closeApp(cmd)
	return err
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		appCtx, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		SetApp(cmd, appCtx)
		return nil
	}

	// Ensure app is closed after command runs
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		closeApp(cmd)
	}
}

func closeApp(cmd *cobra.Command) {
	appCtx := GetApp(cmd)
	if appCtx == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), appCtx.Config.HTTPTimeout)
	defer cancel()
	_ = appCtx.Close(ctx)
	SetApp(cmd, nil)
}

func init() {
	// Register centralized flags
	config.RegisterFlags(rootCmd)

	// Customize help and version flag descriptions
	rootCmd.Flags().BoolP("help", "h", false, "Help for boxdiff")
	rootCmd.Flags().Bool("version", false, "Version for boxdiff")
}

func init() {
	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Set custom help function
	rootCmd.SetHelpFunc(helpFunc)
	rootCmd.SetUsageFunc(usageFunc)
}
