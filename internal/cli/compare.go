package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/law-makers/boxdiff/internal/app"
	"github.com/law-makers/boxdiff/internal/compare"
	"github.com/law-makers/boxdiff/internal/engine"
	"github.com/law-makers/boxdiff/internal/progress"
	"github.com/law-makers/boxdiff/internal/ui"
	"github.com/law-makers/boxdiff/internal/utils/output"
	"github.com/law-makers/boxdiff/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// comparison is one run of either mode as requested on the command line
type comparison struct {
	mode  models.Mode
	userA string
	userB string
	genre string
	sort  models.SortKey
}

func runComparison(cmd *cobra.Command, a *app.Application, c comparison) (*models.ComparisonResult, error) {
	userA, userB, err := compare.ValidateUsers(c.userA, c.userB)
	if err != nil {
		return nil, err
	}

	result := &models.ComparisonResult{
		Mode:        c.mode,
		UserA:       userA,
		UserB:       userB,
		GeneratedAt: time.Now(),
	}
	if c.genre != "" && c.genre != engine.AnyGenre {
		result.Genre = c.genre
	}

	sink, stop := startProgress(a, cmd.ErrOrStderr())
	ctx := cmd.Context()
	switch c.mode {
	case models.ModeShared:
		result.Shared, err = a.Compare.CompareShared(ctx, userA, userB, c.genre, sink)
		if err == nil && c.sort != models.SortCombined {
			compare.SortShared(result.Shared, c.sort)
		}
	default:
		result.Recommendations, err = a.Compare.CompareUnique(ctx, userA, userB, c.genre, sink)
	}
	stop()
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("mode", string(c.mode)).
		Int("results", result.Count()).
		Msg("Comparison finished")
	return result, nil
}

// startProgress shows a progress bar on out unless logs would collide with it
func startProgress(a *app.Application, out io.Writer) (chan<- models.ProgressSnapshot, func()) {
	if a.Config.JSONLog || a.Config.LogLevel == "error" {
		return nil, func() {}
	}

	ch := make(chan models.ProgressSnapshot)
	done := make(chan struct{})
	bar := progress.NewBar(out)
	go func() {
		defer close(done)
		bar.Run(ch)
	}()
	return ch, func() {
		close(ch)
		<-done
	}
}

func printResult(out io.Writer, result *models.ComparisonResult) {
	if result.Genre != "" {
		fmt.Fprintln(out, ui.Info("Genre: "+result.Genre))
	}
	if result.Mode == models.ModeShared {
		printShared(out, result)
		return
	}
	printRecommendations(out, result)
}

func printRecommendations(out io.Writer, result *models.ComparisonResult) {
	if len(result.Recommendations) == 0 {
		fmt.Fprintln(out, ui.Info(ui.NoRecommendations(result.UserA, result.UserB)))
		return
	}

	fmt.Fprintf(out, "\n%s\n\n", ui.Bold(ui.RecommendationsHeadline(len(result.Recommendations), result.UserA)))
	for i, r := range result.Recommendations {
		fmt.Fprintf(out, "%3d. %s  %s\n", i+1, displayTitle(r.Title, r.URL), ui.Rating(ui.StarsWithValue(r.Rating)))
		fmt.Fprintf(out, "     %s\n", ui.Info(r.URL))
	}
	fmt.Fprintln(out)
}

func printShared(out io.Writer, result *models.ComparisonResult) {
	if len(result.Shared) == 0 {
		fmt.Fprintln(out, ui.Info(ui.NoSharedFilms(result.UserA, result.UserB)))
		return
	}

	fmt.Fprintf(out, "\n%s\n\n", ui.Bold(ui.SharedHeadline(len(result.Shared), result.UserA, result.UserB)))
	for i, r := range result.Shared {
		fmt.Fprintf(out, "%3d. %s  %s\n", i+1, displayTitle(r.Title, r.URL), ui.Rating(fmt.Sprintf("(%.1f)", r.CombinedRating)))
		fmt.Fprintf(out, "     %s: %s   %s: %s\n",
			result.UserA, ui.Rating(ui.StarsWithValue(r.UserARating)),
			result.UserB, ui.Rating(ui.StarsWithValue(r.UserBRating)))
		fmt.Fprintf(out, "     %s\n", ui.Info(r.URL))
	}
	fmt.Fprintln(out)
}

func displayTitle(title, url string) string {
	if title != "" {
		return title
	}
	return url
}

// saveResult writes result to path and confirms on out
func saveResult(out io.Writer, result *models.ComparisonResult, path string) error {
	if err := output.Save(result, path); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("Output saved")
	fmt.Fprintln(out, ui.Success("✓ Saved to "+path))
	return nil
}

// printMetrics dumps the fetch counters when --metrics is set
func printMetrics(out io.Writer, a *app.Application) {
	if !a.Config.PrintMetrics {
		return
	}
	fmt.Fprintf(out, "\n%sMetrics%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
	if err := a.Metrics.WriteSummary(out); err != nil {
		log.Warn().Err(err).Msg("Failed to write metrics summary")
	}
}

// modePath derives a per-mode file name: out.md becomes out-shared.md
func modePath(path string, mode models.Mode) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + string(mode) + ext
}

func requireApp(cmd *cobra.Command) (*app.Application, error) {
	a := GetApp(cmd)
	if a == nil {
		return nil, engine.NewEngineError(engine.ErrCodeConfiguration, "application not initialized", nil)
	}
	return a, nil
}
