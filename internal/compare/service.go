package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/law-makers/boxdiff/internal/engine"
	"github.com/law-makers/boxdiff/internal/engine/extract"
	"github.com/law-makers/boxdiff/internal/markup"
	"github.com/law-makers/boxdiff/internal/progress"
	"github.com/law-makers/boxdiff/internal/reqctx"
	"github.com/law-makers/boxdiff/pkg/models"
	"golang.org/x/sync/errgroup"
)

// ComparingMessage is the last progress update of every comparison
const ComparingMessage = "Comparing libraries..."

// Service runs the crawls behind each comparison mode
type Service struct {
	crawler   *engine.Crawler
	extractor *extract.Extractor
}

// NewService creates a Service crawling through c
func NewService(c *engine.Crawler) *Service {
	return &Service{
		crawler:   c,
		extractor: extract.New(c.BaseURL()),
	}
}

// ValidateUsers trims both names and rejects empty or identical ones.
// Names are compared case-insensitively.
func ValidateUsers(userA, userB string) (string, string, error) {
	a, b := strings.TrimSpace(userA), strings.TrimSpace(userB)
	if a == "" || b == "" {
		return "", "", engine.ValidationError(engine.ErrMissingUsername)
	}
	if strings.EqualFold(a, b) {
		return "", "", engine.ValidationError(engine.ErrSameUsername)
	}
	return a, b, nil
}

// CompareUnique returns the films userA rated that userB has not seen
func (s *Service) CompareUnique(ctx context.Context, userA, userB, genre string, sink chan<- models.ProgressSnapshot) ([]models.MovieRecord, error) {
	a, b, err := ValidateUsers(userA, userB)
	if err != nil {
		return nil, err
	}
	ctx = reqctx.WithRun(ctx, string(models.ModeUnique), a, b)
	logger := reqctx.Logger(ctx)
	logger.Debug().Str("user_a", a).Str("user_b", b).Str("genre", genre).Msg("Starting comparison")

	aRated, err := s.crawler.Crawl(ctx, engine.CrawlRequest{
		Subject:  a,
		Listing:  engine.Rated,
		Genre:    genre,
		Extract:  s.extractor.RatedWithPosters,
		Progress: sink,
	})
	if err != nil {
		return nil, reqctx.WrapError(ctx, err)
	}

	// B's two listings share one progress bar, so both first pages are
	// needed up front to size it.
	progress.Emit(ctx, sink, models.ProgressSnapshot{
		Subject: b,
		Message: fmt.Sprintf("Analyzing %s's library...", b),
	})
	watchedFirst, ratedFirst, err := s.firstPages(ctx, b, genre)
	if err != nil {
		return nil, reqctx.WrapError(ctx, err)
	}
	watchedPages := extract.LastPage(watchedFirst)
	total := watchedPages + extract.LastPage(ratedFirst)

	bWatched, err := s.crawler.Crawl(ctx, engine.CrawlRequest{
		Subject:  b,
		Listing:  engine.Watched,
		Genre:    genre,
		Extract:  s.extractor.Watched,
		Progress: sink,
		Options: engine.CrawlOptions{
			FirstPage: watchedFirst,
			Override:  &engine.ProgressOverride{TotalPages: total, PageOffset: 0},
		},
	})
	if err != nil {
		return nil, reqctx.WrapError(ctx, err)
	}

	bRated, err := s.crawler.Crawl(ctx, engine.CrawlRequest{
		Subject:  b,
		Listing:  engine.Rated,
		Genre:    genre,
		Extract:  s.extractor.Watched,
		Progress: sink,
		Options: engine.CrawlOptions{
			FirstPage: ratedFirst,
			Override:  &engine.ProgressOverride{TotalPages: total, PageOffset: watchedPages},
		},
	})
	if err != nil {
		return nil, reqctx.WrapError(ctx, err)
	}

	progress.Emit(ctx, sink, models.ProgressSnapshot{Message: ComparingMessage})
	out := Difference(aRated, bWatched, bRated)

	logger.Info().
		Int("user_a_rated", len(aRated)).
		Int("user_b_watched", len(bWatched)).
		Int("user_b_rated", len(bRated)).
		Int("recommendations", len(out)).
		Dur("elapsed", reqctx.FromContext(ctx).Elapsed()).
		Msg("Comparison complete")

	return out, nil
}

// CompareShared returns the films both users rated with their ratings joined
func (s *Service) CompareShared(ctx context.Context, userA, userB, genre string, sink chan<- models.ProgressSnapshot) ([]models.SharedRecord, error) {
	a, b, err := ValidateUsers(userA, userB)
	if err != nil {
		return nil, err
	}
	ctx = reqctx.WithRun(ctx, string(models.ModeShared), a, b)
	logger := reqctx.Logger(ctx)
	logger.Debug().Str("user_a", a).Str("user_b", b).Str("genre", genre).Msg("Starting comparison")

	aRated, err := s.crawler.Crawl(ctx, engine.CrawlRequest{
		Subject:  a,
		Listing:  engine.Rated,
		Genre:    genre,
		Extract:  s.extractor.RatedWithPosters,
		Progress: sink,
	})
	if err != nil {
		return nil, reqctx.WrapError(ctx, err)
	}

	bRated, err := s.crawler.Crawl(ctx, engine.CrawlRequest{
		Subject:  b,
		Listing:  engine.Rated,
		Genre:    genre,
		Extract:  s.extractor.RatedWithPosters,
		Progress: sink,
	})
	if err != nil {
		return nil, reqctx.WrapError(ctx, err)
	}

	progress.Emit(ctx, sink, models.ProgressSnapshot{Message: ComparingMessage})
	out := Join(aRated, bRated)

	logger.Info().
		Int("user_a_rated", len(aRated)).
		Int("user_b_rated", len(bRated)).
		Int("shared", len(out)).
		Dur("elapsed", reqctx.FromContext(ctx).Elapsed()).
		Msg("Comparison complete")

	return out, nil
}

// firstPages fetches page 1 of the user's watched and rated listings concurrently
func (s *Service) firstPages(ctx context.Context, user, genre string) (watched, rated markup.Node, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		watched, err = s.crawler.FirstPage(gctx, user, engine.Watched, genre)
		return err
	})
	g.Go(func() error {
		var err error
		rated, err = s.crawler.FirstPage(gctx, user, engine.Rated, genre)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return watched, rated, nil
}
