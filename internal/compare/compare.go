// Package compare computes recommendation and shared-film sets from two
// users' crawled listings.
package compare

import (
	"fmt"
	"slices"
	"strings"

	"github.com/law-makers/boxdiff/pkg/models"
	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Dedupe keeps the first record for every URL. A listing can show the same
// film twice when it shifts between page fetches.
func Dedupe(records []models.MovieRecord) []models.MovieRecord {
	return lo.UniqBy(records, func(r models.MovieRecord) string { return r.URL })
}

// Difference returns A's rated films that B has neither watched nor rated,
// highest rating first.
func Difference(aRated, bWatched, bRated []models.MovieRecord) []models.MovieRecord {
	seen := make(map[string]struct{}, len(bWatched)+len(bRated))
	for _, r := range bWatched {
		seen[r.URL] = struct{}{}
	}
	for _, r := range bRated {
		seen[r.URL] = struct{}{}
	}

	out := lo.Filter(Dedupe(aRated), func(r models.MovieRecord, _ int) bool {
		_, ok := seen[r.URL]
		return !ok
	})
	SortRecommendations(out)
	return out
}

// Join pairs the films both users rated, emitted in B's order and then
// sorted by combined rating.
func Join(aRated, bRated []models.MovieRecord) []models.SharedRecord {
	byURL := lo.KeyBy(lo.Reverse(slices.Clone(aRated)), func(r models.MovieRecord) string { return r.URL })

	var out []models.SharedRecord
	for _, b := range Dedupe(bRated) {
		a, ok := byURL[b.URL]
		if !ok {
			continue
		}
		title := a.Title
		if title == "" {
			title = b.Title
		}
		out = append(out, models.SharedRecord{
			URL:            b.URL,
			Title:          title,
			UserARating:    a.Rating,
			UserAPoster:    a.PosterURL,
			UserBRating:    b.Rating,
			UserBPoster:    b.PosterURL,
			CombinedRating: (a.Rating + b.Rating) / 2,
		})
	}
	SortShared(out, models.SortCombined)
	return out
}

// SortRecommendations orders by rating descending, then title
func SortRecommendations(records []models.MovieRecord) {
	titles := newTitleOrder()
	slices.SortStableFunc(records, func(a, b models.MovieRecord) int {
		if a.Rating != b.Rating {
			return descending(a.Rating, b.Rating)
		}
		return titles.compare(a.Title, b.Title)
	})
}

// SortShared re-sorts shared records in place. Rating keys sort highest
// first with a title tie-break; SortTitle sorts A to Z.
func SortShared(records []models.SharedRecord, key models.SortKey) {
	titles := newTitleOrder()
	rating := func(r models.SharedRecord) float64 {
		switch key {
		case models.SortUserA:
			return r.UserARating
		case models.SortUserB:
			return r.UserBRating
		default:
			return r.CombinedRating
		}
	}

	slices.SortStableFunc(records, func(a, b models.SharedRecord) int {
		if key != models.SortTitle {
			if ra, rb := rating(a), rating(b); ra != rb {
				return descending(ra, rb)
			}
		}
		return titles.compare(a.Title, b.Title)
	})
}

// ParseSortKey accepts the CLI spelling of a sort key
func ParseSortKey(s string) (models.SortKey, error) {
	switch k := models.SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case models.SortCombined, models.SortUserA, models.SortUserB, models.SortTitle:
		return k, nil
	case "":
		return models.SortCombined, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want combined, user-a, user-b or title)", s)
	}
}

func descending(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// titleOrder compares titles the way a reader expects: locale aware and
// case insensitive first, with an exact tie-break so the order is total.
type titleOrder struct {
	c *collate.Collator
}

func newTitleOrder() titleOrder {
	return titleOrder{c: collate.New(language.English, collate.IgnoreCase)}
}

func (t titleOrder) compare(a, b string) int {
	if n := t.c.CompareString(a, b); n != 0 {
		return n
	}
	return strings.Compare(a, b)
}
