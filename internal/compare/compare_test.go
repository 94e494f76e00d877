package compare

import (
	"testing"

	"github.com/law-makers/boxdiff/pkg/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(url, title string, rating float64) models.MovieRecord {
	return models.MovieRecord{URL: url, Title: title, Rating: rating}
}

func TestDifference_ExcludesWatchedOrRated(t *testing.T) {
	aRated := []models.MovieRecord{
		rec("/film/x/", "X", 4.5),
		rec("/film/y/", "Y", 3.0),
	}
	bWatched := []models.MovieRecord{{URL: "/film/y/"}}

	got := Difference(aRated, bWatched, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "/film/x/", got[0].URL)
	assert.Equal(t, 4.5, got[0].Rating)
}

func TestDifference_UnionOfBothListings(t *testing.T) {
	aRated := []models.MovieRecord{
		rec("/film/a/", "A", 5),
		rec("/film/b/", "B", 4),
		rec("/film/c/", "C", 3),
		rec("/film/d/", "D", 2),
	}
	bWatched := []models.MovieRecord{{URL: "/film/a/"}}
	bRated := []models.MovieRecord{{URL: "/film/c/"}}

	got := Difference(aRated, bWatched, bRated)

	urls := lo.Map(got, func(r models.MovieRecord, _ int) string { return r.URL })
	assert.Equal(t, []string{"/film/b/", "/film/d/"}, urls)

	excluded := map[string]bool{"/film/a/": true, "/film/c/": true}
	for _, r := range got {
		assert.False(t, excluded[r.URL], "%s is in B's union", r.URL)
	}
}

func TestDifference_SortsByRatingThenTitle(t *testing.T) {
	aRated := []models.MovieRecord{
		rec("/film/1/", "zodiac", 4),
		rec("/film/2/", "Alien", 4),
		rec("/film/3/", "Heat", 5),
		rec("/film/4/", "amélie", 4),
		rec("/film/5/", "Brazil", 2.5),
	}

	got := Difference(aRated, nil, nil)

	titles := lo.Map(got, func(r models.MovieRecord, _ int) string { return r.Title })
	assert.Equal(t, []string{"Heat", "Alien", "amélie", "zodiac", "Brazil"}, titles)
}

func TestDifference_DedupesRepeatedFilms(t *testing.T) {
	aRated := []models.MovieRecord{
		rec("/film/a/", "A", 5),
		rec("/film/a/", "A (shifted)", 1),
	}

	got := Difference(aRated, nil, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Title)
}

func TestJoin_CombinedRating(t *testing.T) {
	aRated := []models.MovieRecord{{URL: "/film/z/", Title: "Z", Rating: 5.0, PosterURL: "a.jpg"}}
	bRated := []models.MovieRecord{{URL: "/film/z/", Title: "Z", Rating: 3.0, PosterURL: "b.jpg"}}

	got := Join(aRated, bRated)

	require.Len(t, got, 1)
	assert.Equal(t, models.SharedRecord{
		URL:            "/film/z/",
		Title:          "Z",
		UserARating:    5.0,
		UserAPoster:    "a.jpg",
		UserBRating:    3.0,
		UserBPoster:    "b.jpg",
		CombinedRating: 4.0,
	}, got[0])
}

func TestJoin_OnlyFilmsInBoth(t *testing.T) {
	aRated := []models.MovieRecord{rec("/film/a/", "A", 4), rec("/film/b/", "B", 3)}
	bRated := []models.MovieRecord{rec("/film/b/", "B", 5), rec("/film/c/", "C", 2)}

	got := Join(aRated, bRated)

	require.Len(t, got, 1)
	assert.Equal(t, "/film/b/", got[0].URL)
	assert.Equal(t, 4.0, got[0].CombinedRating)
}

func TestJoin_MeanIsExactForEveryRatingPair(t *testing.T) {
	for ha := 1; ha <= 10; ha++ {
		for hb := 1; hb <= 10; hb++ {
			a, b := float64(ha)/2, float64(hb)/2
			got := Join(
				[]models.MovieRecord{rec("/film/p/", "P", a)},
				[]models.MovieRecord{rec("/film/p/", "P", b)},
			)
			require.Len(t, got, 1)
			if got[0].CombinedRating != (a+b)/2 {
				t.Errorf("combined(%v, %v) = %v", a, b, got[0].CombinedRating)
			}
		}
	}
}

func TestJoin_UsesFirstOccurrenceOfDuplicates(t *testing.T) {
	aRated := []models.MovieRecord{rec("/film/a/", "A", 4), rec("/film/a/", "A", 1)}
	bRated := []models.MovieRecord{rec("/film/a/", "A", 2), rec("/film/a/", "A", 5)}

	got := Join(aRated, bRated)

	require.Len(t, got, 1)
	assert.Equal(t, 4.0, got[0].UserARating)
	assert.Equal(t, 2.0, got[0].UserBRating)
}

func sharedFixture() []models.SharedRecord {
	return []models.SharedRecord{
		{Title: "heat", UserARating: 5, UserBRating: 3, CombinedRating: 4},
		{Title: "Alien", UserARating: 3, UserBRating: 5, CombinedRating: 4},
		{Title: "Brazil", UserARating: 4.5, UserBRating: 4.5, CombinedRating: 4.5},
		{Title: "Élan", UserARating: 1, UserBRating: 2, CombinedRating: 1.5},
	}
}

func titlesOf(records []models.SharedRecord) []string {
	return lo.Map(records, func(r models.SharedRecord, _ int) string { return r.Title })
}

func TestSortShared(t *testing.T) {
	tests := []struct {
		key  models.SortKey
		want []string
	}{
		{models.SortCombined, []string{"Brazil", "Alien", "heat", "Élan"}},
		{models.SortUserA, []string{"heat", "Brazil", "Alien", "Élan"}},
		{models.SortUserB, []string{"Alien", "Brazil", "heat", "Élan"}},
		{models.SortTitle, []string{"Alien", "Brazil", "Élan", "heat"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			records := sharedFixture()
			SortShared(records, tt.key)
			assert.Equal(t, tt.want, titlesOf(records))
		})
	}
}

func TestSortShared_TitleIndependentOfPriorOrder(t *testing.T) {
	first := sharedFixture()
	SortShared(first, models.SortUserB)
	SortShared(first, models.SortTitle)

	second := sharedFixture()
	SortShared(second, models.SortCombined)
	SortShared(second, models.SortTitle)

	assert.Equal(t, titlesOf(first), titlesOf(second))
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]models.SortKey{
		"":         models.SortCombined,
		"combined": models.SortCombined,
		"USER-A":   models.SortUserA,
		" user-b ": models.SortUserB,
		"title":    models.SortTitle,
	} {
		got, err := ParseSortKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSortKey("year")
	assert.Error(t, err)
}
