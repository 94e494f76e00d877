package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/boxdiff/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueResult() *models.ComparisonResult {
	return &models.ComparisonResult{
		Mode:        models.ModeUnique,
		UserA:       "alice",
		UserB:       "bob",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
		Recommendations: []models.MovieRecord{
			{URL: "https://letterboxd.com/film/x/", Title: "X, the Film", Rating: 4.5, PosterURL: "https://img.test/x.jpg"},
			{URL: "https://letterboxd.com/film/y/", Title: "Y", Rating: 3},
		},
	}
}

func sharedResult() *models.ComparisonResult {
	return &models.ComparisonResult{
		Mode:        models.ModeShared,
		UserA:       "alice",
		UserB:       "bob",
		Genre:       "horror",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
		Shared: []models.SharedRecord{
			{URL: "https://letterboxd.com/film/z/", Title: "Z", UserARating: 5, UserBRating: 3, CombinedRating: 4, UserBPoster: "https://img.test/z.jpg"},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sharedResult()))

	var decoded models.ComparisonResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, models.ModeShared, decoded.Mode)
	require.Len(t, decoded.Shared, 1)
	assert.Equal(t, 4.0, decoded.Shared[0].CombinedRating)
	assert.NotContains(t, buf.String(), "recommendations")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, uniqueResult()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Title", "URL", "Rating", "Poster"}, rows[0])
	assert.Equal(t, "X, the Film", rows[1][0])
	assert.Equal(t, "4.5", rows[1][2])
	assert.Equal(t, "3", rows[2][2])

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, sharedResult()))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "CombinedRating", rows[0][4])
	assert.Equal(t, "4", rows[1][4])
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, uniqueResult()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<h1>2 Recommendations from alice</h1>")
	assert.Contains(t, out, `<a href="https://letterboxd.com/film/x/">X, the Film</a>`)
	assert.Contains(t, out, "★★★★½ (4.5)")
	assert.Contains(t, out, `src="https://img.test/x.jpg"`)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sharedResult()))

	out := buf.String()
	assert.Contains(t, out, "# 1 Film Both alice and bob Have Seen")
	assert.Contains(t, out, "[Z](https://letterboxd.com/film/z/)")
	assert.Contains(t, out, "[poster](https://img.test/z.jpg)")
	assert.Contains(t, out, "Genre: horror")
	assert.NotContains(t, out, "font-family")
}

func TestCleanHTML(t *testing.T) {
	cleaned, err := CleanHTML(`<html><head><style>x{}</style></head><body><a href="/a" class="c" onclick="x()">A</a><script>evil()</script></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, `<a href="/a">A</a>`, cleaned)
}

func TestSave_ByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.json", "out.csv", "out.html", "out.md"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(uniqueResult(), path), name)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0), name)
	}

	assert.Error(t, Save(uniqueResult(), filepath.Join(dir, "out.xlsx")))
}
