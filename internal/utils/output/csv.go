package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/law-makers/boxdiff/pkg/models"
)

// WriteCSV writes one row per result record with a mode-specific header
func WriteCSV(w io.Writer, result *models.ComparisonResult) error {
	writer := csv.NewWriter(w)

	if result.Mode == models.ModeShared {
		if err := writer.Write([]string{"Title", "URL", "UserARating", "UserBRating", "CombinedRating", "UserAPoster", "UserBPoster"}); err != nil {
			return err
		}
		for _, r := range result.Shared {
			row := []string{r.Title, r.URL, rating(r.UserARating), rating(r.UserBRating), rating(r.CombinedRating), r.UserAPoster, r.UserBPoster}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	} else {
		if err := writer.Write([]string{"Title", "URL", "Rating", "Poster"}); err != nil {
			return err
		}
		for _, r := range result.Recommendations {
			if err := writer.Write([]string{r.Title, r.URL, rating(r.Rating), r.PosterURL}); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func rating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
