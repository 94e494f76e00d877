package output

import (
	"encoding/json"
	"io"

	"github.com/law-makers/boxdiff/pkg/models"
)

// WriteJSON writes the result envelope as indented JSON
func WriteJSON(w io.Writer, result *models.ComparisonResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
