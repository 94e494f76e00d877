// Package output writes comparison results to files.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/law-makers/boxdiff/pkg/models"
)

// Writer renders a result to w
type Writer func(w io.Writer, result *models.ComparisonResult) error

var writers = map[string]Writer{
	".json":     WriteJSON,
	".csv":      WriteCSV,
	".html":     WriteHTML,
	".htm":      WriteHTML,
	".md":       WriteMarkdown,
	".markdown": WriteMarkdown,
}

// ForPath picks the writer for a file by its extension
func ForPath(path string) (Writer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	w, ok := writers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported output format %q (use .json, .csv, .html or .md)", ext)
	}
	return w, nil
}

// Save writes result to path in the format implied by its extension
func Save(result *models.ComparisonResult, path string) error {
	write, err := ForPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file, result); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
