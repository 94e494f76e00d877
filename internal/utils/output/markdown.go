package output

import (
	"bytes"
	"fmt"
	"io"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/boxdiff/pkg/models"
	"golang.org/x/net/html"
)

// WriteMarkdown converts the HTML report to GitHub flavored Markdown
func WriteMarkdown(w io.Writer, result *models.ComparisonResult) error {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	// Posters are too large for a table cell; keep them as links
	converter.AddRules(md.Rule{
		Filter: []string{"img"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			src, ok := selec.Attr("src")
			if !ok || src == "" {
				empty := ""
				return &empty
			}
			str := fmt.Sprintf("[poster](%s)", src)
			return &str
		},
	})

	var buf bytes.Buffer
	if err := html.Render(&buf, BuildReport(result)); err != nil {
		return err
	}

	cleaned, err := CleanHTML(buf.String())
	if err != nil {
		return err
	}

	mdStr, err := converter.ConvertString(cleaned)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, mdStr+"\n")
	return err
}
