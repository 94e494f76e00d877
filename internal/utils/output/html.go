package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/boxdiff/internal/ui"
	"github.com/law-makers/boxdiff/pkg/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const reportStyle = `body{font-family:sans-serif;background:#14181c;color:#def}
table{border-collapse:collapse}td,th{padding:4px 10px;text-align:left}
img{height:75px}.stars{color:#00e054}`

// Headline returns the title of a result
func Headline(result *models.ComparisonResult) string {
	if result.Mode == models.ModeShared {
		return ui.SharedHeadline(len(result.Shared), result.UserA, result.UserB)
	}
	return ui.RecommendationsHeadline(len(result.Recommendations), result.UserA)
}

// WriteHTML renders the result as a standalone HTML report
func WriteHTML(w io.Writer, result *models.ComparisonResult) error {
	return html.Render(w, BuildReport(result))
}

// BuildReport builds the report document tree
func BuildReport(result *models.ComparisonResult) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	head := element(atom.Head)
	head.AppendChild(withText(element(atom.Title), Headline(result)))
	head.AppendChild(withText(element(atom.Style), reportStyle))
	root.AppendChild(head)

	body := element(atom.Body)
	body.AppendChild(withText(element(atom.H1), Headline(result)))
	if result.Genre != "" {
		body.AppendChild(withText(element(atom.P), "Genre: "+result.Genre))
	}

	table := element(atom.Table)
	if result.Mode == models.ModeShared {
		table.AppendChild(headerRow("", "Title", result.UserA, result.UserB, "Combined"))
		for _, r := range result.Shared {
			table.AppendChild(row(
				poster(firstNonEmpty(r.UserAPoster, r.UserBPoster), r.Title),
				link(r.URL, r.Title),
				stars(r.UserARating),
				stars(r.UserBRating),
				withText(element(atom.Td), fmt.Sprintf("%.2f", r.CombinedRating)),
			))
		}
	} else {
		table.AppendChild(headerRow("", "Title", "Rating"))
		for _, r := range result.Recommendations {
			table.AppendChild(row(
				poster(r.PosterURL, r.Title),
				link(r.URL, r.Title),
				stars(r.Rating),
			))
		}
	}
	body.AppendChild(table)

	body.AppendChild(withText(element(atom.P), "Generated "+result.GeneratedAt.Format("2006-01-02 15:04 MST")))
	root.AppendChild(body)
	doc.AppendChild(root)
	return doc
}

// CleanHTML removes unwanted elements and attributes to produce a safe HTML excerpt
func CleanHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	// Remove unwanted tags
	doc.Find("script, style, link, meta, noscript, iframe, svg, form, input, button, select, textarea, canvas, title").Remove()

	// Clean attributes
	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		node := s.Nodes[0]
		var newAttrs []html.Attribute
		for _, attr := range node.Attr {
			keep := false
			switch node.Data {
			case "a":
				keep = attr.Key == "href" || attr.Key == "title"
			case "img":
				keep = attr.Key == "src" || attr.Key == "alt"
			}
			if keep {
				newAttrs = append(newAttrs, attr)
			}
		}
		node.Attr = newAttrs
	})

	// Return sanitized HTML (preserve tags for downstream converters)
	htmlStr, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(htmlStr), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func headerRow(titles ...string) *html.Node {
	thead := element(atom.Thead)
	tr := element(atom.Tr)
	for _, t := range titles {
		tr.AppendChild(withText(element(atom.Th), t))
	}
	thead.AppendChild(tr)
	return thead
}

func row(cells ...*html.Node) *html.Node {
	tr := element(atom.Tr)
	for _, c := range cells {
		tr.AppendChild(c)
	}
	return tr
}

func link(href, title string) *html.Node {
	td := element(atom.Td)
	td.AppendChild(withText(element(atom.A, html.Attribute{Key: "href", Val: href}), title))
	return td
}

func poster(src, alt string) *html.Node {
	td := element(atom.Td)
	if src != "" {
		td.AppendChild(element(atom.Img,
			html.Attribute{Key: "src", Val: src},
			html.Attribute{Key: "alt", Val: alt},
			html.Attribute{Key: "loading", Val: "lazy"},
		))
	}
	return td
}

func stars(rating float64) *html.Node {
	td := element(atom.Td, html.Attribute{Key: "class", Val: "stars"})
	return withText(td, ui.StarsWithValue(rating))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
