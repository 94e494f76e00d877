package extract

import (
	"fmt"
	"strings"
)

// FixtureItem describes one grid item of a synthetic listing page
type FixtureItem struct {
	Link   string
	Title  string
	Halves int // rated-N token, 0 for unrated
	Poster string
}

// FixturePage renders a listing page in the site's markup for tests.
// lastPage <= 0 omits the pagination control entirely.
func FixturePage(items []FixtureItem, lastPage int) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body><ul class="grid">`)
	for _, it := range items {
		b.WriteString(`<li class="griditem">`)
		fmt.Fprintf(&b, `<div class="react-component" data-item-link="%s"`, it.Link)
		if it.Title != "" {
			fmt.Fprintf(&b, ` data-item-name="%s"`, it.Title)
		}
		b.WriteString(`>`)
		if it.Poster != "" {
			fmt.Fprintf(&b, `<img src="%s" alt="">`, it.Poster)
		}
		b.WriteString(`</div><p class="poster-viewingdata">`)
		if it.Halves > 0 {
			fmt.Fprintf(&b, `<span class="rating -micro rated-%d"></span>`, it.Halves)
		}
		b.WriteString(`</p></li>`)
	}
	b.WriteString(`</ul>`)
	if lastPage > 0 {
		b.WriteString(`<div class="paginate-pages"><ul>`)
		for p := 1; p <= lastPage; p++ {
			if p == 1 {
				b.WriteString(`<li class="paginate-page paginate-current"><span>1</span></li>`)
				continue
			}
			fmt.Fprintf(&b, `<li class="paginate-page"><a href="/page/%d/">%d</a></li>`, p, p)
		}
		b.WriteString(`</ul></div>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}
