package extract

import (
	"strconv"
	"strings"

	"github.com/law-makers/boxdiff/internal/markup"
)

const (
	PaginationSelector  = ".paginate-pages"
	PageLinkSelector    = ".paginate-page a"
	CurrentPageSelector = ".paginate-current"
)

// LastPage returns how many pages the listing spans, judged from its first page.
// Anything unreadable resolves to 1; it never fails the crawl.
func LastPage(page markup.Node) int {
	if page == nil {
		return 1
	}
	pagination, ok := page.First(PaginationSelector)
	if !ok {
		return 1
	}

	links := pagination.Find(PageLinkSelector)
	if len(links) == 0 {
		current, ok := pagination.First(CurrentPageSelector)
		if !ok {
			return 1
		}
		return pageNumber(current.Text())
	}

	return pageNumber(links[len(links)-1].Text())
}

func pageNumber(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
