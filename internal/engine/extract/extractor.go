// Package extract turns parsed Letterboxd listing pages into film records.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/law-makers/boxdiff/internal/markup"
	urlutil "github.com/law-makers/boxdiff/internal/utils/url"
	"github.com/law-makers/boxdiff/pkg/models"
)

// Selectors and attributes of the listing markup
const (
	ItemSelector       = "li.griditem"
	DescriptorSelector = "div.react-component"
	RatingSelector     = "p.poster-viewingdata .rating"
	PosterSelector     = "img"

	LinkAttr  = "data-item-link"
	TitleAttr = "data-item-name"

	// UnknownTitle is used when an item carries no name attribute
	UnknownTitle = "Unknown Title"

	// PosterSize is the size token every poster URL is rewritten to
	PosterSize = "-0-230-0-345-"
)

var (
	ratedClass = regexp.MustCompile(`^rated-(\d+)$`)
	posterSize = regexp.MustCompile(`-\d+-\d+-\d+-\d+-`)
)

// Func extracts the records of a single page
type Func func(page markup.Node) []models.MovieRecord

// Extractor resolves item links against BaseURL so records carry absolute URLs
type Extractor struct {
	BaseURL string
}

// New creates an Extractor for the given site root
func New(baseURL string) *Extractor {
	return &Extractor{BaseURL: baseURL}
}

// Rated returns the rated items of a page. Watched-but-unrated items are dropped.
func (e *Extractor) Rated(page markup.Node) []models.MovieRecord {
	return e.extract(page, false, true)
}

// RatedWithPosters is Rated with normalized poster URLs attached
func (e *Extractor) RatedWithPosters(page markup.Node) []models.MovieRecord {
	return e.extract(page, true, true)
}

// Watched returns the bare identity of every item on the page, rated or not
func (e *Extractor) Watched(page markup.Node) []models.MovieRecord {
	if page == nil {
		return nil
	}
	var records []models.MovieRecord
	for _, item := range page.Find(ItemSelector) {
		link, ok := itemLink(item)
		if !ok {
			continue
		}
		records = append(records, models.MovieRecord{URL: urlutil.ResolveURL(e.BaseURL, link)})
	}
	return records
}

func (e *Extractor) extract(page markup.Node, posters, ratedOnly bool) []models.MovieRecord {
	if page == nil {
		return nil
	}

	var records []models.MovieRecord
	for _, item := range page.Find(ItemSelector) {
		descriptor, ok := item.First(DescriptorSelector)
		if !ok {
			continue
		}
		link, ok := descriptor.Attr(LinkAttr)
		if !ok || strings.TrimSpace(link) == "" {
			continue
		}

		title, ok := descriptor.Attr(TitleAttr)
		if !ok || strings.TrimSpace(title) == "" {
			title = UnknownTitle
		}

		record := models.MovieRecord{
			URL:    urlutil.ResolveURL(e.BaseURL, link),
			Title:  strings.TrimSpace(title),
			Rating: Rating(item),
		}
		if ratedOnly && !record.Rated() {
			continue
		}
		if posters {
			record.PosterURL = PosterURL(item)
		}
		records = append(records, record)
	}
	return records
}

func itemLink(item markup.Node) (string, bool) {
	descriptor, ok := item.First(DescriptorSelector)
	if !ok {
		return "", false
	}
	link, ok := descriptor.Attr(LinkAttr)
	if !ok || strings.TrimSpace(link) == "" {
		return "", false
	}
	return link, true
}

// Rating reads the rated-N class token of an item. N counts half stars.
// Items without the token are unrated and yield 0.
func Rating(item markup.Node) float64 {
	span, ok := item.First(RatingSelector)
	if !ok {
		return 0
	}
	for _, class := range span.Classes() {
		m := ratedClass.FindStringSubmatch(class)
		if m == nil {
			continue
		}
		halves, err := strconv.Atoi(m[1])
		if err != nil || halves < 1 || halves > 10 {
			return 0
		}
		return float64(halves) / 2
	}
	return 0
}

// PosterURL returns the item's poster from src, falling back to data-src,
// rewritten to the common PosterSize
func PosterURL(item markup.Node) string {
	img, ok := item.First(PosterSelector)
	if !ok {
		return ""
	}
	src, _ := img.Attr("src")
	if strings.TrimSpace(src) == "" {
		src, _ = img.Attr("data-src")
	}
	return NormalizePoster(strings.TrimSpace(src))
}

// NormalizePoster replaces the last size token of a poster URL with PosterSize.
// URLs without a size token are returned unchanged.
func NormalizePoster(src string) string {
	locs := posterSize.FindAllStringIndex(src, -1)
	if len(locs) == 0 {
		return src
	}
	last := locs[len(locs)-1]
	return src[:last[0]] + PosterSize + src[last[1]:]
}
