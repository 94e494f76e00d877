package models

import "time"

// MovieRecord is one film as it appears on a user's listing page.
// URL is the identity: two records with the same URL are the same film.
type MovieRecord struct {
	URL       string  `json:"url"`
	Title     string  `json:"title,omitempty"`
	Rating    float64 `json:"rating"`
	PosterURL string  `json:"poster_url,omitempty"`
}

// Rated reports whether the record carries a star rating.
// A zero rating means watched but unrated.
func (m MovieRecord) Rated() bool {
	return m.Rating > 0
}

// SharedRecord joins the ratings both users gave the same film
type SharedRecord struct {
	URL            string  `json:"url"`
	Title          string  `json:"title"`
	UserARating    float64 `json:"user_a_rating"`
	UserAPoster    string  `json:"user_a_poster,omitempty"`
	UserBRating    float64 `json:"user_b_rating"`
	UserBPoster    string  `json:"user_b_poster,omitempty"`
	CombinedRating float64 `json:"combined_rating"`
}

// ProgressSnapshot is a transient status update pushed to the caller while crawling.
// TotalPages of 0 means there is no page context (analysis or comparing phases).
type ProgressSnapshot struct {
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
}

// Percent returns the completion percentage, clamped to 100
func (p ProgressSnapshot) Percent() int {
	if p.TotalPages <= 0 {
		return 0
	}
	pct := p.CurrentPage * 100 / p.TotalPages
	if pct > 100 {
		return 100
	}
	return pct
}

// SortKey selects the ordering of shared records
type SortKey string

const (
	SortCombined SortKey = "combined"
	SortUserA    SortKey = "user-a"
	SortUserB    SortKey = "user-b"
	SortTitle    SortKey = "title"
)

// Mode names the comparison that produced a result
type Mode string

const (
	ModeUnique Mode = "unique"
	ModeShared Mode = "shared"
)

// ComparisonResult is the envelope handed to output writers
type ComparisonResult struct {
	Mode            Mode           `json:"mode"`
	UserA           string         `json:"user_a"`
	UserB           string         `json:"user_b"`
	Genre           string         `json:"genre,omitempty"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Recommendations []MovieRecord  `json:"recommendations,omitempty"`
	Shared          []SharedRecord `json:"shared,omitempty"`
}

// Count returns the number of result rows regardless of mode
func (r *ComparisonResult) Count() int {
	if r.Mode == ModeShared {
		return len(r.Shared)
	}
	return len(r.Recommendations)
}
