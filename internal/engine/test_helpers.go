package engine

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// FakeSite is an in-memory Fetcher serving canned listing pages.
// Unknown addresses answer 404.
type FakeSite struct {
	Base  string
	Delay time.Duration

	mu       sync.Mutex
	pages    map[string]*Response
	hits     map[string]int
	requests int
	inFlight int
	peak     int
}

// NewFakeSite creates an empty site rooted at base
func NewFakeSite(base string) *FakeSite {
	return &FakeSite{
		Base:  base,
		pages: make(map[string]*Response),
		hits:  make(map[string]int),
	}
}

// AddListing serves bodies as pages 1..N of a listing
func (s *FakeSite) AddListing(subject string, l Listing, genre string, bodies ...string) {
	for i, body := range bodies {
		s.Set(ListingURL(s.Base, subject, l, genre, i+1), &Response{OK: true, Status: http.StatusOK, Body: body})
	}
}

// Set serves resp at url
func (s *FakeSite) Set(url string, resp *Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[url] = resp
}

// Fail makes url answer with the given status
func (s *FakeSite) Fail(url string, status int) {
	s.Set(url, &Response{OK: false, Status: status})
}

// Fetch implements Fetcher
func (s *FakeSite) Fetch(ctx context.Context, url string) (*Response, error) {
	s.mu.Lock()
	s.requests++
	s.hits[url]++
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	resp, ok := s.pages[url]
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if !ok {
		return &Response{OK: false, Status: http.StatusNotFound}, nil
	}
	copied := *resp
	return &copied, nil
}

// Hits returns how many times url was requested
func (s *FakeSite) Hits(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[url]
}

// Requests returns the total number of fetches
func (s *FakeSite) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// PeakInFlight returns the highest number of concurrent fetches observed
func (s *FakeSite) PeakInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}
