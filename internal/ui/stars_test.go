package ui

import "testing"

func TestStars(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
	}{
		{0, "☆☆☆☆☆"},
		{0.5, "½☆☆☆☆"},
		{3, "★★★☆☆"},
		{3.5, "★★★½☆"},
		{5, "★★★★★"},
	}
	for _, tt := range tests {
		if got := Stars(tt.rating); got != tt.want {
			t.Errorf("Stars(%v) = %q, want %q", tt.rating, got, tt.want)
		}
	}
	if got := StarsWithValue(4.5); got != "★★★★½ (4.5)" {
		t.Errorf("Unexpected StarsWithValue: %q", got)
	}
}

func TestHeadlines(t *testing.T) {
	if got := RecommendationsHeadline(1, "alice"); got != "1 Recommendation from alice" {
		t.Errorf("Unexpected headline: %q", got)
	}
	if got := RecommendationsHeadline(12, "alice"); got != "12 Recommendations from alice" {
		t.Errorf("Unexpected headline: %q", got)
	}
	if got := SharedHeadline(3, "alice", "bob"); got != "3 Films Both alice and bob Have Seen" {
		t.Errorf("Unexpected headline: %q", got)
	}
	if got := SharedHeadline(1, "alice", "bob"); got != "1 Film Both alice and bob Have Seen" {
		t.Errorf("Unexpected headline: %q", got)
	}
	if got := NoRecommendations("alice", "bob"); got != "No unique rated films found for alice that bob hasn't seen." {
		t.Errorf("Unexpected fallback: %q", got)
	}
}
