package ui

import (
	"fmt"
	"strings"
)

// Star glyphs
const (
	StarFull  = "★"
	StarHalf  = "½"
	StarEmpty = "☆"
)

// Stars renders a 0..5 rating as five glyphs. A half step shows as ½ in
// place of the star it would half fill.
func Stars(rating float64) string {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		switch {
		case rating >= float64(i):
			b.WriteString(StarFull)
		case rating >= float64(i)-0.5:
			b.WriteString(StarHalf)
		default:
			b.WriteString(StarEmpty)
		}
	}
	return b.String()
}

// StarsWithValue renders the glyphs followed by the numeric rating
func StarsWithValue(rating float64) string {
	return fmt.Sprintf("%s (%.1f)", Stars(rating), rating)
}

// Plural returns singular when n is 1, otherwise singular+"s"
func Plural(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return singular + "s"
}

// RecommendationsHeadline titles a unique-mode result
func RecommendationsHeadline(n int, userA string) string {
	return fmt.Sprintf("%d %s from %s", n, Plural(n, "Recommendation"), userA)
}

// SharedHeadline titles a shared-mode result
func SharedHeadline(n int, userA, userB string) string {
	return fmt.Sprintf("%d %s Both %s and %s Have Seen", n, Plural(n, "Film"), userA, userB)
}

// NoRecommendations is shown when a unique comparison comes back empty
func NoRecommendations(userA, userB string) string {
	return fmt.Sprintf("No unique rated films found for %s that %s hasn't seen.", userA, userB)
}

// NoSharedFilms is shown when a shared comparison comes back empty
func NoSharedFilms(userA, userB string) string {
	return fmt.Sprintf("No films rated by both %s and %s.", userA, userB)
}
