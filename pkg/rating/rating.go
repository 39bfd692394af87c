// Package rating implements the Elo update used for ranked multiplayer matches.
package rating

import "math"

const (
	// Default is the rating assigned to accounts that never played ranked.
	Default = 1200

	kFactor = 32
)

// ExpectedScore returns the probability of the self side beating the opponent.
func ExpectedScore(self, opponent int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponent-self)/400))
}

// New computes the updated rating for one side of a decisive match.
// Ties are never rated, so the actual score is either 1 or 0.
// Both sides of a match must be computed from the pre-match ratings.
func New(self, opponent int, won bool) int {
	actual := 0.0
	if won {
		actual = 1.0
	}
	return self + int(math.Round(kFactor*(actual-ExpectedScore(self, opponent))))
}

// Delta returns the rating change New would apply.
func Delta(self, opponent int, won bool) int {
	return New(self, opponent, won) - self
}
