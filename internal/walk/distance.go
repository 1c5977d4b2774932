// Package walk implements the stochastic drift through syllable feature
// space: the distance metric, profile-weighted candidate scoring, seeded
// roulette sampling, and the step-by-step engine that ties them together.
package walk

import "fmt"

// Hamming returns the count of positions where two equal-length feature
// vectors differ. Corpora are validated to a uniform width at construction,
// so a length mismatch here is a programming error, not an input error.
func Hamming(a, b []bool) int {
	if len(a) != len(b) {
		panic(fmt.Sprintf("walk: feature width mismatch: %d vs %d", len(a), len(b)))
	}
	distance := 0
	for i := range a {
		if a[i] != b[i] {
			distance++
		}
	}
	return distance
}
