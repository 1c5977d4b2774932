package walk

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Choose draws one candidate by inverse-CDF (roulette-wheel) selection.
// Candidates are stable-sorted by syllable key before the cumulative pass, so
// an identical seed and candidate set always reproduces the same draw no
// matter what order the caller assembled them in. The returned probability is
// the chosen candidate's normalized mass at selection time.
func Choose(rng *rand.Rand, candidates []Candidate) (Candidate, float64, error) {
	if rng == nil {
		return Candidate{}, 0, fmt.Errorf("random source is required")
	}
	if len(candidates) == 0 {
		return Candidate{}, 0, ErrNoCandidates
	}

	ordered := append([]Candidate(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Syllable < ordered[j].Syllable
	})

	total := 0.0
	for _, candidate := range ordered {
		if candidate.Weight < 0 || math.IsNaN(candidate.Weight) || math.IsInf(candidate.Weight, 0) {
			return Candidate{}, 0, fmt.Errorf("candidate %s has invalid weight %v", candidate.Syllable, candidate.Weight)
		}
		total += candidate.Weight
	}
	if total <= 0 {
		return Candidate{}, 0, fmt.Errorf("candidate weights sum to %v, nothing to sample", total)
	}

	draw := rng.Float64()
	cumulative := 0.0
	for _, candidate := range ordered {
		probability := candidate.Weight / total
		cumulative += probability
		if draw < cumulative {
			return candidate, probability, nil
		}
	}

	// Floating-point shortfall at the top of the wheel lands on the last
	// candidate with positive mass.
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].Weight > 0 {
			return ordered[i], ordered[i].Weight / total, nil
		}
	}
	return Candidate{}, 0, ErrNoCandidates
}
