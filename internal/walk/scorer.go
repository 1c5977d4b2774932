package walk

import (
	"math"
	"sort"

	"phonotaxis/internal/corpus"
	"phonotaxis/internal/model"
)

// Candidate is one scored corpus entry offered to the sampler.
type Candidate struct {
	Syllable string
	Distance int
	Weight   float64
}

// Score computes the selection weight of candidate relative to current:
// exp(-d/T) * (freq+1)^F. The +1 keeps zero-frequency syllables defined when
// the profile favors rarity.
func Score(current, candidate model.CorpusRecord, profile Profile) float64 {
	d := Hamming(current.Features, candidate.Features)
	proximity := math.Exp(-float64(d) / profile.Temperature)
	frequency := math.Pow(float64(candidate.Frequency)+1, profile.FrequencyWeight)
	return proximity * frequency
}

// ScoreCandidates weighs every corpus entry reachable from current under the
// profile. The current syllable itself is excluded unless AllowSelf is set.
// When MaxCandidates is positive only the nearest entries are scored, ties
// broken by lexicographically smaller syllable key, so the offered set stays
// deterministic. A nil return means the distribution is empty and the walk
// has nowhere left to go.
func ScoreCandidates(c *corpus.Corpus, current model.CorpusRecord, profile Profile) []Candidate {
	candidates := make([]Candidate, 0, c.Len())
	for _, record := range c.Records() {
		if !profile.AllowSelf && record.Syllable == current.Syllable {
			continue
		}
		candidates = append(candidates, Candidate{
			Syllable: record.Syllable,
			Distance: Hamming(current.Features, record.Features),
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	if profile.MaxCandidates > 0 && len(candidates) > profile.MaxCandidates {
		// Records() iterates in sorted key order, so a stable sort on
		// distance alone preserves the key tie-break.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Distance < candidates[j].Distance
		})
		candidates = candidates[:profile.MaxCandidates]
	}

	total := 0.0
	for i := range candidates {
		record, _ := c.Get(candidates[i].Syllable)
		candidates[i].Weight = Score(current, record, profile)
		total += candidates[i].Weight
	}
	if total <= 0 {
		return nil
	}
	return candidates
}
