package walk

import (
	"math"
	"testing"

	"phonotaxis/internal/corpus"
	"phonotaxis/internal/model"
)

func mustCorpus(t *testing.T, records ...model.CorpusRecord) *corpus.Corpus {
	t.Helper()
	c, err := corpus.New(records)
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	return c
}

func bits(pattern ...int) []bool {
	out := make([]bool, len(pattern))
	for i, b := range pattern {
		out[i] = b != 0
	}
	return out
}

func TestScoreFormula(t *testing.T) {
	current := model.CorpusRecord{Syllable: "ka", Features: bits(0, 0, 0, 0)}
	candidate := model.CorpusRecord{Syllable: "pa", Features: bits(1, 0, 0, 0), Frequency: 3}

	got := Score(current, candidate, Profile{Temperature: 1.0, FrequencyWeight: 0.0})
	want := math.Exp(-1)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("frequency-neutral score = %v, want %v", got, want)
	}

	got = Score(current, candidate, Profile{Temperature: 1.0, FrequencyWeight: 1.0})
	want = math.Exp(-1) * 4
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("frequency-favoring score = %v, want %v", got, want)
	}

	// The +1 smoothing keeps zero-frequency records defined under rarity bias.
	zeroFreq := model.CorpusRecord{Syllable: "mo", Features: bits(1, 0, 0, 0), Frequency: 0}
	got = Score(current, zeroFreq, Profile{Temperature: 1.0, FrequencyWeight: -1.0})
	if math.IsNaN(got) || math.IsInf(got, 0) || got <= 0 {
		t.Fatalf("zero-frequency rarity score should be positive and finite, got %v", got)
	}
}

func TestScoreCandidatesExcludesSelf(t *testing.T) {
	c := mustCorpus(t,
		model.CorpusRecord{Syllable: "ka", Features: bits(0, 0), Frequency: 1},
		model.CorpusRecord{Syllable: "pa", Features: bits(1, 0), Frequency: 1},
	)
	current, _ := c.Get("ka")

	candidates := ScoreCandidates(c, current, Profile{Temperature: 1.0})
	if len(candidates) != 1 || candidates[0].Syllable != "pa" {
		t.Fatalf("expected only pa, got %+v", candidates)
	}

	withSelf := ScoreCandidates(c, current, Profile{Temperature: 1.0, AllowSelf: true})
	if len(withSelf) != 2 {
		t.Fatalf("expected self to be offered, got %+v", withSelf)
	}
}

func TestScoreCandidatesSingleRecordNoSelf(t *testing.T) {
	c := mustCorpus(t, model.CorpusRecord{Syllable: "ka", Features: bits(0, 0), Frequency: 1})
	current, _ := c.Get("ka")

	if candidates := ScoreCandidates(c, current, Profile{Temperature: 1.0}); candidates != nil {
		t.Fatalf("expected empty distribution, got %+v", candidates)
	}
}

func TestScoreCandidatesMaxCandidatesKeepsNearest(t *testing.T) {
	c := mustCorpus(t,
		model.CorpusRecord{Syllable: "ka", Features: bits(0, 0, 0, 0)},
		model.CorpusRecord{Syllable: "zu", Features: bits(1, 0, 0, 0)},
		model.CorpusRecord{Syllable: "pa", Features: bits(0, 1, 0, 0)},
		model.CorpusRecord{Syllable: "mo", Features: bits(1, 1, 0, 0)},
		model.CorpusRecord{Syllable: "ru", Features: bits(1, 1, 1, 0)},
	)
	current, _ := c.Get("ka")

	candidates := ScoreCandidates(c, current, Profile{Temperature: 1.0, MaxCandidates: 2})
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", candidates)
	}
	// Both distance-1 candidates win; the tie between them does not matter
	// here, but nothing at distance >= 2 may appear.
	for _, candidate := range candidates {
		if candidate.Distance != 1 {
			t.Fatalf("expected only distance-1 candidates, got %+v", candidates)
		}
	}
}

func TestScoreCandidatesMaxCandidatesTieBreaksByKey(t *testing.T) {
	c := mustCorpus(t,
		model.CorpusRecord{Syllable: "ka", Features: bits(0, 0, 0)},
		model.CorpusRecord{Syllable: "bo", Features: bits(1, 0, 0)},
		model.CorpusRecord{Syllable: "ul", Features: bits(0, 1, 0)},
		model.CorpusRecord{Syllable: "ra", Features: bits(0, 0, 1)},
	)
	current, _ := c.Get("ka")

	candidates := ScoreCandidates(c, current, Profile{Temperature: 1.0, MaxCandidates: 2})
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", candidates)
	}
	seen := map[string]bool{}
	for _, candidate := range candidates {
		seen[candidate.Syllable] = true
	}
	// All three are at distance 1; the lexicographically smaller keys stay.
	if !seen["bo"] || !seen["ra"] {
		t.Fatalf("expected tie-break to keep bo and ra, got %+v", candidates)
	}
}

func TestScoreCandidatesAllZeroWeightsIsEmpty(t *testing.T) {
	c := mustCorpus(t,
		model.CorpusRecord{Syllable: "ka", Features: bits(0, 0)},
		model.CorpusRecord{Syllable: "pa", Features: bits(1, 1)},
	)
	current, _ := c.Get("ka")

	// exp(-d/T) underflows to exactly zero once d/T passes ~745.
	profile := Profile{Temperature: 1e-4}
	if candidates := ScoreCandidates(c, current, profile); candidates != nil {
		t.Fatalf("expected empty distribution on weight underflow, got %+v", candidates)
	}
}
