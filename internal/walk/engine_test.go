package walk

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"phonotaxis/internal/corpus"
	"phonotaxis/internal/model"
)

func wideBits(set ...int) []bool {
	out := make([]bool, 12)
	for _, i := range set {
		out[i] = true
	}
	return out
}

// The three-record corpus from the characterization scenario: pa is one bit
// from ka, mo is two bits from ka and one from pa.
func scenarioCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	return mustCorpus(t,
		model.CorpusRecord{Syllable: "ka", Features: wideBits(), Frequency: 10},
		model.CorpusRecord{Syllable: "pa", Features: wideBits(0), Frequency: 10},
		model.CorpusRecord{Syllable: "mo", Features: wideBits(0, 1), Frequency: 1},
	)
}

// driftCorpus builds a reproducible 26-record corpus with varied feature
// vectors and frequencies for statistical tests.
func driftCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	records := make([]model.CorpusRecord, 0, 26)
	for i := 0; i < 26; i++ {
		features := make([]bool, 12)
		for j := range features {
			features[j] = rng.Intn(2) == 1
		}
		records = append(records, model.CorpusRecord{
			Syllable:  string(rune('a'+i)) + "a",
			Features:  features,
			Frequency: rng.Intn(50),
		})
	}
	c, err := corpus.New(records)
	if err != nil {
		t.Fatalf("build drift corpus: %v", err)
	}
	return c
}

func TestRunIsDeterministic(t *testing.T) {
	engine := NewEngine(driftCorpus(t))
	profile := Profile{Temperature: 0.9, FrequencyWeight: 0.5}

	first, err := engine.Run("aa", profile, 40, 42)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.Run("aa", profile, 40, 42)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different trajectories")
	}

	diverged, err := engine.Run("aa", profile, 40, 43)
	if err != nil {
		t.Fatalf("diverged run: %v", err)
	}
	if reflect.DeepEqual(first.Steps, diverged.Steps) {
		t.Fatal("different seeds should almost surely diverge over 40 steps")
	}
}

func TestRunScenarioKaPaMo(t *testing.T) {
	engine := NewEngine(scenarioCorpus(t))
	profile := Profile{Temperature: 1.0, FrequencyWeight: 0.0}

	first, err := engine.Run("ka", profile, 2, 42)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := engine.Run("ka", profile, 2, 42)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("scenario walk is not reproducible")
	}

	if first.TerminalState != Completed || first.ActualSteps != 2 || len(first.Steps) != 2 {
		t.Fatalf("expected 2 completed steps, got %+v", first)
	}
	if first.Steps[0].From != "ka" {
		t.Fatalf("first step must leave ka, got %+v", first.Steps[0])
	}
	switch first.Steps[0].To {
	case "pa":
		if first.Steps[0].Distance != 1 {
			t.Fatalf("ka->pa distance must be 1, got %d", first.Steps[0].Distance)
		}
	case "mo":
		if first.Steps[0].Distance != 2 {
			t.Fatalf("ka->mo distance must be 2, got %d", first.Steps[0].Distance)
		}
	default:
		t.Fatalf("first step reached unexpected syllable %s", first.Steps[0].To)
	}
}

func TestRunStepRecordsAreConsistent(t *testing.T) {
	c := driftCorpus(t)
	engine := NewEngine(c)
	profile := Profile{Temperature: 1.2, FrequencyWeight: -0.5}

	result, err := engine.Run("ma", profile, 30, 11)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	current, _ := c.Get(result.Start)
	for _, step := range result.Steps {
		if step.From != current.Syllable {
			t.Fatalf("step %d: from %s, expected %s", step.StepIndex, step.From, current.Syllable)
		}
		if step.Distance < 0 || step.Distance > c.FeatureWidth() {
			t.Fatalf("step %d: distance %d out of [0,%d]", step.StepIndex, step.Distance, c.FeatureWidth())
		}
		if step.Probability <= 0 || step.Probability > 1 {
			t.Fatalf("step %d: probability %v out of (0,1]", step.StepIndex, step.Probability)
		}

		// Replaying the scorer at this position must reproduce the recorded
		// probability mass of the chosen candidate.
		candidates := ScoreCandidates(c, current, profile)
		total := 0.0
		var chosenWeight float64
		for _, candidate := range candidates {
			total += candidate.Weight
			if candidate.Syllable == step.To {
				chosenWeight = candidate.Weight
			}
		}
		want := chosenWeight / total
		if diff := step.Probability - want; diff > 1e-12 || diff < -1e-12 {
			t.Fatalf("step %d: probability %v does not match replayed mass %v", step.StepIndex, step.Probability, want)
		}

		current, _ = c.Get(step.To)
	}
}

func TestRunTerminatesOnSingleRecordCorpus(t *testing.T) {
	c := mustCorpus(t, model.CorpusRecord{Syllable: "ka", Features: wideBits(), Frequency: 3})
	engine := NewEngine(c)

	result, err := engine.Run("ka", Profile{Temperature: 1.0}, 10, 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.TerminalState != Terminated {
		t.Fatalf("expected Terminated, got %s", result.TerminalState)
	}
	if result.ActualSteps != 0 || len(result.Steps) != 0 {
		t.Fatalf("expected zero steps, got %+v", result)
	}
	if result.RequestedSteps != 10 {
		t.Fatalf("requested steps not preserved: %+v", result)
	}
}

func TestRunAllowSelfKeepsSingleRecordWalkAlive(t *testing.T) {
	c := mustCorpus(t, model.CorpusRecord{Syllable: "ka", Features: wideBits(), Frequency: 3})
	engine := NewEngine(c)

	result, err := engine.Run("ka", Profile{Temperature: 1.0, AllowSelf: true}, 4, 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.TerminalState != Completed || result.ActualSteps != 4 {
		t.Fatalf("expected 4 self-steps, got %+v", result)
	}
	for _, step := range result.Steps {
		if step.From != "ka" || step.To != "ka" || step.Distance != 0 || step.Probability != 1 {
			t.Fatalf("unexpected self step: %+v", step)
		}
	}
}

func TestRunStepCountContract(t *testing.T) {
	engine := NewEngine(driftCorpus(t))
	for _, steps := range []int{0, 1, 5, 50} {
		result, err := engine.Run("ba", Profile{Temperature: 0.5}, steps, 3)
		if err != nil {
			t.Fatalf("run %d steps: %v", steps, err)
		}
		if result.ActualSteps > result.RequestedSteps {
			t.Fatalf("actual %d exceeds requested %d", result.ActualSteps, result.RequestedSteps)
		}
		if result.TerminalState == Completed && result.ActualSteps != steps {
			t.Fatalf("completed walk took %d of %d steps", result.ActualSteps, steps)
		}
	}
}

func TestRunValidationFailures(t *testing.T) {
	engine := NewEngine(scenarioCorpus(t))

	_, err := engine.Run("xu", Profile{Temperature: 1.0}, 1, 1)
	if !errors.Is(err, ErrUnknownStartSyllable) {
		t.Fatalf("expected ErrUnknownStartSyllable, got %v", err)
	}

	_, err = engine.Run("ka", Profile{Temperature: 0}, 1, 1)
	if !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}

	_, err = engine.Run("ka", Profile{Temperature: 1.0}, -1, 1)
	if !errors.Is(err, ErrInvalidStepCount) {
		t.Fatalf("expected ErrInvalidStepCount, got %v", err)
	}

	_, err = NewEngine(nil).Run("ka", Profile{Temperature: 1.0}, 1, 1)
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}

	result, _ := engine.Run("xu", Profile{Temperature: 1.0}, 1, 1)
	if result.TerminalState != Failed {
		t.Fatalf("validation failure should report Failed, got %s", result.TerminalState)
	}
}

func TestRunNormalizesStartKey(t *testing.T) {
	engine := NewEngine(scenarioCorpus(t))
	result, err := engine.Run(" KA ", Profile{Temperature: 1.0}, 1, 4)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Start != "ka" {
		t.Fatalf("expected normalized start ka, got %s", result.Start)
	}
}

// Conservative profiles must hug near neighbors while chaotic profiles roam:
// over many seeds the clerical mean step distance sits below the ritual one.
func TestProfileOrderingClericalVsRitual(t *testing.T) {
	c := driftCorpus(t)
	engine := NewEngine(c)

	meanStepDistance := func(profile Profile) float64 {
		totalDistance := 0
		totalSteps := 0
		for seed := int64(0); seed < 60; seed++ {
			result, err := engine.Run("aa", profile, 25, seed)
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
			for _, step := range result.Steps {
				totalDistance += step.Distance
			}
			totalSteps += result.ActualSteps
		}
		if totalSteps == 0 {
			t.Fatal("no steps taken")
		}
		return float64(totalDistance) / float64(totalSteps)
	}

	clerical, _ := ProfileFromName("clerical")
	ritual, _ := ProfileFromName("ritual")

	clericalMean := meanStepDistance(clerical)
	ritualMean := meanStepDistance(ritual)
	if clericalMean >= ritualMean {
		t.Fatalf("expected clerical mean distance %v below ritual %v", clericalMean, ritualMean)
	}
}
