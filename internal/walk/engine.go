package walk

import (
	"fmt"
	"math/rand"

	"phonotaxis/internal/corpus"
	"phonotaxis/internal/model"
	"phonotaxis/internal/syllable"
)

// TerminalState names how a walk ended. Failed is reserved for invalid inputs
// caught before the first step; running out of reachable candidates mid-walk
// is the Terminated state and is not an error.
type TerminalState int

const (
	NotStarted TerminalState = iota
	Running
	Completed
	Terminated
	Failed
)

func (s TerminalState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Terminated:
		return "terminated"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Result is the trajectory of one walk: the start syllable plus every taken
// step, with the terminal state and step accounting.
type Result struct {
	Start          string
	Steps          []model.StepRecord
	TerminalState  TerminalState
	RequestedSteps int
	ActualSteps    int
}

// Engine runs walks over one read-only corpus. It holds no mutable state
// between runs; each run owns its own seeded generator, so concurrent runs on
// the same engine are safe.
type Engine struct {
	corpus *corpus.Corpus
}

func NewEngine(c *corpus.Corpus) *Engine {
	return &Engine{corpus: c}
}

// Run validates the request, then repeatedly scores and samples until the
// requested step count is reached or the neighborhood is exhausted. Identical
// (corpus, start, profile, seed, steps) inputs reproduce the identical
// trajectory on every run and platform.
func (e *Engine) Run(start string, profile Profile, steps int, seed int64) (Result, error) {
	if e.corpus == nil || e.corpus.Len() == 0 {
		return Result{TerminalState: Failed}, ErrEmptyCorpus
	}
	if steps < 0 {
		return Result{TerminalState: Failed}, fmt.Errorf("%w: got %d", ErrInvalidStepCount, steps)
	}
	if err := profile.Validate(); err != nil {
		return Result{TerminalState: Failed}, err
	}
	startKey := syllable.Normalize(start)
	current, ok := e.corpus.Get(startKey)
	if !ok {
		return Result{TerminalState: Failed}, fmt.Errorf("%w: %s", ErrUnknownStartSyllable, start)
	}

	rng := rand.New(rand.NewSource(seed))
	result := Result{
		Start:          startKey,
		Steps:          make([]model.StepRecord, 0, steps),
		RequestedSteps: steps,
	}

	for stepIndex := 0; stepIndex < steps; stepIndex++ {
		candidates := ScoreCandidates(e.corpus, current, profile)
		if len(candidates) == 0 {
			result.TerminalState = Terminated
			result.ActualSteps = len(result.Steps)
			return result, nil
		}

		chosen, probability, err := Choose(rng, candidates)
		if err != nil {
			// Unreachable with a validated profile and a non-empty
			// distribution; surfaced rather than swallowed.
			return Result{TerminalState: Failed}, err
		}

		result.Steps = append(result.Steps, model.StepRecord{
			From:        current.Syllable,
			To:          chosen.Syllable,
			Distance:    chosen.Distance,
			Probability: probability,
			StepIndex:   stepIndex,
		})
		current, _ = e.corpus.Get(chosen.Syllable)
	}

	result.TerminalState = Completed
	result.ActualSteps = len(result.Steps)
	return result, nil
}
