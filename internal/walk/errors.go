package walk

import "errors"

var (
	// ErrUnknownStartSyllable reports a start key absent from the corpus.
	ErrUnknownStartSyllable = errors.New("start syllable not present in corpus")
	// ErrInvalidProfile reports an out-of-range profile field.
	ErrInvalidProfile = errors.New("invalid walk profile")
	// ErrInvalidStepCount reports a negative requested step count.
	ErrInvalidStepCount = errors.New("step count must be >= 0")
	// ErrEmptyCorpus reports a corpus with zero records.
	ErrEmptyCorpus = errors.New("corpus has no records")
	// ErrNoCandidates reports a sampler invocation with nothing to draw from.
	ErrNoCandidates = errors.New("no candidates to sample")
	// ErrUnknownProfile reports a preset name with no registered profile.
	ErrUnknownProfile = errors.New("unknown walk profile name")
)
