package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// CorpusRecord is one syllable with its structural feature bits and its
// occurrence count in the source corpus.
type CorpusRecord struct {
	VersionedRecord
	Syllable  string `json:"syllable"`
	Features  []bool `json:"features"`
	Frequency int    `json:"frequency"`
}

// StepRecord is one taken step of a walk trajectory.
type StepRecord struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Distance    int     `json:"distance"`
	Probability float64 `json:"probability"`
	StepIndex   int     `json:"step_index"`
}

// WalkRun is a completed (or early-terminated) walk with everything needed
// to replay it: the request parameters and the produced trajectory.
type WalkRun struct {
	VersionedRecord
	ID              string       `json:"id"`
	CorpusName      string       `json:"corpus_name"`
	Start           string       `json:"start"`
	Profile         string       `json:"profile,omitempty"`
	Temperature     float64      `json:"temperature"`
	FrequencyWeight float64      `json:"frequency_weight"`
	MaxCandidates   int          `json:"max_candidates,omitempty"`
	AllowSelf       bool         `json:"allow_self,omitempty"`
	Seed            int64        `json:"seed"`
	RequestedSteps  int          `json:"requested_steps"`
	ActualSteps     int          `json:"actual_steps"`
	TerminalState   string       `json:"terminal_state"`
	Steps           []StepRecord `json:"steps"`
	CreatedAtUTC    string       `json:"created_at_utc"`
}
