package httpserver

import "phonotaxis/internal/model"

type walkRequest struct {
	Corpus          string  `json:"corpus"`
	Start           string  `json:"start"`
	Profile         string  `json:"profile,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
	FrequencyWeight float64 `json:"frequency_weight,omitempty"`
	MaxCandidates   int     `json:"max_candidates,omitempty"`
	AllowSelf       bool    `json:"allow_self,omitempty"`
	Steps           int     `json:"steps"`
	Seed            int64   `json:"seed"`
	WalkID          string  `json:"walk_id,omitempty"`
}

type walkSummaryResponse struct {
	WalkID         string             `json:"walk_id"`
	Start          string             `json:"start"`
	TerminalState  string             `json:"terminal_state"`
	RequestedSteps int                `json:"requested_steps"`
	ActualSteps    int                `json:"actual_steps"`
	Steps          []model.StepRecord `json:"steps"`
}

type profileResponse struct {
	Name            string  `json:"name"`
	Temperature     float64 `json:"temperature"`
	FrequencyWeight float64 `json:"frequency_weight"`
}
