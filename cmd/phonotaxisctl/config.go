package main

import (
	"encoding/json"
	"os"

	"phonotaxis/pkg/phonotaxis"
)

// loadWalkRequestFromConfig reads a walk request from a JSON file. Numeric
// fields tolerate the usual JSON number decoding; unknown keys are ignored.
func loadWalkRequestFromConfig(path string) (phonotaxis.WalkRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return phonotaxis.WalkRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return phonotaxis.WalkRequest{}, err
	}

	var req phonotaxis.WalkRequest
	if v, ok := asString(raw["corpus"]); ok {
		req.Corpus = v
	}
	if v, ok := asString(raw["start"]); ok {
		req.Start = v
	}
	if v, ok := asString(raw["profile"]); ok {
		req.Profile = v
	}
	if v, ok := asFloat64(raw["temperature"]); ok {
		req.Temperature = v
	}
	if v, ok := asFloat64(raw["frequency_weight"]); ok {
		req.FrequencyWeight = v
	}
	if v, ok := asInt(raw["max_candidates"]); ok {
		req.MaxCandidates = v
	}
	if v, ok := asBool(raw["allow_self"]); ok {
		req.AllowSelf = v
	}
	if v, ok := asInt(raw["steps"]); ok {
		req.Steps = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asString(raw["walk_id"]); ok {
		req.WalkID = v
	}
	return req, nil
}

// overrideWalkRequestFromFlags applies only the flags the user explicitly set
// on top of a config-file request.
func overrideWalkRequestFromFlags(req *phonotaxis.WalkRequest, setFlags map[string]bool,
	corpusName, start, profileName string, temperature, frequencyWeight float64,
	maxCandidates int, allowSelf bool, steps int, seed int64, walkID string) {
	if setFlags["corpus"] {
		req.Corpus = corpusName
	}
	if setFlags["start"] {
		req.Start = start
	}
	if setFlags["profile"] {
		req.Profile = profileName
	}
	if setFlags["temperature"] {
		req.Temperature = temperature
	}
	if setFlags["frequency-weight"] {
		req.FrequencyWeight = frequencyWeight
	}
	if setFlags["max-candidates"] {
		req.MaxCandidates = maxCandidates
	}
	if setFlags["allow-self"] {
		req.AllowSelf = allowSelf
	}
	if setFlags["steps"] {
		req.Steps = steps
	}
	if setFlags["seed"] {
		req.Seed = seed
	}
	if setFlags["walk-id"] {
		req.WalkID = walkID
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
