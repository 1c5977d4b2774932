package walk

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Profile bundles the knobs that shape candidate selection. Low temperature
// keeps the walk near-greedy toward close neighbors; high temperature flattens
// the distribution toward uniform. FrequencyWeight is an exponent on corpus
// frequency: positive favors common syllables, negative favors rare ones.
type Profile struct {
	Temperature     float64
	FrequencyWeight float64
	MaxCandidates   int
	AllowSelf       bool
}

// Validate checks profile fields once, before a walk starts. A temperature of
// zero is rejected rather than treated as greedy: the exponential weighting is
// undefined there, and greedy traversal would have to be a separate mode.
func (p Profile) Validate() error {
	if math.IsNaN(p.Temperature) || math.IsInf(p.Temperature, 0) || p.Temperature <= 0 {
		return fmt.Errorf("%w: temperature must be > 0, got %v", ErrInvalidProfile, p.Temperature)
	}
	if math.IsNaN(p.FrequencyWeight) || math.IsInf(p.FrequencyWeight, 0) {
		return fmt.Errorf("%w: frequency weight must be finite, got %v", ErrInvalidProfile, p.FrequencyWeight)
	}
	if p.MaxCandidates < 0 {
		return fmt.Errorf("%w: max candidates must be >= 0, got %d", ErrInvalidProfile, p.MaxCandidates)
	}
	return nil
}

// Named presets are plain profile values resolved by lookup; custom profiles
// are interchangeable with them everywhere.
var presets = map[string]Profile{
	"clerical": {Temperature: 0.3, FrequencyWeight: 1.0},
	"dialect":  {Temperature: 0.7, FrequencyWeight: 0.0},
	"goblin":   {Temperature: 1.5, FrequencyWeight: -0.5},
	"ritual":   {Temperature: 2.5, FrequencyWeight: -1.0},
}

// ProfileFromName resolves a preset by normalized name.
func ProfileFromName(name string) (Profile, error) {
	profile, ok := presets[normalizeProfileName(name)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return profile, nil
}

// PresetNames lists the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the profile registered under name along with whether it
// exists, without error wrapping.
func Preset(name string) (Profile, bool) {
	profile, ok := presets[normalizeProfileName(name)]
	return profile, ok
}

func normalizeProfileName(raw string) string {
	name := strings.TrimSpace(strings.ToLower(raw))
	name = strings.ReplaceAll(name, "-", "_")
	return name
}
