package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"phonotaxis/internal/model"
)

const walkIndexFile = "walk_index.json"

// WalkConfig is the replayable request half of a walk artifact.
type WalkConfig struct {
	WalkID          string  `json:"walk_id"`
	Corpus          string  `json:"corpus"`
	Start           string  `json:"start"`
	Profile         string  `json:"profile,omitempty"`
	Temperature     float64 `json:"temperature"`
	FrequencyWeight float64 `json:"frequency_weight"`
	MaxCandidates   int     `json:"max_candidates,omitempty"`
	AllowSelf       bool    `json:"allow_self,omitempty"`
	Seed            int64   `json:"seed"`
	RequestedSteps  int     `json:"requested_steps"`
}

// WalkArtifacts is everything written to a walk's run directory.
type WalkArtifacts struct {
	Config        WalkConfig         `json:"config"`
	Steps         []model.StepRecord `json:"steps"`
	TerminalState string             `json:"terminal_state"`
	ActualSteps   int                `json:"actual_steps"`
	Summary       TrajectorySummary  `json:"summary"`
}

type WalkIndexEntry struct {
	WalkID           string  `json:"walk_id"`
	Corpus           string  `json:"corpus"`
	Start            string  `json:"start"`
	Profile          string  `json:"profile,omitempty"`
	Seed             int64   `json:"seed"`
	RequestedSteps   int     `json:"requested_steps"`
	ActualSteps      int     `json:"actual_steps"`
	TerminalState    string  `json:"terminal_state"`
	MeanStepDistance float64 `json:"mean_step_distance"`
	CreatedAtUTC     string  `json:"created_at_utc"`
}

func WriteWalkArtifacts(baseDir string, artifacts WalkArtifacts) (string, error) {
	if artifacts.Config.WalkID == "" {
		return "", fmt.Errorf("walk id is required")
	}

	walkDir := filepath.Join(baseDir, artifacts.Config.WalkID)
	if err := os.MkdirAll(walkDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(walkDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	trajectory := map[string]any{
		"start":          artifacts.Config.Start,
		"steps":          artifacts.Steps,
		"terminal_state": artifacts.TerminalState,
		"actual_steps":   artifacts.ActualSteps,
	}
	if err := writeJSON(filepath.Join(walkDir, "trajectory.json"), trajectory); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(walkDir, "summary.json"), artifacts.Summary); err != nil {
		return "", err
	}

	return walkDir, nil
}

func AppendWalkIndex(baseDir string, entry WalkIndexEntry) error {
	if entry.WalkID == "" {
		return fmt.Errorf("walk id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListWalkIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].WalkID == entry.WalkID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, walkIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, walkIndexFile), index)
}

func ListWalkIndex(baseDir string) ([]WalkIndexEntry, error) {
	path := filepath.Join(baseDir, walkIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []WalkIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []WalkIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry WalkIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]WalkIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func ReadWalkConfig(baseDir, walkID string) (WalkConfig, bool, error) {
	path := filepath.Join(baseDir, walkID, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return WalkConfig{}, false, nil
		}
		return WalkConfig{}, false, err
	}

	var cfg WalkConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return WalkConfig{}, false, err
	}
	return cfg, true, nil
}

func ExportWalkArtifacts(baseDir, walkID, outDir string) (string, error) {
	if walkID == "" {
		return "", fmt.Errorf("walk id is required")
	}

	src := filepath.Join(baseDir, walkID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, walkID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range []string{"config.json", "trajectory.json", "summary.json"} {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
