package stats

import "phonotaxis/internal/model"

// TrajectorySummary condenses a walk into the numbers the index and the UI
// layers care about.
type TrajectorySummary struct {
	TotalSteps        int     `json:"total_steps"`
	MeanStepDistance  float64 `json:"mean_step_distance"`
	MaxStepDistance   int     `json:"max_step_distance"`
	DistinctSyllables int     `json:"distinct_syllables"`
}

// Summarize computes trajectory statistics over the taken steps. The start
// syllable counts toward the distinct set even when no step was taken.
func Summarize(start string, steps []model.StepRecord) TrajectorySummary {
	summary := TrajectorySummary{TotalSteps: len(steps)}

	visited := map[string]struct{}{}
	if start != "" {
		visited[start] = struct{}{}
	}

	totalDistance := 0
	for _, step := range steps {
		visited[step.To] = struct{}{}
		totalDistance += step.Distance
		if step.Distance > summary.MaxStepDistance {
			summary.MaxStepDistance = step.Distance
		}
	}
	if len(steps) > 0 {
		summary.MeanStepDistance = float64(totalDistance) / float64(len(steps))
	}
	summary.DistinctSyllables = len(visited)
	return summary
}
