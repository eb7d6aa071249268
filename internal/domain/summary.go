package domain

// SessionSummary aggregates the recorded results of a session into the
// figures shown alongside an export: counts overall and per judgment, and
// score statistics where the rubric is numeric.
type SessionSummary struct {
	// TotalItems is the number of items in the session's dataset.
	TotalItems int `json:"totalItems"`

	// EvaluatedItems is the number of items with a committed result.
	EvaluatedItems int `json:"evaluatedItems"`

	// ValueCounts maps each formatted judgment to how often it was
	// recorded (mastery level labels, boolean labels, or score values).
	ValueCounts map[string]int `json:"valueCounts,omitempty"`

	// MeanScore is the arithmetic mean of recorded scores.
	// It is only populated for score-type configs.
	MeanScore *float64 `json:"meanScore,omitempty"`

	// PassingCount is the number of scores at or above the passing
	// threshold, when the config defines one.
	PassingCount *int `json:"passingCount,omitempty"`
}

// Summarize computes the summary for the session's current results.
func (s *EvaluationSession) Summarize() SessionSummary {
	summary := SessionSummary{
		TotalItems:     len(s.Dataset.Items),
		EvaluatedItems: len(s.Results),
	}
	if len(s.Results) == 0 {
		return summary
	}

	summary.ValueCounts = make(map[string]int, len(s.Results))
	for _, r := range s.Results {
		summary.ValueCounts[s.Config.FormatValue(r.Value)]++
	}

	if s.Config.Type != TypeScore {
		return summary
	}

	var sum float64
	var scored int
	passing := 0
	threshold := (*float64)(nil)
	if ss := s.Config.Settings.ScoreSettings; ss != nil {
		threshold = ss.PassingScore
	}
	for _, r := range s.Results {
		f, ok := toFloat(r.Value)
		if !ok {
			continue
		}
		sum += f
		scored++
		if threshold != nil && f >= *threshold {
			passing++
		}
	}
	if scored > 0 {
		mean := sum / float64(scored)
		summary.MeanScore = &mean
		if threshold != nil {
			summary.PassingCount = &passing
		}
	}
	return summary
}
