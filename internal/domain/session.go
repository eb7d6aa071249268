package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewSession creates a session owning the given dataset and a value-copy of
// the config, stamped with a generated id and current timestamps. The
// caller is responsible for the initial persistence write.
func NewSession(name, description string, dataset Dataset, cfg EvaluationConfig) EvaluationSession {
	now := time.Now().UTC()
	return EvaluationSession{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Dataset:     Clone(dataset),
		Results:     []EvaluationResult{},
		Config:      Clone(cfg),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyResult merges a result into the session, replacing any prior result
// for the same item id. Uniqueness by item id is enforced here, not by the
// store. UpdatedAt and IsCompleted are recomputed.
func (s *EvaluationSession) ApplyResult(result EvaluationResult) {
	filtered := s.Results[:0]
	for _, r := range s.Results {
		if r.ItemID != result.ItemID {
			filtered = append(filtered, r)
		}
	}
	s.Results = append(filtered, result)
	s.Touch()
}

// ResultFor returns the committed result for an item id, if any.
func (s *EvaluationSession) ResultFor(itemID int) (EvaluationResult, bool) {
	for _, r := range s.Results {
		if r.ItemID == itemID {
			return r, true
		}
	}
	return EvaluationResult{}, false
}

// Touch updates the session timestamp and recomputes the derived
// completion flag. A session over an empty dataset is deliberately never
// completed, even though zero results match zero items; completion means
// work was finished, not that there was none.
func (s *EvaluationSession) Touch() {
	s.UpdatedAt = time.Now().UTC()
	s.IsCompleted = len(s.Dataset.Items) > 0 && len(s.Results) == len(s.Dataset.Items)
}
