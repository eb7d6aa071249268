package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultMasterySettings returns the standard four-level mastery scale.
// Callers receive a fresh copy and may modify it freely.
func DefaultMasterySettings() MasterySettings {
	return MasterySettings{
		Levels: []MasteryLevel{
			{
				ID:          "NOT_ATTAINED",
				Label:       "Not Attained",
				Description: "Learning objective not achieved",
				Color:       "bg-red-300 text-red-800 hover:bg-red-400",
				Order:       1,
			},
			{
				ID:          "INSUFFICIENT",
				Label:       "Insufficient",
				Description: "Partial understanding but needs improvement",
				Color:       "bg-orange-300 text-orange-800 hover:bg-orange-400",
				Order:       2,
			},
			{
				ID:          "SUFFICIENT",
				Label:       "Sufficient",
				Description: "Adequate understanding achieved",
				Color:       "bg-yellow-300 text-yellow-800 hover:bg-yellow-400",
				Order:       3,
			},
			{
				ID:          "TOTAL",
				Label:       "Total",
				Description: "Complete mastery demonstrated",
				Color:       "bg-green-300 text-green-800 hover:bg-green-400",
				Order:       4,
			},
		},
	}
}

// DefaultBooleanSettings returns the standard correct/incorrect pair.
func DefaultBooleanSettings() BooleanSettings {
	return BooleanSettings{
		TrueLabel:  "Correct",
		FalseLabel: "Incorrect",
		TrueColor:  "bg-green-300 text-green-800 hover:bg-green-400",
		FalseColor: "bg-red-300 text-red-800 hover:bg-red-400",
	}
}

// DefaultScoreSettings returns a 0-5 scale with step 1 and a passing
// score of 3.
func DefaultScoreSettings() ScoreSettings {
	passing := 3.0
	return ScoreSettings{
		MinValue:     0,
		MaxValue:     5,
		Step:         1,
		PassingScore: &passing,
	}
}

// NewDefaultConfig builds a config of the given type populated with the
// default settings for that type, stamped with a generated id and current
// timestamps. It returns an error for an unknown evaluation type.
func NewDefaultConfig(evalType EvaluationType, name string) (EvaluationConfig, error) {
	now := time.Now().UTC()
	cfg := EvaluationConfig{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      evalType,
		CreatedAt: now,
		UpdatedAt: now,
		Settings: EvaluationSettings{
			AllowComments:   true,
			RequireComments: false,
		},
	}

	switch evalType {
	case TypeMastery:
		s := DefaultMasterySettings()
		cfg.Settings.MasterySettings = &s
	case TypeBoolean:
		s := DefaultBooleanSettings()
		cfg.Settings.BooleanSettings = &s
	case TypeScore:
		s := DefaultScoreSettings()
		cfg.Settings.ScoreSettings = &s
	default:
		return EvaluationConfig{}, fmt.Errorf("unknown evaluation type: %s", evalType)
	}

	return cfg, nil
}

// CloneConfig copies a config under a new name with a fresh id and
// timestamps, leaving the source untouched.
func CloneConfig(cfg EvaluationConfig, newName string) EvaluationConfig {
	clone := Clone(cfg)
	now := time.Now().UTC()
	clone.ID = uuid.NewString()
	clone.Name = newName
	clone.CreatedAt = now
	clone.UpdatedAt = now
	return clone
}
