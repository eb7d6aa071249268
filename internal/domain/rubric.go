package domain

import (
	"fmt"
	"sort"
)

// Option is one selectable judgment for a config, in presentation order.
// Mastery configs yield one option per level; boolean configs yield the
// true/false pair; score configs enumerate the steps of the scale.
type Option struct {
	// ID is a stable identifier for the option.
	ID string

	// Label is the display name.
	Label string

	// Value is the judgment recorded when this option is chosen.
	Value any

	// Color is a presentation hint.
	Color string

	// Description optionally explains the option.
	Description string
}

// Options enumerates the selectable judgments for the config.
// Mastery levels are returned sorted by their Order field.
func (c EvaluationConfig) Options() []Option {
	switch c.Type {
	case TypeMastery:
		if c.Settings.MasterySettings == nil {
			return nil
		}
		levels := append([]MasteryLevel(nil), c.Settings.MasterySettings.Levels...)
		sort.SliceStable(levels, func(i, j int) bool { return levels[i].Order < levels[j].Order })
		opts := make([]Option, 0, len(levels))
		for _, level := range levels {
			opts = append(opts, Option{
				ID:          level.ID,
				Label:       level.Label,
				Value:       level.ID,
				Color:       level.Color,
				Description: level.Description,
			})
		}
		return opts

	case TypeBoolean:
		bs := c.Settings.BooleanSettings
		if bs == nil {
			return nil
		}
		return []Option{
			{ID: "true", Label: bs.TrueLabel, Value: true, Color: bs.TrueColor},
			{ID: "false", Label: bs.FalseLabel, Value: false, Color: bs.FalseColor},
		}

	case TypeScore:
		ss := c.Settings.ScoreSettings
		if ss == nil || ss.Step <= 0 {
			return nil
		}
		// Derive each value from the index so accumulated float error
		// cannot drift the sequence past MaxValue and drop the last step.
		epsilon := ss.Step * 1e-9
		var opts []Option
		for i := 0; ; i++ {
			v := ss.MinValue + float64(i)*ss.Step
			if v > ss.MaxValue+epsilon {
				break
			}
			opts = append(opts, Option{
				ID:    fmt.Sprintf("%g", v),
				Label: fmt.Sprintf("%g%s", v, ss.Unit),
				Value: v,
			})
		}
		return opts
	}
	return nil
}

// FormatValue renders a recorded judgment for display under this config:
// the mastery level label, the configured boolean label, or the numeric
// score with its unit. Unknown values fall back to their default string form.
func (c EvaluationConfig) FormatValue(value any) string {
	switch c.Type {
	case TypeMastery:
		if ms := c.Settings.MasterySettings; ms != nil {
			if id, ok := value.(string); ok {
				for _, level := range ms.Levels {
					if level.ID == id {
						return level.Label
					}
				}
			}
		}
	case TypeBoolean:
		if bs := c.Settings.BooleanSettings; bs != nil {
			if b, ok := value.(bool); ok {
				if b {
					return bs.TrueLabel
				}
				return bs.FalseLabel
			}
		}
	case TypeScore:
		if ss := c.Settings.ScoreSettings; ss != nil {
			if f, ok := toFloat(value); ok {
				return fmt.Sprintf("%g%s", f, ss.Unit)
			}
		}
	}
	return fmt.Sprintf("%v", value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
