// Package application implements the evaluation workflows on top of the
// domain model: document validation, the grouped navigation engine, and the
// import/export service.
package application

import (
	"fmt"
	"strings"

	"github.com/ahrav/evalbuddy/internal/domain"
)

// ValidateDatasetDocument checks a decoded dataset document against the
// structural, identity, referential, and field rules. All errors are
// collected in document order; an empty result means the document is valid.
// ValidateDatasetDocument is deterministic and has no side effects.
func ValidateDatasetDocument(doc any) []string {
	var errs []string

	dataset, ok := doc.(map[string]any)
	if !ok || dataset == nil {
		return []string{"Dataset must be an object"}
	}

	questionList, ok := dataset["questionList"].([]any)
	if !ok {
		errs = append(errs, "questionList must be an array")
		return errs
	}

	items, ok := dataset["items"].([]any)
	if !ok {
		errs = append(errs, "items must be an array")
		return errs
	}

	questionIDs := make(map[float64]bool, len(questionList))
	for index, entry := range questionList {
		question, ok := entry.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("Question at index %d: must be an object", index))
			continue
		}

		id, isNumber := question["id"].(float64)
		switch {
		case !isNumber:
			errs = append(errs, fmt.Sprintf("Question at index %d: id must be a number", index))
		case questionIDs[id]:
			errs = append(errs, fmt.Sprintf("Question at index %d: duplicate id %g", index, id))
		default:
			questionIDs[id] = true
		}

		if text, ok := question["question"].(string); !ok || text == "" {
			errs = append(errs, fmt.Sprintf("Question at index %d: question text is required", index))
		}
		if ref, ok := question["referenceAnswer"].(string); !ok || ref == "" {
			errs = append(errs, fmt.Sprintf("Question at index %d: referenceAnswer is required", index))
		}
		if raw, present := question["difficulty"]; present && raw != nil {
			difficulty, ok := raw.(string)
			if !ok || !domain.Difficulty(difficulty).IsValid() {
				errs = append(errs, fmt.Sprintf("Question at index %d: invalid difficulty value", index))
			}
		}
		if raw, present := question["context"]; present && raw != nil && !validContextData(raw) {
			errs = append(errs, fmt.Sprintf("Question at index %d: context must be an object with string or string[] values", index))
		}
	}

	for index, entry := range items {
		item, ok := entry.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("Item at index %d: must be an object", index))
			continue
		}

		if _, isNumber := item["id"].(float64); !isNumber {
			errs = append(errs, fmt.Sprintf("Item at index %d: id must be a number", index))
		}

		questionID, isNumber := item["questionID"].(float64)
		switch {
		case !isNumber:
			errs = append(errs, fmt.Sprintf("Item at index %d: questionID must be a number", index))
		case !questionIDs[questionID]:
			errs = append(errs, fmt.Sprintf("Item at index %d: questionID %g does not exist in questionList", index, questionID))
		}

		if answer, ok := item["submittedAnswer"].(string); !ok || answer == "" {
			errs = append(errs, fmt.Sprintf("Item at index %d: submittedAnswer is required", index))
		}
		if raw, present := item["context"]; present && raw != nil && !validContextData(raw) {
			errs = append(errs, fmt.Sprintf("Item at index %d: context must be an object with string or string[] values", index))
		}
	}

	return errs
}

// validContextData reports whether every context value is a string or an
// array whose every element is a string.
func validContextData(raw any) bool {
	context, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	for _, value := range context {
		switch v := value.(type) {
		case string:
		case []any:
			for _, element := range v {
				if _, ok := element.(string); !ok {
					return false
				}
			}
		default:
			return false
		}
	}
	return true
}

// ValidateConfigDocument checks a decoded config document: required fields,
// a known evaluation type, and the type-specific settings rules. All errors
// are collected; an empty result means the document is valid.
func ValidateConfigDocument(doc any) []string {
	var errs []string

	config, ok := doc.(map[string]any)
	if !ok || config == nil {
		return []string{"Configuration must be an object"}
	}

	for _, field := range []string{"name", "type", "settings"} {
		if config[field] == nil {
			errs = append(errs, fmt.Sprintf("Missing required field: %s", field))
		}
	}
	if len(errs) > 0 {
		return errs
	}

	evalType, _ := config["type"].(string)
	if !domain.EvaluationType(evalType).IsValid() {
		errs = append(errs, fmt.Sprintf("Invalid evaluation type: %s. Must be one of: mastery, boolean, score", evalType))
		return errs
	}

	settings, ok := config["settings"].(map[string]any)
	if !ok {
		errs = append(errs, "Settings must be an object")
		return errs
	}

	switch domain.EvaluationType(evalType) {
	case domain.TypeMastery:
		mastery, _ := settings["masterySettings"].(map[string]any)
		levels, ok := mastery["levels"].([]any)
		if !ok {
			errs = append(errs, "Mastery configuration must have levels array")
		} else if len(levels) == 0 {
			errs = append(errs, "Mastery configuration must have at least one level")
		}

	case domain.TypeBoolean:
		boolean, _ := settings["booleanSettings"].(map[string]any)
		trueLabel, _ := boolean["trueLabel"].(string)
		falseLabel, _ := boolean["falseLabel"].(string)
		if trueLabel == "" || falseLabel == "" {
			errs = append(errs, "Boolean configuration must have trueLabel and falseLabel")
		}

	case domain.TypeScore:
		score, ok := settings["scoreSettings"].(map[string]any)
		if !ok {
			errs = append(errs, "Score configuration must have scoreSettings")
			break
		}
		minValue, minOK := score["minValue"].(float64)
		maxValue, maxOK := score["maxValue"].(float64)
		step, stepOK := score["step"].(float64)
		if !minOK || !maxOK || !stepOK {
			errs = append(errs, "Score settings must have numeric minValue, maxValue, and step")
			break
		}
		if minValue >= maxValue {
			errs = append(errs, "Maximum value must be greater than minimum value")
		}
		if step <= 0 {
			errs = append(errs, "Step must be greater than 0")
		}
	}

	return errs
}

// ValidateConfig checks a typed config the same way the creation and update
// paths require: a non-blank name plus the per-type settings rules.
func ValidateConfig(cfg domain.EvaluationConfig) []string {
	var errs []string

	if strings.TrimSpace(cfg.Name) == "" {
		errs = append(errs, "Configuration name is required")
	}
	if !cfg.Type.IsValid() {
		errs = append(errs, fmt.Sprintf("Invalid evaluation type: %s. Must be one of: mastery, boolean, score", cfg.Type))
		return errs
	}

	switch cfg.Type {
	case domain.TypeMastery:
		if cfg.Settings.MasterySettings == nil || len(cfg.Settings.MasterySettings.Levels) == 0 {
			errs = append(errs, "Mastery levels are required")
		}

	case domain.TypeBoolean:
		bs := cfg.Settings.BooleanSettings
		if bs == nil || bs.TrueLabel == "" || bs.FalseLabel == "" {
			errs = append(errs, "Boolean labels are required")
		}

	case domain.TypeScore:
		ss := cfg.Settings.ScoreSettings
		if ss == nil {
			errs = append(errs, "Score settings are required")
			break
		}
		if ss.MinValue >= ss.MaxValue {
			errs = append(errs, "Maximum value must be greater than minimum value")
		}
		if ss.Step <= 0 {
			errs = append(errs, "Step must be greater than 0")
		}
	}

	return errs
}
