// Package domain contains pure, dependency-free domain models and types
// for the evaluation workspace.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Difficulty classifies how hard a question is considered to be.
type Difficulty string

// Valid difficulty values for a Question.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether the difficulty is one of the enumerated values.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ContextValue holds a single context entry, which is either a string or an
// ordered list of strings. The JSON encoding preserves whichever shape the
// source document used.
type ContextValue struct {
	// Text holds the value when the entry is a single string.
	Text string

	// List holds the value when the entry is a sequence of strings.
	List []string

	// IsList distinguishes an empty list from an empty string.
	IsList bool
}

// StringValue creates a ContextValue holding a single string.
func StringValue(s string) ContextValue { return ContextValue{Text: s} }

// ListValue creates a ContextValue holding an ordered list of strings.
func ListValue(items ...string) ContextValue {
	return ContextValue{List: items, IsList: true}
}

// MarshalJSON encodes the value as either a JSON string or a string array.
func (v ContextValue) MarshalJSON() ([]byte, error) {
	if v.IsList {
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON decodes either a JSON string or a string array.
// Any other shape is rejected.
func (v *ContextValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = ContextValue{Text: s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = ContextValue{List: list, IsList: true}
		return nil
	}
	return fmt.Errorf("context value must be a string or an array of strings")
}

// ContextData maps context keys to string or string-list values. It is used
// for display-oriented metadata on datasets, questions, and items.
type ContextData map[string]ContextValue

// Question is a single question within a dataset. Questions are immutable
// after the dataset is loaded.
type Question struct {
	// ID uniquely identifies this question within its dataset.
	ID int `json:"id"`

	// Question contains the question text shown to the evaluator.
	Question string `json:"question"`

	// ReferenceAnswer is the expected answer used as the grading reference.
	ReferenceAnswer string `json:"referenceAnswer,omitempty"`

	// Difficulty is an optional easy/medium/hard classification.
	Difficulty Difficulty `json:"difficulty,omitempty"`

	// Context holds optional display metadata for this question.
	Context ContextData `json:"context,omitempty"`
}

// EvaluationItem is one submitted answer awaiting evaluation. Items are
// immutable after the dataset is loaded.
type EvaluationItem struct {
	// ID uniquely identifies this item within its dataset.
	ID int `json:"id"`

	// QuestionID references the Question this answer was submitted for.
	// It must resolve to exactly one question in the same dataset.
	QuestionID int `json:"questionID"`

	// SubmittedAnswer is the answer text under evaluation.
	SubmittedAnswer string `json:"submittedAnswer"`

	// Context holds optional display metadata for this item.
	Context ContextData `json:"context,omitempty"`
}

// Dataset bundles the questions and the submitted answers to be worked
// through in a session. Every item's QuestionID must resolve to a question
// in QuestionList, and question ids must be unique.
type Dataset struct {
	// Context holds optional dataset-level display metadata.
	Context ContextData `json:"context,omitempty"`

	// QuestionList contains the questions, in document order.
	QuestionList []Question `json:"questionList"`

	// Items contains the submitted answers, in document order.
	Items []EvaluationItem `json:"items"`
}

// QuestionByID returns the question with the given id, if present.
func (d *Dataset) QuestionByID(id int) (Question, bool) {
	for _, q := range d.QuestionList {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// EvaluationType selects the rubric a config applies: mastery levels,
// a boolean judgment, or a numeric score.
type EvaluationType string

// Supported evaluation types.
const (
	TypeMastery EvaluationType = "mastery"
	TypeBoolean EvaluationType = "boolean"
	TypeScore   EvaluationType = "score"
)

// IsValid reports whether the evaluation type is one of the supported values.
func (t EvaluationType) IsValid() bool {
	switch t {
	case TypeMastery, TypeBoolean, TypeScore:
		return true
	}
	return false
}

// MasteryLevel defines one selectable level in a mastery rubric.
type MasteryLevel struct {
	// ID is the stable identifier stored in results.
	ID string `json:"id"`

	// Label is the display name of the level.
	Label string `json:"label"`

	// Description optionally explains what the level means.
	Description string `json:"description,omitempty"`

	// Color is a presentation hint consumed by rendering layers.
	Color string `json:"color"`

	// Order positions the level within the rubric, ascending.
	Order int `json:"order"`
}

// MasterySettings configures a mastery-type evaluation.
type MasterySettings struct {
	// Levels lists the selectable mastery levels, ordered by Order.
	Levels []MasteryLevel `json:"levels"`

	// DefaultLevel optionally names the level preselected in the UI.
	DefaultLevel string `json:"defaultLevel,omitempty"`
}

// BooleanSettings configures a boolean-type evaluation.
type BooleanSettings struct {
	TrueLabel  string `json:"trueLabel"`
	FalseLabel string `json:"falseLabel"`
	TrueColor  string `json:"trueColor"`
	FalseColor string `json:"falseColor"`
}

// ScoreSettings configures a numeric-score evaluation.
// MinValue must be strictly less than MaxValue and Step must be positive.
type ScoreSettings struct {
	MinValue float64 `json:"minValue"`
	MaxValue float64 `json:"maxValue"`
	Step     float64 `json:"step"`

	// Unit is an optional display suffix, e.g. "pts".
	Unit string `json:"unit,omitempty"`

	// PassingScore optionally marks the threshold for a passing result.
	PassingScore *float64 `json:"passingScore,omitempty"`
}

// EvaluationSettings holds the common options plus the type-specific
// settings block. Exactly one of the type-specific blocks is populated,
// discriminated by the owning config's Type.
type EvaluationSettings struct {
	// AllowComments enables free-text comments alongside each result.
	AllowComments bool `json:"allowComments"`

	// RequireComments forces a non-empty comment on every result.
	RequireComments bool `json:"requireComments"`

	MasterySettings *MasterySettings `json:"masterySettings,omitempty"`
	BooleanSettings *BooleanSettings `json:"booleanSettings,omitempty"`
	ScoreSettings   *ScoreSettings   `json:"scoreSettings,omitempty"`
}

// EvaluationConfig describes the rubric a session is scored under.
// Configs are never mutated in place; updates produce a new value with a
// fresh UpdatedAt while preserving ID and CreatedAt.
type EvaluationConfig struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Type      EvaluationType     `json:"type"`
	Settings  EvaluationSettings `json:"settings"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// EvaluationResult records the evaluator's judgment for one item.
// A session holds at most one result per item id; writes replace.
type EvaluationResult struct {
	// ItemID identifies the evaluated item.
	ItemID int `json:"itemId"`

	// QuestionID is denormalized from the item for direct lookup.
	QuestionID int `json:"questionId"`

	// Value is the recorded judgment. Its dynamic type depends on the
	// owning config: a mastery level id (string), a bool, or a float64.
	Value any `json:"value"`

	// Comment is the evaluator's optional free-text note.
	Comment string `json:"comment,omitempty"`

	// EvaluatedAt records when the result was committed.
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

// EvaluationSession is the unit of persisted progress: a dataset, the rubric
// it is scored under, and the results recorded so far. The session owns its
// dataset and results; the config is a value-copy taken at creation time.
type EvaluationSession struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Dataset     Dataset            `json:"dataset"`
	Results     []EvaluationResult `json:"results"`
	Config      EvaluationConfig   `json:"config"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`

	// EvaluatorName optionally identifies who is scoring this session.
	EvaluatorName string `json:"evaluatorName,omitempty"`

	// IsCompleted is derived: true iff every item has a result.
	IsCompleted bool `json:"isCompleted"`
}
