package application

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/evalbuddy/internal/domain"
)

func decodeDoc(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestValidateDatasetDocument_Valid(t *testing.T) {
	doc := decodeDoc(t, `{
		"context": {"course": "Science", "tags": ["a", "b"]},
		"questionList": [
			{"id": 1, "question": "Capital of France?", "referenceAnswer": "Paris", "difficulty": "easy"}
		],
		"items": [
			{"id": 1, "questionID": 1, "submittedAnswer": "Paris", "context": {"studentId": "s1"}}
		]
	}`)
	assert.Empty(t, ValidateDatasetDocument(doc))
}

func TestValidateDatasetDocument_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "not an object",
			raw:  `[1, 2, 3]`,
			want: []string{"Dataset must be an object"},
		},
		{
			name: "questionList missing",
			raw:  `{"items": []}`,
			want: []string{"questionList must be an array"},
		},
		{
			name: "items missing",
			raw:  `{"questionList": []}`,
			want: []string{"items must be an array"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateDatasetDocument(decodeDoc(t, tt.raw)))
		})
	}
}

func TestValidateDatasetDocument_QuestionErrors(t *testing.T) {
	doc := decodeDoc(t, `{
		"questionList": [
			{"id": "one", "question": "", "referenceAnswer": "x"},
			{"id": 2, "question": "ok", "referenceAnswer": "y", "difficulty": "impossible"},
			{"id": 2, "question": "dup", "referenceAnswer": "z"}
		],
		"items": []
	}`)
	errs := ValidateDatasetDocument(doc)
	assert.Contains(t, errs, "Question at index 0: id must be a number")
	assert.Contains(t, errs, "Question at index 0: question text is required")
	assert.Contains(t, errs, "Question at index 1: invalid difficulty value")
	assert.Contains(t, errs, "Question at index 2: duplicate id 2")
}

func TestValidateDatasetDocument_MissingReferenceAnswer(t *testing.T) {
	doc := decodeDoc(t, `{
		"questionList": [{"id": 1, "question": "q"}],
		"items": []
	}`)
	assert.Contains(t, ValidateDatasetDocument(doc), "Question at index 0: referenceAnswer is required")
}

func TestValidateDatasetDocument_ItemErrors(t *testing.T) {
	doc := decodeDoc(t, `{
		"questionList": [{"id": 1, "question": "q", "referenceAnswer": "a"}],
		"items": [
			{"id": 1, "questionID": 99, "submittedAnswer": "x"},
			{"id": "two", "questionID": 1, "submittedAnswer": ""},
			{"id": 3, "questionID": 1, "submittedAnswer": "ok", "context": {"bad": 42}}
		]
	}`)
	errs := ValidateDatasetDocument(doc)
	assert.Contains(t, errs, "Item at index 0: questionID 99 does not exist in questionList")
	assert.Contains(t, errs, "Item at index 1: id must be a number")
	assert.Contains(t, errs, "Item at index 1: submittedAnswer is required")
	assert.Contains(t, errs, "Item at index 2: context must be an object with string or string[] values")
}

func TestValidateDatasetDocument_ContextShapes(t *testing.T) {
	// A list context value is valid only when every element is a string.
	valid := decodeDoc(t, `{
		"questionList": [{"id": 1, "question": "q", "referenceAnswer": "a", "context": {"tags": ["x", "y"]}}],
		"items": []
	}`)
	assert.Empty(t, ValidateDatasetDocument(valid))

	invalid := decodeDoc(t, `{
		"questionList": [{"id": 1, "question": "q", "referenceAnswer": "a", "context": {"tags": ["x", 2]}}],
		"items": []
	}`)
	assert.Contains(t, ValidateDatasetDocument(invalid),
		"Question at index 0: context must be an object with string or string[] values")
}

func TestValidateConfigDocument_Valid(t *testing.T) {
	doc := decodeDoc(t, `{
		"name": "My Rubric",
		"type": "mastery",
		"settings": {
			"allowComments": true,
			"masterySettings": {"levels": [{"id": "A", "label": "A", "color": "", "order": 1}]}
		}
	}`)
	assert.Empty(t, ValidateConfigDocument(doc))
}

func TestValidateConfigDocument_MissingFields(t *testing.T) {
	errs := ValidateConfigDocument(decodeDoc(t, `{"name": "x"}`))
	assert.Contains(t, errs, "Missing required field: type")
	assert.Contains(t, errs, "Missing required field: settings")
}

func TestValidateConfigDocument_UnknownType(t *testing.T) {
	doc := decodeDoc(t, `{"name": "x", "type": "ranked", "settings": {}}`)
	assert.Equal(t,
		[]string{"Invalid evaluation type: ranked. Must be one of: mastery, boolean, score"},
		ValidateConfigDocument(doc))
}

func TestValidateConfigDocument_TypeRules(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "mastery without levels array",
			raw:  `{"name": "x", "type": "mastery", "settings": {"masterySettings": {}}}`,
			want: "Mastery configuration must have levels array",
		},
		{
			name: "mastery with empty levels",
			raw:  `{"name": "x", "type": "mastery", "settings": {"masterySettings": {"levels": []}}}`,
			want: "Mastery configuration must have at least one level",
		},
		{
			name: "boolean without labels",
			raw:  `{"name": "x", "type": "boolean", "settings": {"booleanSettings": {"trueLabel": "Yes"}}}`,
			want: "Boolean configuration must have trueLabel and falseLabel",
		},
		{
			name: "score with non-numeric bounds",
			raw:  `{"name": "x", "type": "score", "settings": {"scoreSettings": {"minValue": "0", "maxValue": 5, "step": 1}}}`,
			want: "Score settings must have numeric minValue, maxValue, and step",
		},
		{
			name: "score with inverted bounds",
			raw:  `{"name": "x", "type": "score", "settings": {"scoreSettings": {"minValue": 5, "maxValue": 5, "step": 1}}}`,
			want: "Maximum value must be greater than minimum value",
		},
		{
			name: "score with zero step",
			raw:  `{"name": "x", "type": "score", "settings": {"scoreSettings": {"minValue": 0, "maxValue": 5, "step": 0}}}`,
			want: "Step must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, ValidateConfigDocument(decodeDoc(t, tt.raw)), tt.want)
		})
	}
}

func TestValidateConfig_Typed(t *testing.T) {
	cfg, err := domain.NewDefaultConfig(domain.TypeScore, "Score Rubric")
	require.NoError(t, err)
	assert.Empty(t, ValidateConfig(cfg))

	cfg.Name = "   "
	cfg.Settings.ScoreSettings.Step = 0
	errs := ValidateConfig(cfg)
	assert.Contains(t, errs, "Configuration name is required")
	assert.Contains(t, errs, "Step must be greater than 0")
}
