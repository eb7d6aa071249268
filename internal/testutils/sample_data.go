// Package testutils provides deterministic fixtures and test doubles for
// the evaluation core.
package testutils

import (
	"github.com/ahrav/evalbuddy/internal/domain"
)

// SampleDataset returns a small general-science dataset: three questions
// with two submitted answers each (one correct, one wrong per question).
// It backs the seed command and the engine tests.
func SampleDataset() domain.Dataset {
	return domain.Dataset{
		Context: domain.ContextData{
			"course": domain.StringValue("Sciences Générales"),
			"level":  domain.StringValue("Niveau 1"),
			"date":   domain.StringValue("2025-01-14"),
		},
		QuestionList: []domain.Question{
			{
				ID:              1,
				Question:        "Quelle est la capitale de la France?",
				ReferenceAnswer: "Paris",
				Difficulty:      domain.DifficultyEasy,
				Context: domain.ContextData{
					"topic":    domain.StringValue("Géographie"),
					"category": domain.StringValue("Capitales européennes"),
				},
			},
			{
				ID:              2,
				Question:        "Quelle est la plus grande planète de notre système solaire?",
				ReferenceAnswer: "Jupiter",
				Difficulty:      domain.DifficultyMedium,
				Context: domain.ContextData{
					"topic":    domain.StringValue("Astronomie"),
					"category": domain.StringValue("Système solaire"),
				},
			},
			{
				ID:              3,
				Question:        "Quel est le symbole chimique de l'or?",
				ReferenceAnswer: "Au",
				Difficulty:      domain.DifficultyHard,
				Context: domain.ContextData{
					"topic":    domain.StringValue("Chimie"),
					"category": domain.StringValue("Éléments chimiques"),
				},
			},
		},
		Items: []domain.EvaluationItem{
			{ID: 1, QuestionID: 1, SubmittedAnswer: "Paris", Context: studentContext("student_001", "2025-01-14T10:00:00Z")},
			{ID: 2, QuestionID: 2, SubmittedAnswer: "Jupiter", Context: studentContext("student_001", "2025-01-14T10:01:00Z")},
			{ID: 3, QuestionID: 3, SubmittedAnswer: "Au", Context: studentContext("student_001", "2025-01-14T10:02:00Z")},
			{ID: 4, QuestionID: 1, SubmittedAnswer: "Berlin", Context: studentContext("student_002", "2025-01-14T10:00:00Z")},
			{ID: 5, QuestionID: 2, SubmittedAnswer: "Saturne", Context: studentContext("student_002", "2025-01-14T10:01:00Z")},
			{ID: 6, QuestionID: 3, SubmittedAnswer: "Ag", Context: studentContext("student_002", "2025-01-14T10:02:00Z")},
		},
	}
}

// SingleQuestionDataset returns a dataset with one question and the given
// number of submitted answers, for exercising single evaluation mode.
func SingleQuestionDataset(itemCount int) domain.Dataset {
	dataset := domain.Dataset{
		QuestionList: []domain.Question{
			{ID: 1, Question: "Quelle est la capitale de la France?", ReferenceAnswer: "Paris"},
		},
	}
	for i := 0; i < itemCount; i++ {
		dataset.Items = append(dataset.Items, domain.EvaluationItem{
			ID:              i + 1,
			QuestionID:      1,
			SubmittedAnswer: "Paris",
		})
	}
	return dataset
}

func studentContext(studentID, timestamp string) domain.ContextData {
	return domain.ContextData{
		"studentId": domain.StringValue(studentID),
		"timestamp": domain.StringValue(timestamp),
	}
}
