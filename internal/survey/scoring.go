package survey

import (
	"math"

	"survey-assessment-backend/internal/model"
)

// ScoringStrategy turns a complete answer set into named scores.
// Implementations must skip answers whose question is not in questions
// instead of failing.
type ScoringStrategy interface {
	CalculateScore(answers []model.Answer, questions []model.Question) map[string]float64
}

// ReverseScore mirrors score across the midpoint of [scaleMin, scaleMax].
func ReverseScore(score, scaleMin, scaleMax float64) float64 {
	return scaleMax + scaleMin - score
}

// FindQuestion returns the question with the given id.
func FindQuestion(questions []model.Question, id int) (model.Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
