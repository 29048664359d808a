package model

import "time"

type SurveyType string

const (
	SurveyTypeWeekly  SurveyType = "weekly"
	SurveyTypeMonthly SurveyType = "monthly"
)

// Question is one scaled item of a survey instrument.
type Question struct {
	ID            int     `json:"id"`
	Text          string  `json:"text"`
	ScaleMin      float64 `json:"scale_min"`
	ScaleMax      float64 `json:"scale_max"`
	ScaleMinLabel string  `json:"scale_min_label"`
	ScaleMaxLabel string  `json:"scale_max_label"`
	ReverseScored bool    `json:"reverse_scored"`
}

type Answer struct {
	QuestionID int     `json:"question_id"`
	Score      float64 `json:"score"`
}

// AssessmentResult is the persisted record of one scored submission.
// ID is assigned by the store.
type AssessmentResult struct {
	ID        int                `json:"id" bson:"_id"`
	SurveyID  int                `json:"survey_id" bson:"survey_id"`
	Scores    map[string]float64 `json:"scores" bson:"scores"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

// SurveyListItem is the catalog entry returned by the survey listing.
type SurveyListItem struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	SurveyType SurveyType `json:"survey_type"`
}

type SurveyDetail struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	SurveyType SurveyType `json:"survey_type"`
	Questions  []Question `json:"questions"`
}

// SubmitRequest is the body of POST /surveys/:id/responses. SurveyID is
// accepted for compatibility; the path parameter is authoritative.
type SubmitRequest struct {
	SurveyID  int       `json:"survey_id"`
	Answers   []Answer  `json:"answers" binding:"required"`
	Timestamp time.Time `json:"timestamp"`
}

// ScoreStats aggregates one named score across stored assessments.
type ScoreStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type SurveySummary struct {
	SurveyID       int                   `json:"survey_id"`
	Assessments    int                   `json:"assessments"`
	Scores         map[string]ScoreStats `json:"scores"`
	LastSubmission *time.Time            `json:"last_submission,omitempty"`
}
