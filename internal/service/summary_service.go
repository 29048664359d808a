package service

import (
	"context"
	"fmt"
	"math"

	"survey-assessment-backend/internal/model"
	"survey-assessment-backend/internal/repository"
	"survey-assessment-backend/internal/survey"
)

// SummaryService aggregates stored assessments per survey.
type SummaryService interface {
	Summarize(ctx context.Context, surveyID int) (*model.SurveySummary, error)
}

type summaryService struct {
	registry *survey.Registry
	repo     repository.AssessmentRepository
}

func NewSummaryService(registry *survey.Registry, repo repository.AssessmentRepository) SummaryService {
	return &summaryService{registry: registry, repo: repo}
}

// Summarize computes, for each named score, the mean (two decimals), min and
// max across every stored result of surveyID.
func (s *summaryService) Summarize(ctx context.Context, surveyID int) (*model.SurveySummary, error) {
	if _, ok := s.registry.Get(surveyID); !ok {
		return nil, &NotFoundError{Resource: "Survey", ID: surveyID}
	}
	results, err := s.repo.ListBySurvey(ctx, surveyID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessments for survey %d: %w", surveyID, err)
	}

	summary := &model.SurveySummary{
		SurveyID:    surveyID,
		Assessments: len(results),
		Scores:      map[string]model.ScoreStats{},
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	for i := range results {
		r := &results[i]
		for name, v := range r.Scores {
			stats, seen := summary.Scores[name]
			if !seen {
				stats = model.ScoreStats{Min: v, Max: v}
			}
			stats.Min = math.Min(stats.Min, v)
			stats.Max = math.Max(stats.Max, v)
			summary.Scores[name] = stats
			sums[name] += v
			counts[name]++
		}
		if summary.LastSubmission == nil || r.Timestamp.After(*summary.LastSubmission) {
			ts := r.Timestamp
			summary.LastSubmission = &ts
		}
	}
	for name, stats := range summary.Scores {
		stats.Mean = math.Round(sums[name]/float64(counts[name])*100) / 100
		summary.Scores[name] = stats
	}
	return summary, nil
}
