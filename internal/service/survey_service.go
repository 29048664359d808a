package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"survey-assessment-backend/internal/model"
	"survey-assessment-backend/internal/repository"
	"survey-assessment-backend/internal/survey"
	"survey-assessment-backend/utilities"
)

type SurveyService interface {
	ListSurveys() []model.SurveyListItem
	GetSurvey(id int) (*model.SurveyDetail, error)
	GetSurveyQuestions(id int) ([]model.Question, error)
	GetGuide(id int) (string, error)
	Submit(ctx context.Context, surveyID int, answers []model.Answer, timestamp time.Time) (*model.AssessmentResult, error)
	GetAssessment(ctx context.Context, id int) (*model.AssessmentResult, error)
	ListAssessments(ctx context.Context, surveyID, page, pageSize int) ([]model.AssessmentResult, error)
	Interpret(result *model.AssessmentResult) (string, bool)
}

type surveyService struct {
	registry *survey.Registry
	repo     repository.AssessmentRepository
	bus      *utilities.EventBus
}

// NewSurveyService wires the registry and store together. bus may be nil.
func NewSurveyService(registry *survey.Registry, repo repository.AssessmentRepository, bus *utilities.EventBus) SurveyService {
	return &surveyService{
		registry: registry,
		repo:     repo,
		bus:      bus,
	}
}

func (s *surveyService) ListSurveys() []model.SurveyListItem {
	instruments := s.registry.List()
	out := make([]model.SurveyListItem, 0, len(instruments))
	for _, in := range instruments {
		out = append(out, model.SurveyListItem{ID: in.ID, Name: in.Name, SurveyType: in.Type})
	}
	return out
}

func (s *surveyService) instrument(id int) (*survey.Instrument, error) {
	in, ok := s.registry.Get(id)
	if !ok {
		return nil, &NotFoundError{Resource: "Survey", ID: id}
	}
	return in, nil
}

func (s *surveyService) GetSurvey(id int) (*model.SurveyDetail, error) {
	in, err := s.instrument(id)
	if err != nil {
		return nil, err
	}
	return &model.SurveyDetail{
		ID:         in.ID,
		Name:       in.Name,
		SurveyType: in.Type,
		Questions:  copyQuestions(in.Questions),
	}, nil
}

func (s *surveyService) GetSurveyQuestions(id int) ([]model.Question, error) {
	utilities.Info("Fetching questions for survey ID %d", id)
	in, err := s.instrument(id)
	if err != nil {
		utilities.Error("Survey with ID %d not found", id)
		return nil, err
	}
	return copyQuestions(in.Questions), nil
}

func (s *surveyService) GetGuide(id int) (string, error) {
	in, err := s.instrument(id)
	if err != nil {
		return "", err
	}
	return in.Guide, nil
}

// Submit validates answers against the survey, scores them and persists
// the result. Nothing is stored when validation fails.
func (s *surveyService) Submit(ctx context.Context, surveyID int, answers []model.Answer, timestamp time.Time) (*model.AssessmentResult, error) {
	utilities.Info("Submitting responses for survey ID %d", surveyID)
	in, err := s.instrument(surveyID)
	if err != nil {
		utilities.Error("Survey with ID %d not found", surveyID)
		return nil, err
	}

	if err := validateAnswers(in, answers); err != nil {
		utilities.Error("Rejected submission for survey ID %d: %v", surveyID, err)
		return nil, err
	}

	scores := in.Strategy.CalculateScore(answers, in.Questions)
	utilities.Debug("Calculated scores for survey ID %d: %v", surveyID, scores)

	result := &model.AssessmentResult{
		SurveyID:  surveyID,
		Scores:    scores,
		Timestamp: timestamp,
	}
	if err := s.repo.Save(ctx, result); err != nil {
		utilities.Error("Failed to save assessment for survey ID %d: %v", surveyID, err)
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	utilities.Info("Assessment result saved with ID %d", result.ID)

	if s.bus != nil {
		saved := *result
		s.bus.Publish(utilities.EventAssessmentSaved, &saved)
	}
	return result, nil
}

// validateAnswers requires the answered ids to equal the survey's question
// ids, then checks each score against its question's scale.
func validateAnswers(in *survey.Instrument, answers []model.Answer) error {
	required := in.QuestionIDs()
	provided := make(map[int]struct{}, len(answers))
	for _, a := range answers {
		provided[a.QuestionID] = struct{}{}
	}

	if !sameIDs(required, provided) {
		missing := []int{}
		for id := range required {
			if _, ok := provided[id]; !ok {
				missing = append(missing, id)
			}
		}
		sort.Ints(missing)
		return &IncompleteAnswersError{Missing: missing}
	}

	for _, a := range answers {
		q, ok := survey.FindQuestion(in.Questions, a.QuestionID)
		if !ok {
			return newUnknownQuestionError(a.QuestionID)
		}
		if a.Score < q.ScaleMin || a.Score > q.ScaleMax {
			return newOutOfBoundsError(q.ID, q.ScaleMin, q.ScaleMax)
		}
	}
	return nil
}

func sameIDs(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

func (s *surveyService) GetAssessment(ctx context.Context, id int) (*model.AssessmentResult, error) {
	result, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrAssessmentNotFound) {
		return nil, &NotFoundError{Resource: "Assessment", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load assessment %d: %w", id, err)
	}
	return result, nil
}

// ListAssessments returns one page of stored results for surveyID. Pages
// start at 1.
func (s *surveyService) ListAssessments(ctx context.Context, surveyID, page, pageSize int) ([]model.AssessmentResult, error) {
	if _, err := s.instrument(surveyID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	results, err := s.repo.ListBySurvey(ctx, surveyID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list assessments for survey %d: %w", surveyID, err)
	}
	return results, nil
}

func (s *surveyService) Interpret(result *model.AssessmentResult) (string, bool) {
	in, ok := s.registry.Get(result.SurveyID)
	if !ok {
		return "", false
	}
	return in.Interpretation(result.Scores)
}

func copyQuestions(qs []model.Question) []model.Question {
	out := make([]model.Question, len(qs))
	copy(out, qs)
	return out
}
