package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"survey-assessment-backend/internal/model"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

// AssessmentRepository persists scored assessments. Save assigns the next
// sequential id (starting at 1) to result; concurrent saves never share an id.
type AssessmentRepository interface {
	Save(ctx context.Context, result *model.AssessmentResult) error
	GetByID(ctx context.Context, id int) (*model.AssessmentResult, error)
	// ListBySurvey returns results for surveyID ordered by id. limit <= 0 means no limit.
	ListBySurvey(ctx context.Context, surveyID, offset, limit int) ([]model.AssessmentResult, error)
	Count(ctx context.Context) (int, error)
}

type memoryAssessmentRepository struct {
	mu          sync.RWMutex
	nextID      int
	assessments map[int]model.AssessmentResult
}

// NewMemoryAssessmentRepository returns a process-local store.
func NewMemoryAssessmentRepository() AssessmentRepository {
	return &memoryAssessmentRepository{
		nextID:      1,
		assessments: make(map[int]model.AssessmentResult),
	}
}

func (r *memoryAssessmentRepository) Save(_ context.Context, result *model.AssessmentResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	result.ID = r.nextID
	r.assessments[result.ID] = cloneResult(*result)
	r.nextID++
	return nil
}

func (r *memoryAssessmentRepository) GetByID(_ context.Context, id int) (*model.AssessmentResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assessments[id]
	if !ok {
		return nil, ErrAssessmentNotFound
	}
	out := cloneResult(a)
	return &out, nil
}

func (r *memoryAssessmentRepository) ListBySurvey(_ context.Context, surveyID, offset, limit int) ([]model.AssessmentResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []model.AssessmentResult
	for _, a := range r.assessments {
		if a.SurveyID == surveyID {
			matched = append(matched, cloneResult(a))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, offset, limit), nil
}

func (r *memoryAssessmentRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.assessments), nil
}

func cloneResult(a model.AssessmentResult) model.AssessmentResult {
	scores := make(map[string]float64, len(a.Scores))
	for k, v := range a.Scores {
		scores[k] = v
	}
	a.Scores = scores
	return a
}

func paginate(items []model.AssessmentResult, offset, limit int) []model.AssessmentResult {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []model.AssessmentResult{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
