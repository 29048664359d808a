package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"survey-assessment-backend/internal/model"
)

// assessmentRecord is the relational row behind model.AssessmentResult.
// The serial primary key gives the sequential ids.
type assessmentRecord struct {
	ID        int            `gorm:"primaryKey;autoIncrement"`
	SurveyID  int            `gorm:"index;not null"`
	Scores    datatypes.JSON `gorm:"type:jsonb;not null"`
	Timestamp time.Time      `gorm:"not null"`
	CreatedAt time.Time
}

func (assessmentRecord) TableName() string {
	return "assessment_results"
}

func (rec assessmentRecord) toModel() (model.AssessmentResult, error) {
	scores := map[string]float64{}
	if len(rec.Scores) > 0 {
		if err := json.Unmarshal(rec.Scores, &scores); err != nil {
			return model.AssessmentResult{}, fmt.Errorf("decode scores of assessment %d: %w", rec.ID, err)
		}
	}
	return model.AssessmentResult{
		ID:        rec.ID,
		SurveyID:  rec.SurveyID,
		Scores:    scores,
		Timestamp: rec.Timestamp,
	}, nil
}

type gormAssessmentRepository struct {
	db *gorm.DB
}

// NewGormAssessmentRepository returns a PostgreSQL backed store.
// Call MigrateAssessments once before use.
func NewGormAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &gormAssessmentRepository{db: db}
}

// MigrateAssessments creates or updates the assessment_results table.
func MigrateAssessments(db *gorm.DB) error {
	return db.AutoMigrate(&assessmentRecord{})
}

func (r *gormAssessmentRepository) Save(ctx context.Context, result *model.AssessmentResult) error {
	raw, err := json.Marshal(result.Scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	rec := assessmentRecord{
		SurveyID:  result.SurveyID,
		Scores:    datatypes.JSON(raw),
		Timestamp: result.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	result.ID = rec.ID
	return nil
}

func (r *gormAssessmentRepository) GetByID(ctx context.Context, id int) (*model.AssessmentResult, error) {
	var rec assessmentRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	out, err := rec.toModel()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *gormAssessmentRepository) ListBySurvey(ctx context.Context, surveyID, offset, limit int) ([]model.AssessmentResult, error) {
	q := r.db.WithContext(ctx).Where("survey_id = ?", surveyID).Order("id asc")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []assessmentRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]model.AssessmentResult, 0, len(recs))
	for _, rec := range recs {
		a, err := rec.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *gormAssessmentRepository) Count(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&assessmentRecord{}).Count(&count).Error
	return int(count), err
}
