package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"survey-assessment-backend/internal/model"
)

const assessmentCounterID = "assessment_id"

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int    `bson:"seq"`
}

type mongoAssessmentRepository struct {
	results  *mongo.Collection
	counters *mongo.Collection
}

// NewMongoAssessmentRepository returns a MongoDB backed store using the
// "assessments" and "counters" collections of db.
func NewMongoAssessmentRepository(db *mongo.Database) AssessmentRepository {
	return &mongoAssessmentRepository{
		results:  db.Collection("assessments"),
		counters: db.Collection("counters"),
	}
}

// EnsureAssessmentIndexes creates the survey_id index used by ListBySurvey.
func EnsureAssessmentIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("assessments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "survey_id", Value: 1}, {Key: "_id", Value: 1}},
	})
	return err
}

func (r *mongoAssessmentRepository) nextID(ctx context.Context) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var counter counterDocument
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": assessmentCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (r *mongoAssessmentRepository) Save(ctx context.Context, result *model.AssessmentResult) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return fmt.Errorf("allocate assessment id: %w", err)
	}
	stored := *result
	stored.ID = id
	if _, err := r.results.InsertOne(ctx, stored); err != nil {
		return fmt.Errorf("insert assessment %d: %w", id, err)
	}
	result.ID = id
	return nil
}

func (r *mongoAssessmentRepository) GetByID(ctx context.Context, id int) (*model.AssessmentResult, error) {
	var a model.AssessmentResult
	err := r.results.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *mongoAssessmentRepository) ListBySurvey(ctx context.Context, surveyID, offset, limit int) ([]model.AssessmentResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.results.Find(ctx, bson.M{"survey_id": surveyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []model.AssessmentResult{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoAssessmentRepository) Count(ctx context.Context) (int, error) {
	n, err := r.results.CountDocuments(ctx, bson.M{})
	return int(n), err
}
