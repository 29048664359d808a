package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"survey-assessment-backend/internal/model"
)

// Key layout:
//
//	<prefix>:seq              INCR counter, last issued id
//	<prefix>:<id>             JSON encoded AssessmentResult
//	<prefix>:all              ZSET of every id, scored by id
//	<prefix>:survey:<sid>     ZSET of ids for one survey, scored by id
type redisAssessmentRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisAssessmentRepository returns a Redis backed store. An empty prefix
// defaults to "assessments".
func NewRedisAssessmentRepository(client *redis.Client, prefix string) AssessmentRepository {
	if prefix == "" {
		prefix = "assessments"
	}
	return &redisAssessmentRepository{client: client, prefix: prefix}
}

func (r *redisAssessmentRepository) seqKey() string { return r.prefix + ":seq" }
func (r *redisAssessmentRepository) allKey() string { return r.prefix + ":all" }

func (r *redisAssessmentRepository) recordKey(id int) string {
	return fmt.Sprintf("%s:%d", r.prefix, id)
}

func (r *redisAssessmentRepository) surveyKey(surveyID int) string {
	return fmt.Sprintf("%s:survey:%d", r.prefix, surveyID)
}

func (r *redisAssessmentRepository) Save(ctx context.Context, result *model.AssessmentResult) error {
	id, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("allocate assessment id: %w", err)
	}
	stored := *result
	stored.ID = int(id)
	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}

	member := redis.Z{Score: float64(id), Member: strconv.FormatInt(id, 10)}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.recordKey(stored.ID), payload, 0)
		pipe.ZAdd(ctx, r.allKey(), member)
		pipe.ZAdd(ctx, r.surveyKey(stored.SurveyID), member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store assessment %d: %w", id, err)
	}
	result.ID = stored.ID
	return nil
}

func (r *redisAssessmentRepository) GetByID(ctx context.Context, id int) (*model.AssessmentResult, error) {
	raw, err := r.client.Get(ctx, r.recordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	var a model.AssessmentResult
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode assessment %d: %w", id, err)
	}
	return &a, nil
}

func (r *redisAssessmentRepository) ListBySurvey(ctx context.Context, surveyID, offset, limit int) ([]model.AssessmentResult, error) {
	if offset < 0 {
		offset = 0
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset + limit - 1)
	}
	ids, err := r.client.ZRange(ctx, r.surveyKey(surveyID), int64(offset), stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.AssessmentResult{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.prefix + ":" + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.AssessmentResult, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// index entry without a record
			continue
		}
		var a model.AssessmentResult
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return nil, fmt.Errorf("decode assessment %s: %w", ids[i], err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *redisAssessmentRepository) Count(ctx context.Context) (int, error) {
	n, err := r.client.ZCard(ctx, r.allKey()).Result()
	return int(n), err
}
