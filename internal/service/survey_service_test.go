package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"survey-assessment-backend/internal/model"
	"survey-assessment-backend/internal/repository"
	"survey-assessment-backend/internal/survey"
	"survey-assessment-backend/utilities"
)

var submittedAt = time.Date(2023, 10, 14, 9, 30, 0, 0, time.UTC)

func shsAnswers(q1, q2, q3, q4 float64) []model.Answer {
	return []model.Answer{
		{QuestionID: 1, Score: q1},
		{QuestionID: 2, Score: q2},
		{QuestionID: 3, Score: q3},
		{QuestionID: 4, Score: q4},
	}
}

func newTestService(t *testing.T) (SurveyService, repository.AssessmentRepository) {
	t.Helper()
	repo := repository.NewMemoryAssessmentRepository()
	return NewSurveyService(survey.NewDefaultRegistry(), repo, nil), repo
}

type failingRepo struct {
	repository.AssessmentRepository
}

func (failingRepo) Save(context.Context, *model.AssessmentResult) error {
	return errors.New("disk full")
}

func TestListAndGetSurveys(t *testing.T) {
	svc, _ := newTestService(t)

	list := svc.ListSurveys()
	if len(list) != 2 {
		t.Fatalf("got %d surveys, want 2", len(list))
	}
	if list[0].ID != 1 || list[0].SurveyType != model.SurveyTypeWeekly {
		t.Fatalf("unexpected first survey %+v", list[0])
	}
	if list[1].ID != 2 || list[1].SurveyType != model.SurveyTypeWeekly {
		t.Fatalf("unexpected second survey %+v", list[1])
	}

	detail, err := svc.GetSurvey(1)
	if err != nil {
		t.Fatalf("GetSurvey: %v", err)
	}
	if len(detail.Questions) != 4 || !detail.Questions[3].ReverseScored {
		t.Fatalf("unexpected questions %+v", detail.Questions)
	}

	qs, err := svc.GetSurveyQuestions(2)
	if err != nil || len(qs) != 1 || qs[0].ID != 5 || qs[0].ScaleMax != 5 {
		t.Fatalf("stress questions = %+v, %v", qs, err)
	}

	if _, err := svc.GetSurvey(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSurvey(42) err = %v", err)
	}
	if _, err := svc.GetSurveyQuestions(42); err == nil || err.Error() != "Survey not found" {
		t.Fatalf("GetSurveyQuestions(42) err = %v", err)
	}
}

func TestReturnedQuestionsAreCopies(t *testing.T) {
	svc, _ := newTestService(t)
	qs, _ := svc.GetSurveyQuestions(1)
	qs[0].ScaleMax = 100

	again, _ := svc.GetSurveyQuestions(1)
	if again[0].ScaleMax != 7 {
		t.Fatalf("catalog mutated through returned slice")
	}
}

func TestSubmitHappiness(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.Submit(context.Background(), 1, shsAnswers(5, 6, 4, 2), submittedAt)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.ID != 1 || res.SurveyID != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Scores[survey.HappinessScoreKey] != 5.25 {
		t.Fatalf("happiness_score = %v, want 5.25", res.Scores)
	}
	if !res.Timestamp.Equal(submittedAt) {
		t.Fatalf("timestamp = %v", res.Timestamp)
	}

	text, ok := svc.Interpret(res)
	if !ok || text != survey.HappinessModerate {
		t.Fatalf("interpretation = %q, %v", text, ok)
	}
}

func TestSubmitStress(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.Submit(context.Background(), 2, []model.Answer{{QuestionID: 5, Score: 3}}, submittedAt)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Scores[survey.StressScoreKey] != 3 {
		t.Fatalf("stress_score = %v, want 3", res.Scores)
	}
	if text, _ := svc.Interpret(res); text != survey.StressModerately {
		t.Fatalf("interpretation = %q", text)
	}
}

func TestSubmitRejections(t *testing.T) {
	cases := []struct {
		name     string
		surveyID int
		answers  []model.Answer
		check    func(t *testing.T, err error)
	}{
		{
			name:     "unknown survey",
			surveyID: 99,
			answers:  []model.Answer{{QuestionID: 1, Score: 1}},
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				if !errors.As(err, &nf) || nf.ID != 99 || err.Error() != "Survey not found" {
					t.Fatalf("err = %v", err)
				}
			},
		},
		{
			name:     "missing answers",
			surveyID: 1,
			answers:  []model.Answer{{QuestionID: 1, Score: 4}},
			check: func(t *testing.T, err error) {
				var inc *IncompleteAnswersError
				if !errors.As(err, &inc) {
					t.Fatalf("err = %v, want IncompleteAnswersError", err)
				}
				if err.Error() != "Incomplete set of answers. Missing questions: [2 3 4]" {
					t.Fatalf("message = %q", err.Error())
				}
			},
		},
		{
			name:     "no answers",
			surveyID: 2,
			answers:  nil,
			check: func(t *testing.T, err error) {
				var inc *IncompleteAnswersError
				if !errors.As(err, &inc) || len(inc.Missing) != 1 || inc.Missing[0] != 5 {
					t.Fatalf("err = %v", err)
				}
			},
		},
		{
			name:     "extra answer id reports no missing ids",
			surveyID: 1,
			answers:  append(shsAnswers(4, 4, 4, 4), model.Answer{QuestionID: 9, Score: 1}),
			check: func(t *testing.T, err error) {
				var inc *IncompleteAnswersError
				if !errors.As(err, &inc) || len(inc.Missing) != 0 {
					t.Fatalf("err = %v", err)
				}
				if err.Error() != "Incomplete set of answers. Missing questions: []" {
					t.Fatalf("message = %q", err.Error())
				}
			},
		},
		{
			name:     "wrong question for survey",
			surveyID: 2,
			answers:  []model.Answer{{QuestionID: 1, Score: 3}},
			check: func(t *testing.T, err error) {
				var inc *IncompleteAnswersError
				if !errors.As(err, &inc) || len(inc.Missing) != 1 || inc.Missing[0] != 5 {
					t.Fatalf("err = %v", err)
				}
			},
		},
		{
			name:     "score above scale",
			surveyID: 1,
			answers:  shsAnswers(8, 4, 4, 4),
			check: func(t *testing.T, err error) {
				var inv *InvalidAnswerError
				if !errors.As(err, &inv) || inv.QuestionID != 1 {
					t.Fatalf("err = %v", err)
				}
				if err.Error() != "Score for question ID 1 must be between 1 and 7." {
					t.Fatalf("message = %q", err.Error())
				}
			},
		},
		{
			name:     "score below scale",
			surveyID: 2,
			answers:  []model.Answer{{QuestionID: 5, Score: 0.5}},
			check: func(t *testing.T, err error) {
				if err == nil || err.Error() != "Score for question ID 5 must be between 1 and 5." {
					t.Fatalf("err = %v", err)
				}
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			res, err := svc.Submit(context.Background(), c.surveyID, c.answers, submittedAt)
			if res != nil {
				t.Fatalf("expected no result, got %+v", res)
			}
			c.check(t, err)
			if n, _ := repo.Count(context.Background()); n != 0 {
				t.Fatalf("store holds %d results after a rejected submission", n)
			}
		})
	}
}

func TestSubmitAcceptsScaleBoundaries(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.Submit(context.Background(), 1, shsAnswers(1, 7, 1, 7), submittedAt)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// (1 + 7 + 1 + reverse(7)=1) / 4
	if res.Scores[survey.HappinessScoreKey] != 2.5 {
		t.Fatalf("happiness_score = %v", res.Scores)
	}
}

func TestUnknownQuestionMessage(t *testing.T) {
	err := newUnknownQuestionError(9)
	if err.Error() != "Invalid question ID 9." || err.QuestionID != 9 {
		t.Fatalf("err = %+v", err)
	}
}

func TestSubmitStoreFailure(t *testing.T) {
	svc := NewSurveyService(survey.NewDefaultRegistry(), failingRepo{}, nil)
	_, err := svc.Submit(context.Background(), 2, []model.Answer{{QuestionID: 5, Score: 1}}, submittedAt)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want store failure", err)
	}
}

func TestSubmitIDsIncrease(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	prev := 0
	for i := 0; i < 5; i++ {
		res, err := svc.Submit(ctx, 2, []model.Answer{{QuestionID: 5, Score: float64(i%5 + 1)}}, submittedAt)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.ID != prev+1 {
			t.Fatalf("id = %d, want %d", res.ID, prev+1)
		}
		prev = res.ID
	}
}

func TestConcurrentSubmissions(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	const n = 100

	var mu sync.Mutex
	var ids []int
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Submit(ctx, 1, shsAnswers(5, 6, 4, 2), submittedAt)
			if err != nil {
				t.Errorf("Submit: %v", err)
				return
			}
			mu.Lock()
			ids = append(ids, res.ID)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	sort.Ints(ids)
	for i, id := range ids {
		if id != i+1 {
			t.Fatalf("ids are not unique 1..%d: %v", n, ids)
		}
	}
	if count, _ := repo.Count(ctx); count != n {
		t.Fatalf("Count = %d, want %d", count, n)
	}
}

func TestSubmitPublishesSavedEvent(t *testing.T) {
	bus := utilities.NewEventBus()
	var mu sync.Mutex
	var got []*model.AssessmentResult
	bus.Subscribe(utilities.EventAssessmentSaved, func(data interface{}) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, data.(*model.AssessmentResult))
	})

	svc := NewSurveyService(survey.NewDefaultRegistry(), repository.NewMemoryAssessmentRepository(), bus)
	if _, err := svc.Submit(context.Background(), 2, []model.Answer{{QuestionID: 5, Score: 4}}, submittedAt); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Submit(context.Background(), 2, []model.Answer{{QuestionID: 5, Score: 9}}, submittedAt); err == nil {
		t.Fatalf("expected rejection")
	}
	bus.Wait()

	if len(got) != 1 || got[0].ID != 1 || got[0].Scores[survey.StressScoreKey] != 4 {
		t.Fatalf("events = %+v", got)
	}
}

func TestGetAndListAssessments(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(ctx, 2, []model.Answer{{QuestionID: 5, Score: float64(i + 1)}}, submittedAt); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	a, err := svc.GetAssessment(ctx, 2)
	if err != nil || a.Scores[survey.StressScoreKey] != 2 {
		t.Fatalf("GetAssessment = %+v, %v", a, err)
	}
	_, err = svc.GetAssessment(ctx, 7)
	if !errors.Is(err, ErrNotFound) || err.Error() != "Assessment not found" {
		t.Fatalf("GetAssessment(7) err = %v", err)
	}

	page, err := svc.ListAssessments(ctx, 2, 2, 2)
	if err != nil || len(page) != 1 || page[0].ID != 3 {
		t.Fatalf("page 2 = %+v, %v", page, err)
	}
	page, err = svc.ListAssessments(ctx, 2, 0, 0)
	if err != nil || len(page) != 3 {
		t.Fatalf("defaulted page = %+v, %v", page, err)
	}
	if _, err := svc.ListAssessments(ctx, 42, 1, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ListAssessments(42) err = %v", err)
	}
}

func TestGetGuide(t *testing.T) {
	svc, _ := newTestService(t)
	guide, err := svc.GetGuide(2)
	if err != nil || guide == "" {
		t.Fatalf("guide = %q, %v", guide, err)
	}
	if _, err := svc.GetGuide(3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetGuide(3) err = %v", err)
	}
}

func TestSummarize(t *testing.T) {
	registry := survey.NewDefaultRegistry()
	repo := repository.NewMemoryAssessmentRepository()
	svc := NewSurveyService(registry, repo, nil)
	summaries := NewSummaryService(registry, repo)
	ctx := context.Background()

	empty, err := summaries.Summarize(ctx, 1)
	if err != nil || empty.Assessments != 0 || len(empty.Scores) != 0 || empty.LastSubmission != nil {
		t.Fatalf("empty summary = %+v, %v", empty, err)
	}

	later := submittedAt.Add(time.Hour)
	if _, err := svc.Submit(ctx, 1, shsAnswers(5, 6, 4, 2), submittedAt); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Submit(ctx, 1, shsAnswers(3, 3, 3, 5), later); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Submit(ctx, 2, []model.Answer{{QuestionID: 5, Score: 1}}, submittedAt); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	sum, err := summaries.Summarize(ctx, 1)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	stats := sum.Scores[survey.HappinessScoreKey]
	if sum.Assessments != 2 || stats.Mean != 4.13 || stats.Min != 3 || stats.Max != 5.25 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.LastSubmission == nil || !sum.LastSubmission.Equal(later) {
		t.Fatalf("last submission = %v", sum.LastSubmission)
	}

	if _, err := summaries.Summarize(ctx, 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Summarize(8) err = %v", err)
	}
}

func TestWriteAssessmentReport(t *testing.T) {
	registry := survey.NewDefaultRegistry()
	svc := NewSurveyService(registry, repository.NewMemoryAssessmentRepository(), nil)
	reports := NewReportService(registry, svc)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, 1, shsAnswers(5, 6, 4, 2), submittedAt); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var buf bytes.Buffer
	if err := reports.WriteAssessmentReport(ctx, 1, &buf); err != nil {
		t.Fatalf("WriteAssessmentReport: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF (%d bytes)", buf.Len())
	}

	buf.Reset()
	if err := reports.WriteAssessmentReport(ctx, 5, &buf); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing assessment err = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %d bytes for a missing assessment", buf.Len())
	}
}
