package service

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every *NotFoundError through errors.Is.
var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IncompleteAnswersError reports required question ids absent from a
// submission, in ascending order.
type IncompleteAnswersError struct {
	Missing []int
}

func (e *IncompleteAnswersError) Error() string {
	return fmt.Sprintf("Incomplete set of answers. Missing questions: %v", e.Missing)
}

// InvalidAnswerError rejects an answer with an unknown question id or a
// score outside the question's scale.
type InvalidAnswerError struct {
	QuestionID int
	Message    string
}

func (e *InvalidAnswerError) Error() string {
	return e.Message
}

func newUnknownQuestionError(questionID int) *InvalidAnswerError {
	return &InvalidAnswerError{
		QuestionID: questionID,
		Message:    fmt.Sprintf("Invalid question ID %d.", questionID),
	}
}

func newOutOfBoundsError(questionID int, min, max float64) *InvalidAnswerError {
	return &InvalidAnswerError{
		QuestionID: questionID,
		Message:    fmt.Sprintf("Score for question ID %d must be between %g and %g.", questionID, min, max),
	}
}
