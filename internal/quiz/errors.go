package quiz

import "errors"

var (
	ErrSessionNotFound  = errors.New("quiz session not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrForbidden        = errors.New("quiz session belongs to another user")
	ErrInvalidState     = errors.New("invalid quiz state")
	ErrNoMoreQuestions  = errors.New("no more questions available")
)
