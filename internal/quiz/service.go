package quiz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizsprint/internal/question"
	"github.com/gokatarajesh/quizsprint/internal/quiz/scoring"
	"github.com/gokatarajesh/quizsprint/internal/stats"
)

// DefaultQuestionLimit caps the questions shown per session.
const DefaultQuestionLimit = 20

// Recorder accepts completed sessions for aggregation. Submit must not block.
type Recorder interface {
	Submit(c stats.Completion)
}

// StatsReader reads lifetime records.
type StatsReader interface {
	Get(ctx context.Context, userID uuid.UUID) (stats.Record, error)
}

// ServiceOptions configures the quiz service.
type ServiceOptions struct {
	QuestionLimit int
	RandIndex     RandIndex
}

// Service runs the quiz session state machine.
type Service struct {
	bank     *question.Bank
	store    Store
	selector *Selector
	engine   *scoring.Engine
	recorder Recorder
	stats    StatsReader
	limit    int
	now      func() time.Time
	logger   zerolog.Logger
}

// NewService wires the quiz service.
func NewService(
	bank *question.Bank,
	store Store,
	engine *scoring.Engine,
	recorder Recorder,
	statsReader StatsReader,
	opts ServiceOptions,
	logger zerolog.Logger,
) *Service {
	limit := opts.QuestionLimit
	if limit <= 0 {
		limit = DefaultQuestionLimit
	}
	return &Service{
		bank:     bank,
		store:    store,
		selector: NewSelector(bank, opts.RandIndex),
		engine:   engine,
		recorder: recorder,
		stats:    statsReader,
		limit:    limit,
		now:      time.Now,
		logger:   logger.With().Str("component", "quiz").Logger(),
	}
}

// StartResult identifies a new session.
type StartResult struct {
	SessionID string `json:"session_id"`
	Category  string `json:"category"`
}

// FinalStats are the figures of a session.
type FinalStats struct {
	Score      int    `json:"score"`
	Correct    int    `json:"correct"`
	Wrong      int    `json:"wrong"`
	BestStreak int    `json:"best_streak"`
	Accuracy   string `json:"accuracy"`
}

// AnswerResult is the outcome of one evaluated answer.
type AnswerResult struct {
	Correct      bool           `json:"correct"`
	Message      string         `json:"message"`
	Score        int            `json:"score"`
	Completed    bool           `json:"completed"`
	NextQuestion *question.View `json:"next_question,omitempty"`
	FinalStats   *FinalStats    `json:"final_stats,omitempty"`
}

// Result reports a session's current or final figures.
type Result struct {
	SessionID      string `json:"session_id"`
	Category       string `json:"category"`
	Completed      bool   `json:"completed"`
	QuestionsShown int    `json:"questions_shown"`
	Difficulty     int    `json:"difficulty"`
	FinalStats
}

// Start opens a session. An empty category means the whole bank.
func (s *Service) Start(ctx context.Context, userID uuid.UUID, category string) (StartResult, error) {
	category = strings.TrimSpace(category)
	if isGeneral(category) {
		category = GeneralCategory
	}

	sess, err := s.store.Create(ctx, userID, category)
	if err != nil {
		return StartResult{}, fmt.Errorf("create session: %w", err)
	}
	sessionsStarted.Inc()

	s.logger.Info().
		Str("session_id", sess.ID).
		Str("user_id", userID.String()).
		Str("category", category).
		Msg("quiz started")
	return StartResult{SessionID: sess.ID, Category: category}, nil
}

// Next delivers the next question. A delivered but unanswered question is returned again.
// A completed session reads as ErrNoMoreQuestions, unlike Answer which reports ErrInvalidState.
func (s *Service) Next(ctx context.Context, sessionID string, userID uuid.UUID) (question.View, error) {
	sess, err := s.acquire(ctx, sessionID, userID)
	if err != nil {
		return question.View{}, err
	}
	defer sess.mu.Unlock()

	if sess.Completed {
		return question.View{}, ErrNoMoreQuestions
	}
	if sess.hasPending {
		q, ok := s.bank.Lookup(sess.pending)
		if !ok {
			return question.View{}, ErrQuestionNotFound
		}
		return q.View(), nil
	}
	if len(sess.Shown) >= s.limit {
		s.finish(sess, ReasonLimit)
		return question.View{}, ErrNoMoreQuestions
	}

	q, ok := s.selector.Select(sess)
	if !ok {
		s.finish(sess, ReasonExhausted)
		return question.View{}, ErrNoMoreQuestions
	}
	sess.deliver(q.ID)
	return q.View(), nil
}

// Answer evaluates the answer to the pending question and advances the session.
func (s *Service) Answer(ctx context.Context, sessionID string, userID uuid.UUID, questionID int, answer string) (AnswerResult, error) {
	sess, err := s.acquire(ctx, sessionID, userID)
	if err != nil {
		return AnswerResult{}, err
	}
	defer sess.mu.Unlock()

	if sess.Completed {
		return AnswerResult{}, fmt.Errorf("%w: quiz already completed", ErrInvalidState)
	}
	q, ok := s.bank.Lookup(questionID)
	if !ok {
		return AnswerResult{}, ErrQuestionNotFound
	}
	if !sess.hasPending || sess.pending != questionID {
		return AnswerResult{}, fmt.Errorf("%w: question %d is not awaiting an answer", ErrInvalidState, questionID)
	}

	correct := answer == q.Answer
	s.engine.Apply(&sess.Tally, correct, q.PointValue())
	sess.hasPending = false
	answersTotal.WithLabelValues(strconv.FormatBool(correct)).Inc()

	res := AnswerResult{Correct: correct, Score: sess.Score}
	if correct {
		res.Message = "Correct!"
	} else {
		res.Message = fmt.Sprintf("Wrong! The correct answer was %s", q.Answer)
	}

	var next question.Question
	if len(sess.Shown) >= s.limit {
		s.finish(sess, ReasonLimit)
	} else if next, ok = s.selector.Select(sess); !ok {
		s.finish(sess, ReasonExhausted)
	}

	if sess.Completed {
		final := finalStats(sess)
		res.Completed = true
		res.FinalStats = &final
		res.Message += " Quiz completed."
		return res, nil
	}

	sess.deliver(next.ID)
	view := next.View()
	res.NextQuestion = &view
	return res, nil
}

// Result returns the session's figures, final once completed.
func (s *Service) Result(ctx context.Context, sessionID string, userID uuid.UUID) (Result, error) {
	sess, err := s.acquire(ctx, sessionID, userID)
	if err != nil {
		return Result{}, err
	}
	defer sess.mu.Unlock()

	return Result{
		SessionID:      sess.ID,
		Category:       sess.Category,
		Completed:      sess.Completed,
		QuestionsShown: len(sess.Shown),
		Difficulty:     sess.Difficulty,
		FinalStats:     finalStats(sess),
	}, nil
}

// Delete removes the session for its owner.
func (s *Service) Delete(ctx context.Context, sessionID string, userID uuid.UUID) error {
	sess, err := s.acquire(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	defer sess.mu.Unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	sess.deleted = true
	s.logger.Info().
		Str("session_id", sessionID).
		Str("user_id", userID.String()).
		Bool("completed", sess.Completed).
		Msg("quiz deleted")
	return nil
}

// Stats returns the user's lifetime summary; users without a record get zeros.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (stats.Summary, error) {
	rec, err := s.stats.Get(ctx, userID)
	if errors.Is(err, stats.ErrNotFound) {
		return stats.Summarize(stats.Record{UserID: userID}), nil
	}
	if err != nil {
		return stats.Summary{}, fmt.Errorf("read stats: %w", err)
	}
	return stats.Summarize(rec), nil
}

// Categories lists the bank's category labels.
func (s *Service) Categories() []string {
	return s.bank.Categories()
}

// acquire loads the session, locks it and verifies ownership. On success the
// caller must unlock.
func (s *Service) acquire(ctx context.Context, sessionID string, userID uuid.UUID) (*Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrForbidden
	}
	sess.mu.Lock()
	if sess.deleted {
		sess.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) finish(sess *Session, reason string) {
	sess.complete(s.now().UTC())
	quizzesCompleted.WithLabelValues(reason).Inc()

	s.logger.Info().
		Str("session_id", sess.ID).
		Str("user_id", sess.UserID.String()).
		Str("reason", reason).
		Int("score", sess.Score).
		Int("correct", sess.Correct).
		Int("wrong", sess.Wrong).
		Msg("quiz completed")

	// A session that ended before any answer was evaluated is not a played game.
	if sess.Correct+sess.Wrong == 0 {
		return
	}
	s.recorder.Submit(stats.Completion{
		UserID:     sess.UserID,
		SessionID:  sess.ID,
		Score:      sess.Score,
		Correct:    sess.Correct,
		Wrong:      sess.Wrong,
		BestStreak: sess.BestStreak,
	})
}

func finalStats(sess *Session) FinalStats {
	return FinalStats{
		Score:      sess.Score,
		Correct:    sess.Correct,
		Wrong:      sess.Wrong,
		BestStreak: sess.BestStreak,
		Accuracy:   stats.FormatAccuracy(sess.Correct, sess.Wrong),
	}
}
