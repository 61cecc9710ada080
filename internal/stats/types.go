package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gokatarajesh/quizsprint/internal/quiz/scoring"
)

// ErrNotFound is returned when a user has no stats record yet.
var ErrNotFound = errors.New("stats record not found")

// Record is a user's lifetime aggregate.
type Record struct {
	UserID       uuid.UUID
	GamesPlayed  int
	TotalScore   int
	TotalCorrect int
	TotalWrong   int
	BestStreak   int
	UpdatedAt    time.Time
}

// Completion is the contribution of one finished quiz session.
type Completion struct {
	UserID     uuid.UUID
	SessionID  string
	Score      int
	Correct    int
	Wrong      int
	BestStreak int
}

// Store upserts and reads lifetime records. Upsert must be atomic per user.
type Store interface {
	Upsert(ctx context.Context, c Completion) error
	Get(ctx context.Context, userID uuid.UUID) (Record, error)
}

// Summary is the client-facing stats shape.
type Summary struct {
	GamesPlayed  int    `json:"games_played"`
	TotalScore   int    `json:"total_score"`
	TotalCorrect int    `json:"total_correct"`
	TotalWrong   int    `json:"total_wrong"`
	Accuracy     string `json:"accuracy"`
	BestStreak   int    `json:"best_streak"`
}

// Summarize formats a record for clients.
func Summarize(r Record) Summary {
	return Summary{
		GamesPlayed:  r.GamesPlayed,
		TotalScore:   r.TotalScore,
		TotalCorrect: r.TotalCorrect,
		TotalWrong:   r.TotalWrong,
		Accuracy:     FormatAccuracy(r.TotalCorrect, r.TotalWrong),
		BestStreak:   r.BestStreak,
	}
}

// FormatAccuracy renders correct/(correct+wrong) as "NN.NN%".
func FormatAccuracy(correct, wrong int) string {
	return fmt.Sprintf("%.2f%%", scoring.Accuracy(correct, wrong))
}

var (
	errQueueFull         = errors.New("stats queue full")
	errAggregatorStopped = errors.New("stats aggregator stopped")
)
