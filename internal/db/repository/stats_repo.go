package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gokatarajesh/quizsprint/internal/db/queries"
	"github.com/gokatarajesh/quizsprint/internal/stats"
)

type statsStore interface {
	UpsertUserStats(ctx context.Context, arg queries.UpsertUserStatsParams) (queries.UserStat, error)
	GetUserStats(ctx context.Context, userID pgtype.UUID) (queries.UserStat, error)
}

// StatsRepository is the Postgres stats.Store. The upsert is a single
// INSERT ... ON CONFLICT statement, so concurrent completions for one user
// serialize on the row.
type StatsRepository struct {
	store statsStore
}

func NewStatsRepository(store statsStore) *StatsRepository {
	return &StatsRepository{store: store}
}

func (r *StatsRepository) Upsert(ctx context.Context, c stats.Completion) error {
	_, err := r.store.UpsertUserStats(ctx, queries.UpsertUserStatsParams{
		UserID:       toPGUUID(c.UserID),
		TotalScore:   int64(c.Score),
		TotalCorrect: int32(c.Correct),
		TotalWrong:   int32(c.Wrong),
		BestStreak:   int32(c.BestStreak),
	})
	if err != nil {
		return fmt.Errorf("upsert stats %s: %w", c.UserID, err)
	}
	return nil
}

func (r *StatsRepository) Get(ctx context.Context, userID uuid.UUID) (stats.Record, error) {
	row, err := r.store.GetUserStats(ctx, toPGUUID(userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return stats.Record{}, stats.ErrNotFound
	}
	if err != nil {
		return stats.Record{}, fmt.Errorf("get stats %s: %w", userID, err)
	}
	return stats.Record{
		UserID:       fromPGUUID(row.UserID),
		GamesPlayed:  int(row.GamesPlayed),
		TotalScore:   int(row.TotalScore),
		TotalCorrect: int(row.TotalCorrect),
		TotalWrong:   int(row.TotalWrong),
		BestStreak:   int(row.BestStreak),
		UpdatedAt:    row.UpdatedAt.Time,
	}, nil
}
