package queries

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const upsertUserStats = `-- name: UpsertUserStats :one
INSERT INTO user_stats (user_id, games_played, total_score, total_correct, total_wrong, best_streak, updated_at)
VALUES ($1, 1, $2, $3, $4, $5, now())
ON CONFLICT (user_id) DO UPDATE SET
    games_played  = user_stats.games_played + 1,
    total_score   = user_stats.total_score + EXCLUDED.total_score,
    total_correct = user_stats.total_correct + EXCLUDED.total_correct,
    total_wrong   = user_stats.total_wrong + EXCLUDED.total_wrong,
    best_streak   = GREATEST(user_stats.best_streak, EXCLUDED.best_streak),
    updated_at    = now()
RETURNING user_id, games_played, total_score, total_correct, total_wrong, best_streak, updated_at
`

type UpsertUserStatsParams struct {
	UserID       pgtype.UUID
	TotalScore   int64
	TotalCorrect int32
	TotalWrong   int32
	BestStreak   int32
}

func (q *Queries) UpsertUserStats(ctx context.Context, arg UpsertUserStatsParams) (UserStat, error) {
	row := q.db.QueryRow(ctx, upsertUserStats,
		arg.UserID,
		arg.TotalScore,
		arg.TotalCorrect,
		arg.TotalWrong,
		arg.BestStreak,
	)
	var i UserStat
	err := row.Scan(
		&i.UserID,
		&i.GamesPlayed,
		&i.TotalScore,
		&i.TotalCorrect,
		&i.TotalWrong,
		&i.BestStreak,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserStats = `-- name: GetUserStats :one
SELECT user_id, games_played, total_score, total_correct, total_wrong, best_streak, updated_at
FROM user_stats
WHERE user_id = $1
`

func (q *Queries) GetUserStats(ctx context.Context, userID pgtype.UUID) (UserStat, error) {
	row := q.db.QueryRow(ctx, getUserStats, userID)
	var i UserStat
	err := row.Scan(
		&i.UserID,
		&i.GamesPlayed,
		&i.TotalScore,
		&i.TotalCorrect,
		&i.TotalWrong,
		&i.BestStreak,
		&i.UpdatedAt,
	)
	return i, err
}
