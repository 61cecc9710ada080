package queries

import "github.com/jackc/pgx/v5/pgtype"

type User struct {
	UserID       pgtype.UUID
	Username     string
	PasswordHash string
	CreatedAt    pgtype.Timestamptz
}

type UserStat struct {
	UserID       pgtype.UUID
	GamesPlayed  int32
	TotalScore   int64
	TotalCorrect int32
	TotalWrong   int32
	BestStreak   int32
	UpdatedAt    pgtype.Timestamptz
}
