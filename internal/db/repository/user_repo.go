package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gokatarajesh/quizsprint/internal/db/queries"
)

const uniqueViolation = "23505"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type userStore interface {
	CreateUser(ctx context.Context, arg queries.CreateUserParams) (queries.User, error)
	GetUserByUsername(ctx context.Context, username string) (queries.User, error)
}

// User is a stored account.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository exposes typed DB operations required by auth flows.
type UserRepository struct {
	store userStore
}

// NewUserRepository wraps Queries for user-specific operations.
func NewUserRepository(store userStore) *UserRepository {
	return &UserRepository{store: store}
}

// Create inserts an account. Usernames are unique case-insensitively.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (User, error) {
	row, err := r.store.CreateUser(ctx, queries.CreateUserParams{
		Username:     username,
		PasswordHash: passwordHash,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrUsernameTaken
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return toUser(row), nil
}

// GetByUsername fetches a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	row, err := r.store.GetUserByUsername(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return toUser(row), nil
}

func toUser(row queries.User) User {
	return User{
		ID:           fromPGUUID(row.UserID),
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.Time,
	}
}
