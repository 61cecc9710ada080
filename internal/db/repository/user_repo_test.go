package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizsprint/internal/db/queries"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) CreateUser(ctx context.Context, arg queries.CreateUserParams) (queries.User, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.User), args.Error(1)
}

func (m *mockUserStore) GetUserByUsername(ctx context.Context, username string) (queries.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(queries.User), args.Error(1)
}

func TestUserRepository_Create(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	params := queries.CreateUserParams{Username: "ace", PasswordHash: "hashed"}
	row := queries.User{
		UserID:       uuidFromByte(1),
		Username:     "ace",
		PasswordHash: "hashed",
		CreatedAt:    pgtype.Timestamptz{Time: created, Valid: true},
	}
	store.On("CreateUser", mock.Anything, params).Return(row, nil)

	got, err := repo.Create(context.Background(), "ace", "hashed")

	require.NoError(t, err)
	assert.Equal(t, uuid.UUID(row.UserID.Bytes), got.ID)
	assert.Equal(t, "ace", got.Username)
	assert.Equal(t, created, got.CreatedAt)
	store.AssertExpectations(t)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	store.On("CreateUser", mock.Anything, mock.Anything).
		Return(queries.User{}, &pgconn.PgError{Code: "23505", Message: "duplicate key"})

	_, err := repo.Create(context.Background(), "ace", "hashed")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserRepository_CreateOtherError(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)
	boom := errors.New("connection reset")

	store.On("CreateUser", mock.Anything, mock.Anything).Return(queries.User{}, boom)

	_, err := repo.Create(context.Background(), "ace", "hashed")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	row := queries.User{UserID: uuidFromByte(2), Username: "Ace", PasswordHash: "h"}
	store.On("GetUserByUsername", mock.Anything, "ace").Return(row, nil)
	store.On("GetUserByUsername", mock.Anything, "ghost").Return(queries.User{}, pgx.ErrNoRows)

	got, err := repo.GetByUsername(context.Background(), "ace")
	require.NoError(t, err)
	assert.Equal(t, "Ace", got.Username)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	store.AssertExpectations(t)
}
