package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gokatarajesh/quizsprint/internal/auth/jwt"
	"github.com/gokatarajesh/quizsprint/internal/db/repository"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (repository.User, error) {
	args := m.Called(ctx, username, passwordHash)
	return args.Get(0).(repository.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (repository.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(repository.User), args.Error(1)
}

func newTestService(repo *mockUserRepo) *Service {
	return NewService(repo, jwt.TokenConfig{Secret: []byte("test-secret")}, zerolog.Nop())
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.True(t, len(hash) > 20) // bcrypt hashes are long
}

func TestVerifyPassword(t *testing.T) {
	hash, _ := HashPassword("testpassword123")

	assert.NoError(t, VerifyPassword(hash, "testpassword123"))
	assert.ErrorIs(t, VerifyPassword(hash, "wrongpassword"), ErrInvalidPassword)
}

func TestPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.Equal(t, ErrPasswordTooShort, err)
}

func TestService_Register(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo)
	userID := uuid.New()

	repo.On("Create", mock.Anything, "alice", mock.AnythingOfType("string")).
		Return(repository.User{ID: userID, Username: "alice"}, nil)

	resp, err := svc.Register(context.Background(), Credentials{Username: "  alice ", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, userID.String(), resp.UserID)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	hash := repo.Calls[0].Arguments.String(2)
	assert.NoError(t, VerifyPassword(hash, "supersecret"))
}

func TestService_RegisterValidation(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), Credentials{Username: "al", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Register(context.Background(), Credentials{Username: "alice", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_RegisterDuplicate(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo)
	repo.On("Create", mock.Anything, "alice", mock.Anything).Return(repository.User{}, repository.ErrUsernameTaken)

	_, err := svc.Register(context.Background(), Credentials{Username: "alice", Password: "supersecret"})
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)
}

func TestService_Login(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo)
	hash, err := HashPassword("supersecret")
	require.NoError(t, err)
	userID := uuid.New()

	repo.On("GetByUsername", mock.Anything, "alice").Return(repository.User{ID: userID, Username: "alice", PasswordHash: hash}, nil)
	repo.On("GetByUsername", mock.Anything, "ghost").Return(repository.User{}, repository.ErrUserNotFound)
	repo.On("GetByUsername", mock.Anything, "broken").Return(repository.User{}, errors.New("db down"))

	resp, err := svc.Login(context.Background(), Credentials{Username: "alice", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, userID.String(), resp.UserID)

	_, err = svc.Login(context.Background(), Credentials{Username: "alice", Password: "wrongpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), Credentials{Username: "ghost", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), Credentials{Username: "broken", Password: "whatever1"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
