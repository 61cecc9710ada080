package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizsprint/internal/auth/jwt"
	"github.com/gokatarajesh/quizsprint/internal/db/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUsername    = errors.New("username must be 3-32 characters")
)

type userRepository interface {
	Create(ctx context.Context, username, passwordHash string) (repository.User, error)
	GetByUsername(ctx context.Context, username string) (repository.User, error)
}

// Service handles registration, login and token verification.
type Service struct {
	users    userRepository
	tokenMgr *jwt.Manager
	logger   zerolog.Logger
}

// NewService creates an authentication service.
func NewService(users userRepository, tokens jwt.TokenConfig, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		tokenMgr: jwt.NewManager(tokens),
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates an account and returns an access token for it.
func (s *Service) Register(ctx context.Context, req Credentials) (TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 || len(username) > 32 {
		return TokenResponse{}, ErrInvalidUsername
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return TokenResponse{}, err
	}

	user, err := s.users.Create(ctx, username, passwordHash)
	if err != nil {
		return TokenResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return s.issue(user)
}

// Login verifies credentials and returns a fresh access token.
func (s *Service) Login(ctx context.Context, req Credentials) (TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, repository.ErrUserNotFound) {
		return TokenResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenResponse{}, fmt.Errorf("load user: %w", err)
	}

	if err := VerifyPassword(user.PasswordHash, req.Password); err != nil {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("login with wrong password")
		return TokenResponse{}, ErrInvalidCredentials
	}

	return s.issue(user)
}

// ValidateToken verifies an access token.
func (s *Service) ValidateToken(token string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(token)
}

func (s *Service) issue(user repository.User) (TokenResponse, error) {
	token, err := s.tokenMgr.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("generate token: %w", err)
	}
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenMgr.AccessTTL().Seconds()),
		UserID:      user.ID.String(),
		Username:    user.Username,
	}, nil
}
