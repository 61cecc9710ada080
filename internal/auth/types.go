package auth

import (
	"time"

	"github.com/google/uuid"
)

// MinPasswordLength is enforced on registration.
const MinPasswordLength = 8

// User is a registered account.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Credentials is the register and login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned after a successful register or login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}
