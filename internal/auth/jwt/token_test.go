package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager(TokenConfig{Secret: []byte("secret")})
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "alice")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager(TokenConfig{Secret: []byte("one")}).GenerateAccessToken(uuid.New(), "bob")
	require.NoError(t, err)

	_, err = NewManager(TokenConfig{Secret: []byte("two")}).ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager(TokenConfig{Secret: []byte("secret"), AccessTTL: time.Minute})
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.GenerateAccessToken(uuid.New(), "carol")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewManager(TokenConfig{Secret: []byte("secret")}).ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
