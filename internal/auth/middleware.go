package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizsprint/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/quizsprint/pkg/http/errors"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// RequireUser validates the bearer JWT and injects the user id into the request context.
func RequireUser(validator TokenValidator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
				return
			}

			// Parse "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				logger.Warn().Err(err).Msg("token validation failed")
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// UserID is a convenience for handlers mounted behind RequireUser.
func UserID(r *http.Request) uuid.UUID {
	id, _ := UserIDFromContext(r.Context())
	return id
}
