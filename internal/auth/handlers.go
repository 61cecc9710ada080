package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizsprint/internal/db/repository"
	httperrors "github.com/gokatarajesh/quizsprint/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for authentication.
type HTTPHandlers struct {
	authSvc *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for auth endpoints.
func NewHTTPHandlers(authSvc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc: authSvc,
		logger:  logger.With().Str("component", "auth_http").Logger(),
	}
}

// Register handles POST /v1/auth/register
func (h *HTTPHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	resp, err := h.authSvc.Register(r.Context(), req)
	switch {
	case err == nil:
		httperrors.RespondJSON(w, http.StatusCreated, resp)
	case errors.Is(err, ErrInvalidUsername):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "username")
	case errors.Is(err, ErrPasswordTooShort):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "password")
	case errors.Is(err, repository.ErrUsernameTaken):
		httperrors.RespondConflict(w, httperrors.ErrCodeUsernameTaken, "Username already taken")
	default:
		h.logger.Error().Err(err).Msg("registration failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeRegistrationFailed, "Registration failed")
	}
}

// Login handles POST /v1/auth/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req)
	switch {
	case err == nil:
		httperrors.RespondJSON(w, http.StatusOK, resp)
	case errors.Is(err, ErrInvalidCredentials):
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, err.Error())
	default:
		h.logger.Error().Err(err).Msg("login failed")
		httperrors.RespondInternalError(w, "Login failed")
	}
}
