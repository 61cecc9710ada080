package quiz

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizsprint/internal/auth"
	httperrors "github.com/gokatarajesh/quizsprint/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for quiz sessions.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for quiz endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "quiz_http").Logger(),
	}
}

// Mount registers the authenticated quiz routes on r.
func (h *HTTPHandlers) Mount(r chi.Router) {
	r.Post("/quiz/start", h.Start)
	r.Route("/quiz/{sessionID}", func(r chi.Router) {
		r.Get("/next", h.Next)
		r.Post("/answer", h.Answer)
		r.Get("/result", h.Result)
		r.Delete("/", h.Delete)
	})
	r.Get("/stats", h.Stats)
}

type startRequest struct {
	Category string `json:"category"`
}

type answerRequest struct {
	QuestionID *int   `json:"question_id"`
	Answer     string `json:"answer"`
}

// Start handles POST /v1/quiz/start
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	res, err := h.service.Start(r.Context(), auth.UserID(r), req.Category)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, res)
}

// Next handles GET /v1/quiz/{sessionID}/next
func (h *HTTPHandlers) Next(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Next(r.Context(), chi.URLParam(r, "sessionID"), auth.UserID(r))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"question": q})
}

// Answer handles POST /v1/quiz/{sessionID}/answer
func (h *HTTPHandlers) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.QuestionID == nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidQuestionID, "question_id is required", "question_id")
		return
	}

	res, err := h.service.Answer(r.Context(), chi.URLParam(r, "sessionID"), auth.UserID(r), *req.QuestionID, req.Answer)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, res)
}

// Result handles GET /v1/quiz/{sessionID}/result
func (h *HTTPHandlers) Result(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Result(r.Context(), chi.URLParam(r, "sessionID"), auth.UserID(r))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, res)
}

// Delete handles DELETE /v1/quiz/{sessionID}
func (h *HTTPHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.service.Delete(r.Context(), sessionID, auth.UserID(r)); err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"deleted":    true,
	})
}

// Stats handles GET /v1/stats
func (h *HTTPHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)
	summary, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("stats fetch failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeStatsFetchFailed, "Could not load stats")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, summary)
}

// Categories handles GET /v1/categories
func (h *HTTPHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.service.Categories(),
	})
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Quiz session not found")
	case errors.Is(err, ErrQuestionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Question not found")
	case errors.Is(err, ErrForbidden):
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Quiz session belongs to another user")
	case errors.Is(err, ErrInvalidState):
		httperrors.RespondConflict(w, httperrors.ErrCodeInvalidState, err.Error())
	case errors.Is(err, ErrNoMoreQuestions):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNoMoreQuestions, "No more questions available")
	default:
		h.logger.Error().Err(err).Msg("quiz request failed")
		httperrors.RespondInternalError(w, "Internal server error")
	}
}
