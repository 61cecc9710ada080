package quiz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizsprint/internal/auth"
	"github.com/gokatarajesh/quizsprint/internal/question"
	httperrors "github.com/gokatarajesh/quizsprint/pkg/http/errors"
)

// newTestRouter authenticates every request as the uuid in the X-User header.
func newTestRouter(f fixture) http.Handler {
	h := NewHTTPHandlers(f.svc, zerolog.Nop())
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Get("/categories", h.Categories)
		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					id := uuid.MustParse(req.Header.Get("X-User"))
					next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), id)))
				})
			})
			h.Mount(r)
		})
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path string, user uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-User", user.String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHTTPQuizFlow(t *testing.T) {
	f := newFixture(t, mustBank(t,
		question.Question{ID: 1, Prompt: "one", Options: []string{"A", "B"}, Answer: "A", Difficulty: 3, Category: "Science"},
		question.Question{ID: 2, Prompt: "two", Options: []string{"A", "B"}, Answer: "B", Difficulty: 3, Category: "Science"},
	))
	router := newTestRouter(f)
	user := uuid.New()

	rec := do(t, router, http.MethodPost, "/v1/quiz/start", user, `{"category":"science"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	start := decode[StartResult](t, rec)
	base := "/v1/quiz/" + start.SessionID

	rec = do(t, router, http.MethodGet, base+"/next", user, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"answer"`)
	next := decode[struct {
		Question question.View `json:"question"`
	}](t, rec)
	assert.Equal(t, 1, next.Question.ID)

	rec = do(t, router, http.MethodPost, base+"/answer", user, `{"question_id":1,"answer":"A"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[AnswerResult](t, rec)
	assert.True(t, res.Correct)
	require.NotNil(t, res.NextQuestion)

	rec = do(t, router, http.MethodPost, base+"/answer", user, `{"question_id":1,"answer":"A"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidState, decode[httperrors.ErrorResponse](t, rec).Error)

	rec = do(t, router, http.MethodPost, base+"/answer", user, `{"question_id":2,"answer":"B"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[AnswerResult](t, rec)
	assert.True(t, res.Completed)
	require.NotNil(t, res.FinalStats)
	assert.Equal(t, "100.00%", res.FinalStats.Accuracy)

	rec = do(t, router, http.MethodGet, base+"/next", user, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httperrors.ErrCodeNoMoreQuestions, decode[httperrors.ErrorResponse](t, rec).Error)

	rec = do(t, router, http.MethodGet, base+"/result", user, "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[Result](t, rec)
	assert.True(t, result.Completed)
	assert.Equal(t, 20, result.Score)

	rec = do(t, router, http.MethodGet, "/v1/stats", user, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"games_played":1,"total_score":20,"total_correct":2,"total_wrong":0,"accuracy":"100.00%","best_streak":2}`, rec.Body.String())

	rec = do(t, router, http.MethodDelete, base, uuid.New(), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodDelete, base, user, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"session_id":"`+start.SessionID+`","deleted":true}`, rec.Body.String())

	rec = do(t, router, http.MethodDelete, base, user, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httperrors.ErrCodeNotFound, decode[httperrors.ErrorResponse](t, rec).Error)
}

func TestHTTPStartWithoutBody(t *testing.T) {
	f := newFixture(t, largeBank(t, 2))
	rec := do(t, newTestRouter(f), http.MethodPost, "/v1/quiz/start", uuid.New(), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, GeneralCategory, decode[StartResult](t, rec).Category)
}

func TestHTTPAnswerValidation(t *testing.T) {
	f := newFixture(t, largeBank(t, 2))
	router := newTestRouter(f)
	user := uuid.New()
	start := decode[StartResult](t, do(t, router, http.MethodPost, "/v1/quiz/start", user, `{}`))
	base := "/v1/quiz/" + start.SessionID

	rec := do(t, router, http.MethodPost, base+"/answer", user, `{bad`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, base+"/answer", user, `{"answer":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "question_id", decode[httperrors.ErrorResponse](t, rec).Field)

	rec = do(t, router, http.MethodPost, base+"/answer", user, `{"question_id":42,"answer":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/v1/quiz/unknown/next", user, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, base+"/next", uuid.New(), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHTTPCategories(t *testing.T) {
	f := newFixture(t, mustBank(t,
		question.Question{ID: 1, Difficulty: 3, Category: "science"},
		question.Question{ID: 2, Difficulty: 3, Category: "History"},
		question.Question{ID: 3, Difficulty: 3, Category: "Science"},
	))
	req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
	rec := httptest.NewRecorder()
	newTestRouter(f).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":["History","science"]}`, rec.Body.String())
}
