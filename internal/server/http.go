package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizsprint/internal/auth"
	"github.com/gokatarajesh/quizsprint/internal/config"
	"github.com/gokatarajesh/quizsprint/internal/logging"
	"github.com/gokatarajesh/quizsprint/internal/quiz"
	httperrors "github.com/gokatarajesh/quizsprint/pkg/http/errors"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger is satisfied by *redis.Client.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// Dependencies groups what the router needs.
type Dependencies struct {
	DB        Pinger
	Redis     RedisPinger
	Auth      *auth.HTTPHandlers
	Validator auth.TokenValidator
	Quiz      *quiz.HTTPHandlers
}

// NewHTTPServer wires health, metrics, auth and quiz routes for the API service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Dependencies) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewRouter(cfg.CORS, logger, deps),
	}
}

// NewRouter builds the chi router. Exposed separately so tests can drive it with httptest.
func NewRouter(corsCfg config.CORS, logger zerolog.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			if err := pingDependencies(r.Context(), deps.DB, deps.Redis); err != nil {
				l := logging.FromContext(r.Context())
				l.Error().Err(err).Msg("dependency ping failed")
				httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeServiceUnavailable, "upstream error")
				return
			}
			httperrors.RespondJSON(w, http.StatusOK, map[string]bool{"pong": true})
		})

		if deps.Auth != nil {
			r.Post("/auth/register", deps.Auth.Register)
			r.Post("/auth/login", deps.Auth.Login)
		}

		if deps.Quiz != nil {
			r.Get("/categories", deps.Quiz.Categories)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireUser(deps.Validator, logger))
				deps.Quiz.Mount(r)
			})
		}
	})

	return r
}

func pingDependencies(ctx context.Context, db Pinger, rdb RedisPinger) error {
	if db != nil {
		if err := db.Ping(ctx); err != nil {
			return err
		}
	}
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
