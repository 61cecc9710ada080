package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizsprint/db/migrations"
	"github.com/gokatarajesh/quizsprint/internal/auth"
	"github.com/gokatarajesh/quizsprint/internal/auth/jwt"
	"github.com/gokatarajesh/quizsprint/internal/config"
	"github.com/gokatarajesh/quizsprint/internal/db/queries"
	"github.com/gokatarajesh/quizsprint/internal/db/repository"
	"github.com/gokatarajesh/quizsprint/internal/logging"
	"github.com/gokatarajesh/quizsprint/internal/question"
	"github.com/gokatarajesh/quizsprint/internal/question/external"
	"github.com/gokatarajesh/quizsprint/internal/quiz"
	"github.com/gokatarajesh/quizsprint/internal/quiz/scoring"
	"github.com/gokatarajesh/quizsprint/internal/server"
	"github.com/gokatarajesh/quizsprint/internal/stats"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	aggregator *stats.Aggregator
	bgCancels  []context.CancelFunc
	bgDone     []chan struct{}
}

// New bootstraps configs, logger, Postgres, Redis, the question bank and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, fmt.Sprintf("%s pool_max_conns=%d", cfg.Postgres.DSN(), cfg.Postgres.MaxConns))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if cfg.Postgres.AutoMigrate {
		db := stdlib.OpenDBFromPool(pool)
		err := migrations.Run(ctx, db, migrations.CommandUp)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info().Msg("migrations applied")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	q := queries.New(pool)
	userRepo := repository.NewUserRepository(q)

	authSvc := auth.NewService(userRepo, jwt.TokenConfig{
		Secret:    []byte(cfg.Security.JWTSecret),
		AccessTTL: cfg.Security.AccessTTL,
		Issuer:    cfg.Name,
	}, logger)
	authHandlers := auth.NewHTTPHandlers(authSvc, logger)

	opentdbClient := external.NewOpenTDBClient(cfg.Bank.OpenTDBURL, &http.Client{Timeout: cfg.Bank.OpenTDBTimeout})
	loader := question.NewLoader(opentdbClient, question.LoaderOptions{
		Source:    cfg.Bank.Source,
		Path:      cfg.Bank.Path,
		Amount:    cfg.Bank.OpenTDBAmount,
		RandIndex: rand.Intn,
	}, logger)
	bank, err := loader.Load(ctx)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	var statsStore stats.Store
	switch cfg.Stats.Backend {
	case config.StatsBackendRedis:
		statsStore = stats.NewRedisStore(redisClient, cfg.Stats.RedisPrefix)
	default:
		statsStore = repository.NewStatsRepository(q)
	}
	logger.Info().Str("backend", cfg.Stats.Backend).Msg("stats store selected")

	aggregator := stats.NewAggregator(statsStore, stats.AggregatorOptions{
		QueueSize: cfg.Stats.QueueSize,
		Workers:   cfg.Stats.Workers,
		Timeout:   cfg.Stats.UpsertTimeout,
	}, logger)

	engine := scoring.NewEngine(scoring.DefaultScoringConfig())
	quizSvc := quiz.NewService(
		bank,
		quiz.NewMemoryStore(engine, logger),
		engine,
		aggregator,
		statsStore,
		quiz.ServiceOptions{
			QuestionLimit: cfg.Quiz.QuestionLimit,
			RandIndex:     rand.Intn,
		},
		logger,
	)

	apiServer := server.NewHTTPServer(cfg, logger, server.Dependencies{
		DB:        pool,
		Redis:     redisClient,
		Auth:      authHandlers,
		Validator: authSvc,
		Quiz:      quiz.NewHTTPHandlers(quizSvc, logger),
	})

	return &Application{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		http:       apiServer,
		aggregator: aggregator,
		bgCancels:  make([]context.CancelFunc, 0, 1),
		bgDone:     make([]chan struct{}, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	// The aggregator drains on cancel; its stores must stay open until it returns.
	for _, cancel := range a.bgCancels {
		cancel()
	}
	for _, done := range a.bgDone {
		select {
		case <-done:
		case <-shutdownCtx.Done():
			a.logger.Warn().Msg("background worker did not drain before shutdown deadline")
		}
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	bgCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.bgCancels = append(a.bgCancels, cancel)
	a.bgDone = append(a.bgDone, done)

	go func() {
		defer close(done)
		if err := a.aggregator.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn().Err(err).Msg("stats aggregator stopped")
		}
	}()
}
