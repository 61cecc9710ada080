package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Stats backends.
const (
	StatsBackendPostgres = "postgres"
	StatsBackendRedis    = "redis"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quizsprint"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Security Security
	Quiz     Quiz
	Bank     Bank
	Stats    Stats
	CORS     CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host        string `env:"PG_HOST,notEmpty"`
	Port        int    `env:"PG_PORT" envDefault:"5432"`
	User        string `env:"PG_USER,notEmpty"`
	Password    string `env:"PG_PASSWORD,notEmpty"`
	Database    string `env:"PG_DATABASE,notEmpty"`
	SSLMode     string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns    int    `env:"PG_MAX_CONNS" envDefault:"10"`
	AutoMigrate bool   `env:"PG_AUTO_MIGRATE" envDefault:"false"`
}

// DSN renders a keyword/value connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds cache configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing and auth.
type Security struct {
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	AccessTTL time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
}

// Quiz groups gameplay defaults.
type Quiz struct {
	QuestionLimit int `env:"QUIZ_QUESTION_LIMIT" envDefault:"20"`
}

// Bank selects where questions are loaded from at startup.
type Bank struct {
	Source         string        `env:"QUESTION_BANK_SOURCE" envDefault:"file"`
	Path           string        `env:"QUESTION_BANK_PATH" envDefault:"data/questions.json"`
	OpenTDBURL     string        `env:"OPENTDB_URL" envDefault:"https://opentdb.com"`
	OpenTDBAmount  int           `env:"OPENTDB_AMOUNT" envDefault:"50"`
	OpenTDBTimeout time.Duration `env:"OPENTDB_TIMEOUT" envDefault:"10s"`
}

// Stats governs lifetime stats storage and the async aggregator.
type Stats struct {
	Backend       string        `env:"STATS_BACKEND" envDefault:"postgres"`
	QueueSize     int           `env:"STATS_QUEUE_SIZE" envDefault:"1024"`
	Workers       int           `env:"STATS_WORKERS" envDefault:"2"`
	UpsertTimeout time.Duration `env:"STATS_UPSERT_TIMEOUT" envDefault:"5s"`
	RedisPrefix   string        `env:"STATS_REDIS_PREFIX" envDefault:"stats"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := ParseInto(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseInto fills any tagged struct from the environment. The migrator uses it to read only Postgres settings.
func ParseInto(v any) error {
	if err := env.ParseWithOptions(v, env.Options{RequiredIfNoDef: true}); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *App) validate() error {
	switch c.Stats.Backend {
	case StatsBackendPostgres, StatsBackendRedis:
	default:
		return fmt.Errorf("STATS_BACKEND must be %q or %q, got %q", StatsBackendPostgres, StatsBackendRedis, c.Stats.Backend)
	}
	switch c.Bank.Source {
	case "file", "opentdb":
	default:
		return fmt.Errorf("QUESTION_BANK_SOURCE must be \"file\" or \"opentdb\", got %q", c.Bank.Source)
	}
	if c.Quiz.QuestionLimit <= 0 {
		return fmt.Errorf("QUIZ_QUESTION_LIMIT must be positive")
	}
	return nil
}
