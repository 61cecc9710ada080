package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/quizsprint/db/migrations"
	"github.com/gokatarajesh/quizsprint/internal/config"
)

func main() {
	command := flag.String("command", "up", "Migration command: up, down, or status")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", "migrator").Logger()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load .env file")
		}
	}

	var pg config.Postgres
	if err := config.ParseInto(&pg); err != nil {
		log.Fatal().Err(err).Msg("failed to load postgres config")
	}

	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("host", pg.Host).Int("port", pg.Port).Msg("failed to open database connection")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	log.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("database", pg.Database).
		Str("command", *command).
		Msg("connected to database")

	if err := migrations.Run(ctx, db, migrations.Command(*command)); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
	log.Info().Str("command", *command).Msg("migration finished")
}
