// Package migrations embeds the goose SQL migrations.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// Command is one of the goose operations the migrator exposes.
type Command string

const (
	CommandUp     Command = "up"
	CommandDown   Command = "down"
	CommandStatus Command = "status"
)

// Run applies cmd against db using the embedded migrations.
func Run(ctx context.Context, db *sql.DB, cmd Command) error {
	goose.SetBaseFS(FS)
	goose.SetTableName("goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	switch cmd {
	case CommandUp:
		return goose.UpContext(ctx, db, ".")
	case CommandDown:
		return goose.DownContext(ctx, db, ".")
	case CommandStatus:
		return goose.StatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migration command %q", cmd)
	}
}
