package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

func setup() error {
	goose.SetBaseFS(files)
	return goose.SetDialect("postgres")
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}

// Run executes a goose command (up, down, status, reset) against db.
func Run(ctx context.Context, db *sql.DB, command string) error {
	if err := setup(); err != nil {
		return err
	}
	switch command {
	case "up":
		return goose.UpContext(ctx, db, dir)
	case "down":
		return goose.DownContext(ctx, db, dir)
	case "status":
		return goose.StatusContext(ctx, db, dir)
	case "reset":
		return goose.ResetContext(ctx, db, dir)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}
