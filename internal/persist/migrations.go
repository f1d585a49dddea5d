package persist

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// RunMigrations applies all pending journal migrations for dialect
// ("postgres" or "sqlite3").
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	dir := "migrations/postgres"
	if dialect == "sqlite3" {
		dir = "migrations/sqlite"
	}

	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
