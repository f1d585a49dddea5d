package persist

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteJournal is the single-file journal used when no PostgreSQL server
// is available.
type SQLiteJournal struct {
	db  *sql.DB
	log *zap.Logger
}

func OpenSQLiteJournal(ctx context.Context, path string, log *zap.Logger) (*SQLiteJournal, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := RunMigrations(ctx, db, "sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &SQLiteJournal{db: db, log: log}, nil
}

// DB exposes the handle for inspection.
func (j *SQLiteJournal) DB() *sql.DB { return j.db }

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func (j *SQLiteJournal) BeginRun(ctx context.Context, info RunInfo) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, width, height, population) VALUES (?, ?, ?, ?)`,
		stamp(info.StartedAt), info.Width, info.Height, info.Population,
	)
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	return res.LastInsertId()
}

func (j *SQLiteJournal) RecordKills(ctx context.Context, runID int64, kills []KillRow) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("kills begin: %w", err)
	}
	defer tx.Rollback()

	for _, k := range kills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kills (run_id, attacker_name, attacker_kind, defender_name, defender_kind,
			                    attack, defense, x, y, killed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, k.AttackerName, k.AttackerKind, k.DefenderName, k.DefenderKind,
			k.Attack, k.Defense, k.X, k.Y, stamp(k.At),
		); err != nil {
			return fmt.Errorf("kills insert: %w", err)
		}
	}
	return tx.Commit()
}

func (j *SQLiteJournal) EndRun(ctx context.Context, runID int64, endedAt time.Time, survivors []SurvivorRow, kills int) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("end run begin: %w", err)
	}
	defer tx.Rollback()

	for _, s := range survivors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO survivors (run_id, name, kind, x, y) VALUES (?, ?, ?, ?, ?)`,
			runID, s.Name, s.Kind, s.X, s.Y,
		); err != nil {
			return fmt.Errorf("survivor insert: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE runs SET ended_at = ?, survivors = ?, kills = ? WHERE id = ?`,
		stamp(endedAt), len(survivors), kills, runID,
	); err != nil {
		return fmt.Errorf("run update: %w", err)
	}
	return tx.Commit()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
