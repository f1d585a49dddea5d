package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/l1jgo/arena/internal/config"
	"go.uber.org/zap"
)

// PGJournal is the PostgreSQL journal on a pgx connection pool.
type PGJournal struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

func OpenPGJournal(ctx context.Context, cfg config.JournalConfig, log *zap.Logger) (*PGJournal, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 && cfg.MaxIdleConns <= int(poolCfg.MaxConns) {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	err = RunMigrations(ctx, db, "postgres")
	db.Close()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &PGJournal{Pool: pool, log: log}, nil
}

func (j *PGJournal) BeginRun(ctx context.Context, info RunInfo) (int64, error) {
	var id int64
	err := j.Pool.QueryRow(ctx,
		`INSERT INTO runs (started_at, width, height, population)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		info.StartedAt, info.Width, info.Height, info.Population,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

func (j *PGJournal) RecordKills(ctx context.Context, runID int64, kills []KillRow) error {
	tx, err := j.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("kills begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, k := range kills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO kills (run_id, attacker_name, attacker_kind, defender_name, defender_kind,
			                    attack, defense, x, y, killed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			runID, k.AttackerName, k.AttackerKind, k.DefenderName, k.DefenderKind,
			k.Attack, k.Defense, k.X, k.Y, k.At,
		); err != nil {
			return fmt.Errorf("kills insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (j *PGJournal) EndRun(ctx context.Context, runID int64, endedAt time.Time, survivors []SurvivorRow, kills int) error {
	tx, err := j.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("end run begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range survivors {
		if _, err := tx.Exec(ctx,
			`INSERT INTO survivors (run_id, name, kind, x, y) VALUES ($1, $2, $3, $4, $5)`,
			runID, s.Name, s.Kind, s.X, s.Y,
		); err != nil {
			return fmt.Errorf("survivor insert: %w", err)
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE runs SET ended_at = $2, survivors = $3, kills = $4 WHERE id = $1`,
		runID, endedAt, len(survivors), kills,
	); err != nil {
		return fmt.Errorf("run update: %w", err)
	}

	return tx.Commit(ctx)
}

func (j *PGJournal) Close() error {
	j.Pool.Close()
	return nil
}
