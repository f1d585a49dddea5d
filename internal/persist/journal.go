package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/l1jgo/arena/internal/config"
	"go.uber.org/zap"
)

// RunInfo describes a simulation run at start.
type RunInfo struct {
	StartedAt  time.Time
	Width      int
	Height     int
	Population int
}

// KillRow is one resolved kill.
type KillRow struct {
	AttackerName string
	AttackerKind string
	DefenderName string
	DefenderKind string
	Attack       int
	Defense      int
	X, Y         int
	At           time.Time
}

// SurvivorRow is one actor alive at the end of a run.
type SurvivorRow struct {
	Name string
	Kind string
	X, Y int
}

// Journal stores the battle history of runs.
type Journal interface {
	BeginRun(ctx context.Context, info RunInfo) (int64, error)
	// RecordKills writes a batch of kills atomically.
	RecordKills(ctx context.Context, runID int64, kills []KillRow) error
	EndRun(ctx context.Context, runID int64, endedAt time.Time, survivors []SurvivorRow, kills int) error
	Close() error
}

// OpenJournal opens the journal selected by cfg.Driver and migrates it.
// An empty driver returns a nil Journal and no error.
func OpenJournal(ctx context.Context, cfg config.JournalConfig, log *zap.Logger) (Journal, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "postgres":
		j, err := OpenPGJournal(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "sqlite":
		j, err := OpenSQLiteJournal(ctx, cfg.DSN, log)
		if err != nil {
			return nil, err
		}
		return j, nil
	default:
		return nil, fmt.Errorf("unknown journal driver %q", cfg.Driver)
	}
}
