package persist

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/l1jgo/arena/internal/core/event"
	"go.uber.org/zap"
)

const recorderBatch = 64

// Recorder streams kill events into a Journal from a single writer
// goroutine so the combat resolver never waits on the database.
type Recorder struct {
	j     Journal
	runID int64
	log   *zap.Logger

	mu     sync.RWMutex // guards closed against sends on ch
	closed bool
	ch     chan KillRow
	wg     sync.WaitGroup

	written int
	dropped atomic.Int64
}

// StartRecorder opens a run in j and subscribes to kill events on bus.
func StartRecorder(ctx context.Context, j Journal, info RunInfo, bus *event.Bus, log *zap.Logger) (*Recorder, error) {
	id, err := j.BeginRun(ctx, info)
	if err != nil {
		return nil, err
	}
	r := &Recorder{
		j:     j,
		runID: id,
		log:   log.With(zap.Int64("run", id)),
		ch:    make(chan KillRow, 4096),
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.loop()
	}()
	event.Subscribe(bus, r.onKill)
	return r, nil
}

func (r *Recorder) RunID() int64 { return r.runID }

func (r *Recorder) onKill(e event.ActorKilled) {
	row := KillRow{
		AttackerName: e.AttackerName,
		AttackerKind: e.AttackerKind,
		DefenderName: e.DefenderName,
		DefenderKind: e.DefenderKind,
		Attack:       e.Attack,
		Defense:      e.Defense,
		X:            e.X,
		Y:            e.Y,
		At:           e.At,
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.ch <- row:
	default:
		r.dropped.Add(1)
		r.log.Warn("journal queue full, kill dropped", zap.String("defender", e.DefenderName))
	}
}

func (r *Recorder) loop() {
	batch := make([]KillRow, 0, recorderBatch)
	for row := range r.ch {
		batch = append(batch[:0], row)
	fill:
		for len(batch) < recorderBatch {
			select {
			case next, ok := <-r.ch:
				if !ok {
					break fill
				}
				batch = append(batch, next)
			default:
				break fill
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.j.RecordKills(ctx, r.runID, batch); err != nil {
			r.log.Error("journal write failed", zap.Int("kills", len(batch)), zap.Error(err))
		} else {
			r.written += len(batch)
		}
		cancel()
	}
}

// Finish stops accepting events, flushes queued kills, then writes the
// survivor list and closes the run. It returns the number of kills written.
func (r *Recorder) Finish(ctx context.Context, survivors []SurvivorRow) (int, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return r.written, nil
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()

	r.wg.Wait()
	if n := r.dropped.Load(); n > 0 {
		r.log.Warn("kills dropped from journal", zap.Int64("dropped", n))
	}
	if err := r.j.EndRun(ctx, r.runID, time.Now(), survivors, r.written); err != nil {
		return r.written, fmt.Errorf("end run %d: %w", r.runID, err)
	}
	return r.written, nil
}
