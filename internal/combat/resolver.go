package combat

import (
	"context"
	"fmt"
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// ActorLookup resolves task IDs to actors.
type ActorLookup interface {
	Get(id ecs.EntityID) (*world.Actor, bool)
}

// Outcome is what one resolution did.
type Outcome int

const (
	OutcomeNone     Outcome = iota // no task was available
	OutcomeSkipped                 // a party was gone or already dead
	OutcomeRepelled                // defense held (tie or higher)
	OutcomeKilled                  // defender died
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRepelled:
		return "repelled"
	case OutcomeKilled:
		return "killed"
	default:
		return "none"
	}
}

// Resolver is the single consumer of the fight queue.
type Resolver struct {
	sched  *Scheduler
	actors ActorLookup
	dice   Dice
	bus    *event.Bus
	log    *zap.Logger
}

func NewResolver(sched *Scheduler, actors ActorLookup, dice Dice, bus *event.Bus, log *zap.Logger) *Resolver {
	if dice == nil {
		dice = RandDice{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{sched: sched, actors: actors, dice: dice, bus: bus, log: log}
}

// Run resolves tasks until the scheduler is closed and drained, or ctx is
// done. Tasks still queued when the scheduler closes are resolved before Run
// returns.
func (r *Resolver) Run(ctx context.Context) error {
	resolved := 0
	for {
		t, ok := r.sched.Next(ctx)
		if !ok {
			r.log.Debug("resolver stopped", zap.Int("resolved", resolved), zap.Int("left", r.sched.Len()))
			return ctx.Err()
		}
		r.Resolve(t)
		resolved++
	}
}

// ResolveOne takes one queued task without blocking and resolves it.
func (r *Resolver) ResolveOne() Outcome {
	t, ok := r.sched.TryNext()
	if !ok {
		return OutcomeNone
	}
	return r.Resolve(t)
}

// Resolve settles t. Either party may have died or left the registry since
// the task was queued; that is a silent no-op.
func (r *Resolver) Resolve(t Task) Outcome {
	attacker, ok := r.actors.Get(t.Attacker)
	if !ok {
		return OutcomeSkipped
	}
	defender, ok := r.actors.Get(t.Defender)
	if !ok {
		return OutcomeSkipped
	}
	if !attacker.Alive() || !defender.Alive() {
		return OutcomeSkipped
	}

	attack, defense := r.dice.Roll()
	if attack <= defense {
		return OutcomeRepelled
	}
	if !defender.Kill() {
		return OutcomeSkipped
	}

	pos := defender.Position()
	defender.Notify(fmt.Sprintf("%s killed %s (attack=%d, defense=%d)",
		attacker.Name(), defender.Name(), attack, defense))
	r.log.Debug("kill",
		zap.String("attacker", attacker.Name()),
		zap.String("defender", defender.Name()),
		zap.Int("attack", attack),
		zap.Int("defense", defense))

	event.Emit(r.bus, event.ActorKilled{
		Attacker:     attacker.ID(),
		AttackerName: attacker.Name(),
		AttackerKind: attacker.Kind().String(),
		Defender:     defender.ID(),
		DefenderName: defender.Name(),
		DefenderKind: defender.Kind().String(),
		Attack:       attack,
		Defense:      defense,
		X:            pos.X,
		Y:            pos.Y,
		At:           time.Now(),
	})
	return OutcomeKilled
}
