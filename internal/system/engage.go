package system

import (
	"github.com/l1jgo/arena/internal/combat"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// FightQueue accepts fight tasks, dropping pairs that are already pending.
type FightQueue interface {
	Submit(tasks ...combat.Task) int
}

// EngageSystem turns proximity into fight tasks. Phase 1 (Engage), so it
// always sees this tick's post-movement positions.
type EngageSystem struct {
	ranges KindRanges
	queue  FightQueue
	buf    []combat.Task
}

func NewEngageSystem(ranges KindRanges, queue FightQueue) *EngageSystem {
	return &EngageSystem{ranges: ranges, queue: queue}
}

func (s *EngageSystem) Phase() coresys.Phase { return coresys.PhaseEngage }

func (s *EngageSystem) Update(tick *Tick) {
	s.buf = CollectFights(tick.Actors, s.ranges, s.buf[:0])
	if len(s.buf) == 0 {
		return
	}
	// Actor locks are all released here; Submit takes only the queue lock.
	tick.Enqueued += s.queue.Submit(s.buf...)
}

// CollectFights appends a task for every ordered pair of distinct live
// actors where the attacker can kill the defender and the defender is within
// the attacker's kill distance. Each actor's state is read once; a grid
// sized to the longest kill distance limits the pairs examined. Tasks come
// out in snapshot order of attacker, then defender.
func CollectFights(actors []*world.Actor, ranges KindRanges, dst []combat.Task) []combat.Task {
	longest := 0
	for _, k := range world.Kinds {
		if r := ranges.KillDistance(k); r > longest {
			longest = r
		}
	}
	if longest <= 0 || len(actors) < 2 {
		return dst
	}

	pos := make([]world.Position, len(actors))
	alive := make([]bool, len(actors))
	grid := world.NewGrid(longest)
	for i, a := range actors {
		pos[i], alive[i] = a.State()
		if alive[i] {
			grid.Add(i, pos[i])
		}
	}

	var near []int
	for i, atk := range actors {
		if !alive[i] {
			continue
		}
		reach := ranges.KillDistance(atk.Kind())
		if reach <= 0 {
			continue
		}
		near = grid.Nearby(pos[i], near[:0])
		for _, j := range near {
			def := actors[j]
			if j == i || def == atk || !world.CanKill(atk.Kind(), def.Kind()) {
				continue
			}
			if !pos[i].Within(pos[j], reach) {
				continue
			}
			dst = append(dst, combat.Task{Attacker: atk.ID(), Defender: def.ID()})
		}
	}
	return dst
}
