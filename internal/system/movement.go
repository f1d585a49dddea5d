package system

import (
	"math"

	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// MovementSystem steps every live actor toward its target. Phase 0 (Move).
//
// Target: the nearest live actor this actor can kill; failing that, the
// nearest live actor of any kind. Ties go to the earlier snapshot entry.
type MovementSystem struct {
	bounds world.Bounds
	ranges KindRanges
}

func NewMovementSystem(bounds world.Bounds, ranges KindRanges) *MovementSystem {
	return &MovementSystem{bounds: bounds, ranges: ranges}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMove }

func (s *MovementSystem) Update(tick *Tick) {
	for _, a := range tick.Actors {
		pos, alive := a.State()
		if !alive {
			continue
		}
		target, ok := SelectTarget(a, pos, tick.Actors)
		if !ok {
			continue
		}
		next, moved := NextPosition(pos, target, s.ranges.MoveDistance(a.Kind()), s.bounds)
		if !moved {
			continue
		}
		a.SetPosition(next)
		tick.Moved++
	}
}

// SelectTarget picks the position a should walk toward. ok is false when no
// other live actor exists.
func SelectTarget(a *world.Actor, pos world.Position, actors []*world.Actor) (world.Position, bool) {
	var (
		prey, near         world.Position
		preyD, nearD       int64 = math.MaxInt64, math.MaxInt64
		havePrey, haveNear bool
	)
	for _, o := range actors {
		if o == a {
			continue
		}
		opos, alive := o.State()
		if !alive {
			continue
		}
		d := pos.DistSq(opos)
		if d < nearD {
			nearD, near, haveNear = d, opos, true
		}
		if d < preyD && world.CanKill(a.Kind(), o.Kind()) {
			preyD, prey, havePrey = d, opos, true
		}
	}
	if havePrey {
		return prey, true
	}
	return near, haveNear
}

// NextPosition moves from toward target by step cells along the straight
// line, rounding each axis, then clamps the result to b. moved is false
// when there is nowhere to go.
func NextPosition(from, target world.Position, step int, b world.Bounds) (world.Position, bool) {
	if step <= 0 {
		return from, false
	}
	mx, my, ok := stepDelta(float64(target.X-from.X), float64(target.Y-from.Y), float64(step))
	if !ok {
		return from, false
	}
	return b.Clamp(world.Position{X: from.X + mx, Y: from.Y + my}), true
}

// stepDelta scales (dx, dy) to length step and rounds each axis. When
// rounding cancels the whole step, one cell is taken on the dominant axis
// (x on ties). For whole steps of 1 or more the dominant axis always rounds
// to at least one cell, so the fallback only fires for fractional steps.
func stepDelta(dx, dy, step float64) (mx, my int, ok bool) {
	dist := math.Hypot(dx, dy)
	if dist <= 0 {
		return 0, 0, false
	}
	mx = int(math.Round(step * dx / dist))
	my = int(math.Round(step * dy / dist))
	if mx == 0 && my == 0 {
		if math.Abs(dx) >= math.Abs(dy) {
			mx = sign(dx)
		} else {
			my = sign(dy)
		}
	}
	return mx, my, true
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
