package system

import "github.com/l1jgo/arena/internal/world"

// Tick is the frame shared by every system during one movement tick. All
// systems see the same snapshot, so movement and engagement agree on
// membership.
type Tick struct {
	Seq      uint64
	Actors   []*world.Actor
	Moved    int
	Enqueued int
	Evicted  int
}

// KindRanges supplies per-kind movement and kill distances.
type KindRanges interface {
	MoveDistance(k world.Kind) int
	KillDistance(k world.Kind) int
}
