package event

import (
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
)

// ActorKilled is emitted by the combat resolver after a defender dies.
type ActorKilled struct {
	Attacker     ecs.EntityID
	AttackerName string
	AttackerKind string
	Defender     ecs.EntityID
	DefenderName string
	DefenderKind string
	Attack       int
	Defense      int
	X, Y         int
	At           time.Time
}

// TickCompleted is emitted by the movement worker after each tick.
type TickCompleted struct {
	Tick     uint64
	Alive    int
	Enqueued int
}
