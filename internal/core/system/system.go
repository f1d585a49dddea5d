package system

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseMove    Phase = iota // 0: targeting + position writes
	PhaseEngage               // 1: collect combat pairs, enqueue fight tasks
	PhaseCleanup              // 2: evict corpses (optional policy)
)

func (p Phase) String() string {
	switch p {
	case PhaseMove:
		return "move"
	case PhaseEngage:
		return "engage"
	case PhaseCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// System is the interface every tick system implements. T is the per-tick
// frame the runner hands to each system.
type System[T any] interface {
	Phase() Phase
	Update(tick T)
}
