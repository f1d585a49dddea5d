package sim

// State is the lifecycle stage of a Simulation.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining // movement stopped, resolver finishing queued fights
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
