package sim

import (
	"sort"
	"time"

	"github.com/l1jgo/arena/internal/world"
)

// Report summarises a finished run.
type Report struct {
	Survivors   []*world.Actor // registry order
	Dead        int
	Kills       map[string]int // by attacker kind
	Ticks       uint64
	Elapsed     time.Duration
	Interrupted bool // stopped by ctx before the duration elapsed
}

// TotalKills sums Kills.
func (r *Report) TotalKills() int {
	n := 0
	for _, k := range r.Kills {
		n += k
	}
	return n
}

// KillKinds returns the kinds present in Kills, sorted by name.
func (r *Report) KillKinds() []string {
	kinds := make([]string, 0, len(r.Kills))
	for k := range r.Kills {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
