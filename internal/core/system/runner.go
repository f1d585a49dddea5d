package system

import "sort"

// Runner executes systems in phase order each tick. Systems sharing a phase
// keep their registration order.
type Runner[T any] struct {
	systems []System[T]
	sorted  bool
}

func NewRunner[T any]() *Runner[T] {
	return &Runner[T]{
		systems: make([]System[T], 0, 4),
	}
}

func (r *Runner[T]) Register(s System[T]) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every registered system once with the same frame.
func (r *Runner[T]) Tick(tick T) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(tick)
	}
}

// Len returns the number of registered systems.
func (r *Runner[T]) Len() int { return len(r.systems) }

func (r *Runner[T]) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
