package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/l1jgo/arena/internal/core/ecs"
)

var ErrDuplicateActor = errors.New("actor already registered")

// Registry is the shared set of actors. Membership changes take the write
// lock; snapshots take the read lock and never block each other. Actor
// fields are guarded by each actor, not by the registry.
type Registry struct {
	mu      sync.RWMutex
	pool    *ecs.EntityPool
	members []*Actor
	byID    map[ecs.EntityID]*Actor
}

func NewRegistry() *Registry {
	return &Registry{
		pool:    ecs.NewEntityPool(),
		members: make([]*Actor, 0, 64),
		byID:    make(map[ecs.EntityID]*Actor, 64),
	}
}

// Add registers a and assigns its ID. An actor may be added at most once.
func (r *Registry) Add(a *Actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addLocked(a)
}

func (r *Registry) addLocked(a *Actor) error {
	if a == nil {
		return errors.New("nil actor")
	}
	if !a.ID().IsZero() {
		return fmt.Errorf("%w: %s (%s)", ErrDuplicateActor, a.Name(), a.ID())
	}
	id := r.pool.Create()
	a.id.Store(uint64(id))
	r.members = append(r.members, a)
	r.byID[id] = a
	return nil
}

// Remove evicts a. It reports whether a was a member.
func (r *Registry) Remove(a *Actor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(a)
}

func (r *Registry) removeLocked(a *Actor) bool {
	id := a.ID()
	if r.byID[id] != a {
		return false
	}
	for i, m := range r.members {
		if m == a {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	delete(r.byID, id)
	r.pool.Destroy(id)
	a.id.Store(0)
	return true
}

// Replace swaps the whole membership for actors in one critical section.
// Nothing changes when actors contains a duplicate or an already
// registered actor.
func (r *Registry) Replace(actors []*Actor) error {
	seen := make(map[*Actor]struct{}, len(actors))
	for _, a := range actors {
		if a == nil {
			return errors.New("nil actor")
		}
		if _, dup := seen[a]; dup || !a.ID().IsZero() {
			return fmt.Errorf("%w: %s", ErrDuplicateActor, a.Name())
		}
		seen[a] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		r.pool.Destroy(m.ID())
		m.id.Store(0)
	}
	r.members = r.members[:0]
	clear(r.byID)
	for _, a := range actors {
		// checked above; cannot fail
		_ = r.addLocked(a)
	}
	return nil
}

// EvictDead removes every dead actor and returns how many were evicted.
// Liveness is read before the write lock is taken so the registry lock is
// never held while waiting on an actor.
func (r *Registry) EvictDead() int {
	var dead []*Actor
	for _, a := range r.Snapshot() {
		if !a.Alive() {
			dead = append(dead, a)
		}
	}
	return r.RemoveAll(dead)
}

// RemoveAll evicts every member of actors in one write-locked section and
// returns how many were members. Duplicates and non-members are ignored.
func (r *Registry) RemoveAll(actors []*Actor) int {
	if len(actors) == 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for _, a := range actors {
		if a != nil && r.removeLocked(a) {
			removed++
		}
	}
	return removed
}

// Get resolves an ID. Stale IDs of evicted actors never resolve.
func (r *Registry) Get(id ecs.EntityID) (*Actor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	return a, ok
}

// Snapshot returns a copy of the member list in insertion order. The slice
// is the caller's; the actors in it are shared.
func (r *Registry) Snapshot() []*Actor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Actor, len(r.members))
	copy(out, r.members)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// CountAlive returns the number of live members.
func (r *Registry) CountAlive() int {
	n := 0
	for _, a := range r.Snapshot() {
		if a.Alive() {
			n++
		}
	}
	return n
}
