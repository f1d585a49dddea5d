package world

import (
	"sync"
	"sync/atomic"

	"github.com/l1jgo/arena/internal/core/ecs"
)

// Listener receives push notifications about an actor.
type Listener interface {
	Notify(message string)
}

// Actor is a creature on the grid. Kind and name never change after
// construction. Position and liveness are guarded by the actor's own lock
// and may be read and written from any goroutine.
type Actor struct {
	id   atomic.Uint64 // ecs.EntityID, zero until registered
	kind Kind
	name string

	mu        sync.Mutex
	pos       Position
	alive     bool
	listeners []Listener
}

// NewActor builds a live actor. Bounds checking is the factory's job.
func NewActor(kind Kind, name string, pos Position) *Actor {
	return &Actor{kind: kind, name: name, pos: pos, alive: true}
}

func (a *Actor) ID() ecs.EntityID { return ecs.EntityID(a.id.Load()) }
func (a *Actor) Kind() Kind       { return a.kind }
func (a *Actor) Name() string     { return a.name }

func (a *Actor) Position() Position {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pos
}

func (a *Actor) SetPosition(p Position) {
	a.mu.Lock()
	a.pos = p
	a.mu.Unlock()
}

func (a *Actor) Alive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alive
}

// State returns position and liveness read under one lock acquisition.
func (a *Actor) State() (Position, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pos, a.alive
}

// Kill marks the actor dead. It returns true only for the call that performed
// the transition; a dead actor stays dead.
func (a *Actor) Kill() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.alive {
		return false
	}
	a.alive = false
	return true
}

// Attach appends a listener. Listeners are never removed.
func (a *Actor) Attach(l Listener) {
	if l == nil {
		return
	}
	a.mu.Lock()
	a.listeners = append(a.listeners, l)
	a.mu.Unlock()
}

// Listeners returns a copy of the attached listeners.
func (a *Actor) Listeners() []Listener {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Listener(nil), a.listeners...)
}

// Notify delivers message to every listener in attachment order. Listeners
// run without the actor lock held.
func (a *Actor) Notify(message string) {
	for _, l := range a.Listeners() {
		l.Notify(message)
	}
}

// Close reports whether other is within distance of a. An actor is never
// close to itself.
func (a *Actor) Close(other *Actor, distance int) bool {
	if a == other || other == nil {
		return false
	}
	return a.Position().Within(other.Position(), distance)
}
