package combat

import (
	"context"
	"sync"

	"github.com/l1jgo/arena/internal/core/ecs"
)

// Task asks the resolver to settle one attacker/defender pair. It carries
// IDs rather than actors; the resolver looks them up at resolution time.
type Task struct {
	Attacker ecs.EntityID
	Defender ecs.EntityID
}

// Scheduler is the fight queue shared by the movement worker (producer) and
// the resolver (consumer). One mutex guards the FIFO queue and the pending
// set together, so a pair is pending exactly while its task is queued.
// The mutex is never held while touching an actor or the registry.
type Scheduler struct {
	mu      sync.Mutex
	queue   []Task
	pending map[Task]struct{}
	closed  bool

	// wake carries at most one signal; the consumer rechecks the queue after
	// every wake-up.
	wake chan struct{}
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		queue:   make([]Task, 0, 64),
		pending: make(map[Task]struct{}, 64),
		wake:    make(chan struct{}, 1),
	}
}

// Submit enqueues each task whose pair is not already pending and returns
// how many were accepted. Submits after Close are dropped.
func (s *Scheduler) Submit(tasks ...Task) int {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	accepted := 0
	for _, t := range tasks {
		if _, dup := s.pending[t]; dup {
			continue
		}
		s.pending[t] = struct{}{}
		s.queue = append(s.queue, t)
		accepted++
	}
	s.mu.Unlock()

	if accepted > 0 {
		s.signal()
	}
	return accepted
}

// Pending reports whether t is queued and not yet taken by the resolver.
func (s *Scheduler) Pending(t Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[t]
	return ok
}

// Len returns the number of queued tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close stops accepting tasks and wakes the consumer. Tasks already queued
// stay available to Next until drained.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
}

// Next blocks until a task is available and returns it with its pending
// entry already cleared. ok is false once the scheduler is closed and
// empty, or when ctx is done.
func (s *Scheduler) Next(ctx context.Context) (Task, bool) {
	for {
		if t, ok, done := s.pop(); ok || done {
			return t, ok
		}
		select {
		case <-s.wake:
		case <-ctx.Done():
			return Task{}, false
		}
	}
}

// TryNext is the non-blocking form of Next.
func (s *Scheduler) TryNext() (Task, bool) {
	t, ok, _ := s.pop()
	return t, ok
}

func (s *Scheduler) pop() (t Task, ok, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return Task{}, false, s.closed
	}
	t = s.queue[0]
	s.queue[0] = Task{}
	s.queue = s.queue[1:]
	delete(s.pending, t)
	return t, true, false
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
