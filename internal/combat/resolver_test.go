package combat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/world"
)

type captureListener struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureListener) Notify(msg string) {
	c.mu.Lock()
	c.msgs = append(c.msgs, msg)
	c.mu.Unlock()
}

func (c *captureListener) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}

func setup(t *testing.T) (*world.Registry, *world.Actor, *world.Actor, *captureListener) {
	t.Helper()
	reg := world.NewRegistry()
	ork := world.NewActor(world.KindOrk, "Thrall", world.Position{})
	willian := world.NewActor(world.KindWillian, "Robin", world.Position{})
	sink := &captureListener{}
	willian.Attach(sink)
	if err := reg.Add(ork); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := reg.Add(willian); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return reg, ork, willian, sink
}

func TestResolveKillsOnHigherAttack(t *testing.T) {
	reg, ork, willian, sink := setup(t)
	sched := NewScheduler()
	bus := event.NewBus()
	var killed []event.ActorKilled
	event.Subscribe(bus, func(e event.ActorKilled) { killed = append(killed, e) })

	r := NewResolver(sched, reg, FixedDice{Attack: 5, Defense: 2}, bus, nil)
	sched.Submit(Task{Attacker: ork.ID(), Defender: willian.ID()})

	if out := r.ResolveOne(); out != OutcomeKilled {
		t.Fatalf("outcome = %s, want killed", out)
	}
	if willian.Alive() {
		t.Fatalf("defender survived")
	}
	if !ork.Alive() {
		t.Fatalf("attacker died")
	}
	msgs := sink.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "killed") {
		t.Fatalf("notifications = %v", msgs)
	}
	if msgs[0] != "Thrall killed Robin (attack=5, defense=2)" {
		t.Fatalf("message = %q", msgs[0])
	}
	if len(killed) != 1 || killed[0].DefenderKind != "Willian" || killed[0].Attack != 5 {
		t.Fatalf("events = %+v", killed)
	}
}

func TestResolveTieAndLowerDoNothing(t *testing.T) {
	for _, dice := range []FixedDice{{3, 3}, {1, 6}} {
		reg, ork, willian, sink := setup(t)
		sched := NewScheduler()
		r := NewResolver(sched, reg, dice, nil, nil)
		sched.Submit(Task{Attacker: ork.ID(), Defender: willian.ID()})

		if out := r.ResolveOne(); out != OutcomeRepelled {
			t.Fatalf("dice %+v: outcome = %s", dice, out)
		}
		if !willian.Alive() || len(sink.messages()) != 0 {
			t.Fatalf("dice %+v: defender affected", dice)
		}
	}
}

func TestResolveSkipsDeadOrMissing(t *testing.T) {
	reg, ork, willian, sink := setup(t)
	sched := NewScheduler()
	r := NewResolver(sched, reg, FixedDice{6, 1}, nil, nil)

	ork.Kill()
	sched.Submit(Task{Attacker: ork.ID(), Defender: willian.ID()})
	if out := r.ResolveOne(); out != OutcomeSkipped {
		t.Fatalf("dead attacker: outcome = %s", out)
	}
	if !willian.Alive() {
		t.Fatalf("dead attacker killed defender")
	}

	staleID := willian.ID()
	reg.Remove(willian)
	sched.Submit(Task{Attacker: ork.ID(), Defender: staleID})
	if out := r.ResolveOne(); out != OutcomeSkipped {
		t.Fatalf("evicted defender: outcome = %s", out)
	}
	if len(sink.messages()) != 0 {
		t.Fatalf("unexpected notifications %v", sink.messages())
	}
	if out := r.ResolveOne(); out != OutcomeNone {
		t.Fatalf("empty queue: outcome = %s", out)
	}
}

func TestDuplicateSubmitResolvesOnce(t *testing.T) {
	reg, ork, willian, sink := setup(t)
	sched := NewScheduler()
	r := NewResolver(sched, reg, FixedDice{6, 1}, nil, nil)

	task := Task{Attacker: ork.ID(), Defender: willian.ID()}
	sched.Submit(task)
	sched.Submit(task)

	if out := r.ResolveOne(); out != OutcomeKilled {
		t.Fatalf("outcome = %s", out)
	}
	if out := r.ResolveOne(); out != OutcomeNone {
		t.Fatalf("second resolution happened: %s", out)
	}
	if len(sink.messages()) != 1 {
		t.Fatalf("notifications = %v", sink.messages())
	}
}

func TestRunDrainsOnClose(t *testing.T) {
	reg := world.NewRegistry()
	ork := world.NewActor(world.KindOrk, "o", world.Position{})
	_ = reg.Add(ork)
	var victims []*world.Actor
	var tasks []Task
	for i := 0; i < 5; i++ {
		v := world.NewActor(world.KindWillian, "w", world.Position{})
		_ = reg.Add(v)
		victims = append(victims, v)
		tasks = append(tasks, Task{Attacker: ork.ID(), Defender: v.ID()})
	}

	sched := NewScheduler()
	sched.Submit(tasks...)
	sched.Close()

	r := NewResolver(sched, reg, FixedDice{6, 1}, nil, nil)
	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after drain")
	}
	for i, v := range victims {
		if v.Alive() {
			t.Fatalf("victim %d not resolved before exit", i)
		}
	}
}

func TestRandDiceRange(t *testing.T) {
	var d RandDice
	for i := 0; i < 500; i++ {
		a, b := d.Roll()
		if a < 1 || a > 6 || b < 1 || b > 6 {
			t.Fatalf("roll out of range: %d %d", a, b)
		}
	}
	if ClampRoll(0) != 1 || ClampRoll(9) != 6 || ClampRoll(4) != 4 {
		t.Fatalf("ClampRoll mismatch")
	}
}
