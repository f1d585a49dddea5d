package combat

import (
	"context"
	"testing"
	"time"
)

func TestSubmitDedupsPendingPairs(t *testing.T) {
	s := NewScheduler()
	task := Task{Attacker: 1, Defender: 2}

	if n := s.Submit(task, task); n != 1 {
		t.Fatalf("Submit accepted %d, want 1", n)
	}
	if n := s.Submit(task); n != 0 {
		t.Fatalf("pending pair accepted again")
	}
	if !s.Pending(task) || s.Len() != 1 {
		t.Fatalf("pending=%v len=%d", s.Pending(task), s.Len())
	}

	// the reverse pair is a different ordered pair
	if n := s.Submit(Task{Attacker: 2, Defender: 1}); n != 1 {
		t.Fatalf("reverse pair rejected")
	}

	got, ok := s.TryNext()
	if !ok || got != task {
		t.Fatalf("TryNext = %v, %v", got, ok)
	}
	if s.Pending(task) {
		t.Fatalf("pair still pending after pop")
	}
	if n := s.Submit(task); n != 1 {
		t.Fatalf("pair not accepted after resolution")
	}
}

func TestNextBlocksUntilSubmit(t *testing.T) {
	s := NewScheduler()
	got := make(chan Task, 1)
	go func() {
		task, ok := s.Next(context.Background())
		if ok {
			got <- task
		}
	}()

	time.Sleep(10 * time.Millisecond)
	s.Submit(Task{Attacker: 3, Defender: 4})

	select {
	case task := <-got:
		if task.Attacker != 3 || task.Defender != 4 {
			t.Fatalf("got %v", task)
		}
	case <-time.After(time.Second):
		t.Fatalf("Next did not wake on submit")
	}
}

func TestCloseDrainsThenStops(t *testing.T) {
	s := NewScheduler()
	s.Submit(Task{Attacker: 1, Defender: 2}, Task{Attacker: 1, Defender: 3})
	s.Close()

	if n := s.Submit(Task{Attacker: 5, Defender: 6}); n != 0 {
		t.Fatalf("submit after close accepted")
	}
	for i := 0; i < 2; i++ {
		if _, ok := s.Next(context.Background()); !ok {
			t.Fatalf("queued task %d lost on close", i)
		}
	}
	if _, ok := s.Next(context.Background()); ok {
		t.Fatalf("Next returned a task from an empty closed scheduler")
	}
}

func TestCloseWakesBlockedConsumer(t *testing.T) {
	s := NewScheduler()
	done := make(chan bool, 1)
	go func() {
		_, ok := s.Next(context.Background())
		done <- ok
	}()
	time.Sleep(10 * time.Millisecond)
	s.Close()

	select {
	case ok := <-done:
		if ok {
			t.Fatalf("got a task after close on empty queue")
		}
	case <-time.After(time.Second):
		t.Fatalf("Close did not wake consumer")
	}
}

func TestNextHonoursContext(t *testing.T) {
	s := NewScheduler()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, ok := s.Next(ctx); ok {
		t.Fatalf("Next returned a task")
	}
}
