package event

import (
	"sync"
	"testing"
)

func TestEmitReachesTypedSubscribersInOrder(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(e ActorKilled) { got = append(got, "first:"+e.DefenderName) })
	Subscribe(b, func(e ActorKilled) { got = append(got, "second:"+e.DefenderName) })
	Subscribe(b, func(e TickCompleted) { got = append(got, "tick") })

	Emit(b, ActorKilled{DefenderName: "Robin"})

	if len(got) != 2 || got[0] != "first:Robin" || got[1] != "second:Robin" {
		t.Fatalf("got %v", got)
	}
}

func TestEmitConcurrent(t *testing.T) {
	b := NewBus()
	var mu sync.Mutex
	total := 0
	Subscribe(b, func(e TickCompleted) {
		mu.Lock()
		total += e.Enqueued
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Emit(b, TickCompleted{Enqueued: 1})
			}
		}()
	}
	wg.Wait()
	if total != 800 {
		t.Fatalf("total = %d, want 800", total)
	}
}

func TestEmitOnNilBus(t *testing.T) {
	var b *Bus
	Emit(b, TickCompleted{})
}
