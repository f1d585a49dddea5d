package event

import (
	"reflect"
	"sync"
)

// Bus delivers events synchronously to typed subscribers. Emit may be called
// from any goroutine; handlers run on the emitting goroutine and must not
// block for long.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]any)}
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Emit hands event to every handler subscribed to T, in subscription order.
// A nil bus drops the event.
func Emit[T any](b *Bus, event T) {
	if b == nil {
		return
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.mu.RLock()
	handlers := b.handlers[t]
	b.mu.RUnlock()
	for _, h := range handlers {
		// Subscribe stores func(T) under the same key, so the assertion holds.
		h.(func(T))(event)
	}
}
