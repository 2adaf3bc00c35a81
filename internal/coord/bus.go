package coord

import (
	"context"
	"log/slog"
	"sync"
)

// Bus is an in-process, best-effort broadcast of signals. Publish only
// enqueues; delivery happens in Run (or Flush) on a single goroutine, in
// publish order, to whoever is subscribed at delivery time.
type Bus struct {
	mu     sync.Mutex
	queue  []Signal
	subs   map[int]func(Signal)
	order  []int
	nextID int
	wake   chan struct{}

	deliverMu sync.Mutex
	logger    *slog.Logger
}

var _ PubSub = (*Bus)(nil)

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[int]func(Signal)),
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Publish enqueues sig for delivery.
func (b *Bus) Publish(sig Signal) {
	b.mu.Lock()
	b.queue = append(b.queue, sig)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Subscribe registers fn. The returned func removes it and is safe to call
// more than once.
func (b *Bus) Subscribe(fn func(Signal)) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = fn
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Pending returns the number of queued, undelivered signals.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Run delivers signals until ctx is cancelled.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.wake:
			b.Flush()
		}
	}
}

// Flush delivers every queued signal, including ones published by handlers
// while flushing. Handlers must not call Flush.
func (b *Bus) Flush() {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.mu.Unlock()
			return
		}
		sig := b.queue[0]
		b.queue = b.queue[1:]
		handlers := make([]func(Signal), 0, len(b.order))
		for _, id := range b.order {
			handlers = append(handlers, b.subs[id])
		}
		b.mu.Unlock()

		if len(handlers) == 0 {
			b.logger.Debug("coord: dropped signal with no listener", "signal", sig)
			continue
		}
		for _, fn := range handlers {
			b.deliver(fn, sig)
		}
	}
}

func (b *Bus) deliver(fn func(Signal), sig Signal) {
	defer func() {
		if err := recover(); err != nil {
			b.logger.Error("coord: signal handler panic recovered", "signal", sig, "error", err)
		}
	}()
	fn(sig)
}
