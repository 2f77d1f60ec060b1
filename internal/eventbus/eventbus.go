package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"clipscout/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Stop()
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	log       *zap.Logger
	handlers  map[EventType][]EventHandler
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	stopOnce  sync.Once
}

// New creates a new event bus. Handlers run one at a time on a single
// dispatcher goroutine, so published actions are serialized in order.
func New(log *zap.Logger) EventBus {
	b := &bus{
		log:       log,
		handlers:  make(map[EventType][]EventHandler),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	b.log.Debug("publishing event", zap.String("type", string(event.Type())))

	select {
	case b.eventChan <- event:
	default:
		b.log.Warn("event bus channel full, dropping event", zap.String("type", string(event.Type())))
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	idx := len(b.handlers[eventType]) - 1

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		handlers := b.handlers[eventType]
		if idx < len(handlers) {
			b.handlers[eventType] = append(handlers[:idx], handlers[idx+1:]...)
		}
	}
}

// Stop shuts down the dispatcher and drains pending events.
func (b *bus) Stop() {
	b.stopOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case event := <-b.eventChan:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

// deliver calls each handler in turn. Handlers run synchronously so that an
// operator action finishes (or times out) before the next one is dispatched.
func (b *bus) deliver(event DomainEvent) {
	b.mu.RLock()
	handlers := b.handlers[event.Type()]
	handlersCopy := make([]EventHandler, len(handlers))
	copy(handlersCopy, handlers)
	b.mu.RUnlock()

	for _, handler := range handlersCopy {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("event handler panic",
						zap.String("type", string(event.Type())),
						zap.Any("panic", r),
						zap.ByteString("stack", debug.Stack()))
				}
			}()
			handler(event)
		}()
	}
}
