package event

import (
	"context"
	"sync"
	"time"

	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus implements EventBus with in-memory pub/sub. Dispatch is
// synchronous by default; WithBufferSize switches to a buffered queue drained
// by a background worker started via Start.
type InMemoryEventBus struct {
	registry       *HandlerRegistry
	logger         *zap.Logger
	handlerTimeout time.Duration
	bufferSize     int

	mu      sync.RWMutex
	running bool
	queue   chan dispatchJob
	wg      sync.WaitGroup
}

type dispatchJob struct {
	handler shared.EventHandler
	event   shared.DomainEvent
}

// BusOption is a functional option for event bus configuration
type BusOption func(*InMemoryEventBus)

// WithBufferSize enables asynchronous dispatch through a queue of the given size
func WithBufferSize(size int) BusOption {
	return func(b *InMemoryEventBus) {
		if size > 0 {
			b.bufferSize = size
		}
	}
}

// WithHandlerTimeout bounds how long a single handler may run per event
func WithHandlerTimeout(timeout time.Duration) BusOption {
	return func(b *InMemoryEventBus) {
		if timeout > 0 {
			b.handlerTimeout = timeout
		}
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish publishes events to all registered handlers. With a queue enabled
// and the bus started, events are handed off to the worker; a full queue
// falls back to inline dispatch so no event is dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		handlers := b.registry.GetHandlers(event.EventType())

		for _, handler := range handlers {
			if b.enqueue(handler, event) {
				continue
			}
			if err := b.dispatchToHandler(ctx, handler, event); err != nil {
				// Log error but continue with other handlers
				b.logger.Error("handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// enqueue hands the job to the worker queue, reporting false when the bus is
// not running asynchronously or the queue is full.
func (b *InMemoryEventBus) enqueue(handler shared.EventHandler, event shared.DomainEvent) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.running || b.queue == nil {
		return false
	}
	select {
	case b.queue <- dispatchJob{handler: handler, event: event}:
		return true
	default:
		b.logger.Warn("event queue full, dispatching inline",
			zap.String("event_type", event.EventType()))
		return false
	}
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	// If handler specifies its own event types, use those
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start starts the event bus and its worker when a queue is configured
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return nil
	}
	b.running = true
	if b.bufferSize > 0 {
		b.queue = make(chan dispatchJob, b.bufferSize)
		b.wg.Add(1)
		go b.worker(b.queue)
	}
	b.logger.Info("event bus started")
	return nil
}

// Stop stops the event bus gracefully, draining any queued events
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	b.running = false
	queue := b.queue
	b.queue = nil
	b.mu.Unlock()

	if queue != nil {
		close(queue)
	}
	b.wg.Wait()
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) worker(queue <-chan dispatchJob) {
	defer b.wg.Done()
	for job := range queue {
		if err := b.dispatchToHandler(context.Background(), job.handler, job.event); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", job.event.EventType()),
				zap.String("event_id", job.event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

// dispatchToHandler safely dispatches an event to a handler
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	if b.handlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.handlerTimeout)
		defer cancel()
	}

	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
