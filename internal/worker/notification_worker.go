package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/resolution-estimator/internal/events"
)

// DeliverFunc sends one event to an external sink.
type DeliverFunc func(ctx context.Context, event events.Event) error

// NotificationWorker delivers events off the request path.
type NotificationWorker struct {
	deliver DeliverFunc
	logger  *zap.Logger
	queue   chan events.Event
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewNotificationWorker creates a worker with a bounded queue.
func NewNotificationWorker(deliver DeliverFunc, size int, logger *zap.Logger) *NotificationWorker {
	if size <= 0 {
		size = 128
	}
	return &NotificationWorker{
		deliver: deliver,
		logger:  logger,
		queue:   make(chan events.Event, size),
	}
}

// Start launches the delivery goroutine. It drains the queue after Stop.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for event := range w.queue {
			if err := w.deliver(ctx, event); err != nil {
				w.logger.Warn("event delivery failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
	}()
}

// Enqueue adds an event without blocking. It reports false when the queue is full or stopped.
func (w *NotificationWorker) Enqueue(event events.Event) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- event:
		return true
	default:
		return false
	}
}

// Stop closes the queue and waits for pending deliveries.
func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}
