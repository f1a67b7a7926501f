// Package worker delivers activity events off the request path.
package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/service"
)

// ErrQueueFull is returned when the worker cannot accept more events.
var ErrQueueFull = errors.New("notification queue full")

// NotificationWorker is a Dispatcher that queues events and hands them to
// an inner dispatcher from a background goroutine.
type NotificationWorker struct {
	inner  events.Dispatcher
	logger *zap.Logger
	queue  chan events.Event
	wg     sync.WaitGroup
}

// NewNotificationWorker creates a worker with the given queue size.
func NewNotificationWorker(inner events.Dispatcher, logger *zap.Logger, size int) *NotificationWorker {
	if size <= 0 {
		size = 256
	}
	return &NotificationWorker{inner: inner, logger: logger, queue: make(chan events.Event, size)}
}

// Publish enqueues the event without waiting for handlers.
func (w *NotificationWorker) Publish(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe registers a handler on the inner dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Start registers the notification subscribers and begins draining the queue
// until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context, notifications *service.NotificationService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				w.drain()
				return
			case event := <-w.queue:
				w.deliver(event)
			}
		}
	}()
}

// Stop waits for the worker goroutine to flush pending events.
func (w *NotificationWorker) Stop() {
	w.wg.Wait()
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case event := <-w.queue:
			w.deliver(event)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(event events.Event) {
	if err := w.inner.Publish(context.Background(), event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
