package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/events"
)

// EventHandler consumes forwarded events, for example events.KafkaSink.Handle.
type EventHandler func(context.Context, events.Event) error

// EventForwarder moves dispatched events onto a background goroutine so a slow broker never
// holds up the request that committed the change. When the buffer is full the event is
// dropped and logged.
type EventForwarder struct {
	handle EventHandler
	queue  chan events.Event
	logger *zap.Logger
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewEventForwarder creates a forwarder with the given buffer size.
func NewEventForwarder(handle EventHandler, buffer int, logger *zap.Logger) *EventForwarder {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventForwarder{
		handle: handle,
		queue:  make(chan events.Event, buffer),
		logger: logger.Named("worker.events"),
	}
}

// Register subscribes the forwarder to every event type.
func (f *EventForwarder) Register(dispatcher events.Dispatcher) {
	dispatcher.SubscribeAll(f.enqueue)
}

func (f *EventForwarder) enqueue(_ context.Context, event events.Event) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		f.logger.Warn("event forwarder stopped, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return nil
	}
	select {
	case f.queue <- event:
	default:
		f.logger.Warn("event buffer full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Start drains the buffer until Stop is called.
func (f *EventForwarder) Start(ctx context.Context) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.logger.Info("event forwarder started")
		for event := range f.queue {
			if err := f.handle(ctx, event); err != nil {
				f.logger.Error("forward event failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
		f.logger.Info("event forwarder stopped")
	}()
}

// Stop closes the buffer and waits for queued events to be handled. Events published after
// Stop are dropped.
func (f *EventForwarder) Stop() {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.queue)
	}
	f.mu.Unlock()
	f.wg.Wait()
}
