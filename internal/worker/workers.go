package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/service"
)

// Workers owns the consumers of committed ticket events.
type Workers struct {
	forwarder *EventForwarder
	logger    *zap.Logger
}

// Start subscribes notifications synchronously and, when sink is set, a buffered forwarder
// that hands every event to it on a background goroutine.
func Start(ctx context.Context, dispatcher events.Dispatcher, notifications *service.NotificationService, sink EventHandler, buffer int, logger *zap.Logger) *Workers {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Workers{logger: logger.Named("worker")}
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if sink != nil {
		w.forwarder = NewEventForwarder(sink, buffer, logger)
		w.forwarder.Register(dispatcher)
		w.forwarder.Start(ctx)
	}
	return w
}

// Stop drains the forwarder, if any.
func (w *Workers) Stop() {
	if w.forwarder == nil {
		return
	}
	w.forwarder.Stop()
	w.logger.Info("workers stopped")
}
