package notify

import (
	"context"
	"log/slog"
)

// Queue buffers events in process and hands them to a Worker. It is the
// fallback sink when no broker is configured: Notify never blocks the
// routing call, and a full buffer drops the event (delivery is best-effort).
type Queue struct {
	inbox chan Event
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{inbox: make(chan Event, size)}
}

func (q *Queue) Notify(_ context.Context, event Event) error {
	select {
	case q.inbox <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Events exposes the consuming side for a Worker.
func (q *Queue) Events() <-chan Event {
	return q.inbox
}

// Worker consumes queued events and forwards them to a sink. It keeps
// background processing testable without wiring a broker.
type Worker struct {
	sink   Notifier
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Notifier, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Notify(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "notification delivery failed",
					"kind", string(event.Kind),
					"file_id", event.FileID.String(),
					"error", err,
				)
			}
		}
	}
}

// LogSink writes each event to the structured log. The development stand-in
// for a real notification transport.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "routing notification",
		"kind", string(event.Kind),
		"file_id", event.FileID.String(),
		"target_unit_id", event.TargetUnitID.String(),
		"actor_id", event.ActorID.String(),
	)
	return nil
}
