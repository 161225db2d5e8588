// Package notify emits routing events toward the external notification
// subsystem. Delivery is best-effort by contract: a failed emission is
// logged by the caller and never rolls back the routing operation.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "filetrack/pkg/domain"
)

// Kind labels the routing action behind a notification.
type Kind string

const (
	KindTransfer   Kind = "transfer"
	KindAcceptance Kind = "acceptance"
)

// Event is the boundary contract with the notification subsystem. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Kind         Kind      `json:"kind"`
	FileID       id.FileID `json:"file_id"`
	TargetUnitID uuid.UUID `json:"target_unit_id"`
	ActorID      id.UserID `json:"actor_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// Notifier delivers an event to the notification subsystem.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Func adapts a function to the Notifier interface; handy in tests.
type Func func(ctx context.Context, event Event) error

func (f Func) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Discard drops every event. Used when no notification sink is configured.
var Discard Notifier = Func(func(context.Context, Event) error { return nil })
