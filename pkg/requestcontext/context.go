// Package requestcontext provides HTTP-independent accessors for
// request-scoped values.
//
// The routing engine never reads ambient process state; the acting user and
// unit travel explicitly in the context, set by middleware and consumed by
// services. Keeping this package free of net/http lets services import only
// what they need.
//
// Usage in services (read values):
//
//	actorID := requestcontext.ActorID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithActorID(ctx, actorID)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "filetrack/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	actorIDKey      struct{}
	actingOfficeKey struct{}
	requestIDKey    struct{}
	requestTimeKey  struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyActorID      = actorIDKey{}
	ContextKeyActingOffice = actingOfficeKey{}
	ContextKeyRequestID    = requestIDKey{}
	ContextKeyRequestTime  = requestTimeKey{}
)

// ActorID retrieves the authenticated actor from the context.
// Returns the zero value (nil UUID) if not set.
func ActorID(ctx context.Context) id.UserID {
	if actorID, ok := ctx.Value(ContextKeyActorID).(id.UserID); ok {
		return actorID
	}
	return id.UserID{}
}

// WithActorID injects the acting user into the context.
func WithActorID(ctx context.Context, actorID id.UserID) context.Context {
	return context.WithValue(ctx, ContextKeyActorID, actorID)
}

// ActingOfficeID retrieves the office the actor is operating as, when the
// identity collaborator supplied one. Zero value when absent.
func ActingOfficeID(ctx context.Context) id.OfficeID {
	if officeID, ok := ctx.Value(ContextKeyActingOffice).(id.OfficeID); ok {
		return officeID
	}
	return id.OfficeID{}
}

// WithActingOfficeID injects the acting office into the context.
func WithActingOfficeID(ctx context.Context, officeID id.OfficeID) context.Context {
	return context.WithValue(ctx, ContextKeyActingOffice, officeID)
}

// RequestID retrieves the request correlation ID, or "" if none was set.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects a request correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now returns the request time when one was pinned to the context, otherwise
// the wall clock. Pinning a time keeps a request's ledger timestamps and
// derived-state checks consistent, and lets tests control the clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins a request time to the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
