package testutil

import (
	"net/http"
	"time"

	id "filetrack/pkg/domain"
	"filetrack/pkg/requestcontext"
)

// WithActor stamps the request context with an actor identity, simulating
// what the auth middleware does for authenticated requests.
func WithActor(req *http.Request, actorID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithActorID(req.Context(), actorID))
}

// WithRequestTime pins the request clock, simulating the request-time
// middleware for handlers that stamp events.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
