package notify

import "errors"

// ErrQueueFull signals the in-process buffer is at capacity and the event
// was dropped. Callers log it; best-effort delivery never fails routing.
var ErrQueueFull = errors.New("notification queue full")
