package ledger

import (
	"context"

	id "filetrack/pkg/domain"
)

// Store is the append-only persistence boundary for approval events.
//
// Append never overwrites: implementations enforce that the event's Seq
// extends the file's chain contiguously and return sentinel.ErrConflict
// otherwise. Appends for different files never contend; appends for the same
// file are serialized by the routing engine's per-file critical section, so
// a conflict here means that discipline was bypassed.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListForFile(ctx context.Context, fileID id.FileID) ([]Event, error)
}
