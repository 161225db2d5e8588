package file

import (
	"context"

	"filetrack/internal/directory"
	id "filetrack/pkg/domain"
)

// Store persists file records. Implementations return sentinel.ErrNotFound
// for unknown ids and sentinel.ErrConflict when an optimistic version check
// fails.
//
// UpdateLocation is called only by the routing engine, inside its per-file
// critical section, so location changes are always paired with a ledger
// append. expectedVersion is the version the caller read; on success the
// stored version becomes expectedVersion+1.
type Store interface {
	Save(ctx context.Context, record Record) error
	FindByID(ctx context.Context, fileID id.FileID) (Record, error)
	List(ctx context.Context) ([]Record, error)
	UpdateLocation(ctx context.Context, fileID id.FileID, location directory.Location, expectedVersion int64) error
	SetDisabled(ctx context.Context, fileID id.FileID, disabled bool) error
}
