// Package ledger is the append-only approval ledger, the system of record
// for a file's routing history. Events are never mutated or deleted;
// corrections are new events.
package ledger

import (
	"time"

	"filetrack/internal/directory"
	id "filetrack/pkg/domain"
)

// Kind distinguishes the two event types in the ledger.
type Kind string

const (
	KindTransfer   Kind = "transfer"
	KindAcceptance Kind = "acceptance"
)

// Event is one immutable entry in a file's approval chain.
//
// Invariants: events for a file are totally ordered by Seq (1-based,
// contiguous). From equals the location produced by the previous event, or
// the file's presentation location for the first event. An acceptance keeps
// From == To; only transfers move the file.
type Event struct {
	ID            id.EventID
	FileID        id.FileID
	Seq           int64
	Kind          Kind
	From          directory.Location
	To            directory.Location
	ActorID       id.UserID
	Remarks       string
	IsTransferred bool
	IsApproved    bool
	OccurredAt    time.Time
}

// PendingTransfer returns the unresolved transfer in an ordered event chain,
// or nil when the file is at rest. Because the engine enforces at most one
// in-flight transfer, only the final event can be unresolved: a trailing
// transfer is pending, a trailing acceptance (or an empty chain) is not.
func PendingTransfer(events []Event) *Event {
	if len(events) == 0 {
		return nil
	}
	last := events[len(events)-1]
	if last.Kind == KindTransfer {
		return &last
	}
	return nil
}

// IsTransferred is the single authoritative "transferred" predicate: a file
// counts as transferred while it has an unresolved transfer.
func IsTransferred(events []Event) bool {
	return PendingTransfer(events) != nil
}
