// Package history reconstructs a file's itinerary by replaying its approval
// ledger. The itinerary is derived on demand and has no stored lifecycle:
// replaying the same ledger always yields the same result.
package history

import (
	"context"
	"time"

	"filetrack/internal/directory"
	"filetrack/internal/ledger"
	id "filetrack/pkg/domain"
)

// Status of one leg of the itinerary.
type Status string

const (
	StatusInProgress Status = "in progress"
	StatusAccepted   Status = "accepted"
)

// Entry is one leg of a file's journey: a transfer, and the acceptance that
// resolved it if one has been recorded.
type Entry struct {
	From       directory.Location
	To         directory.Location
	SentBy     id.UserID
	ReceivedBy *id.UserID
	Date       time.Time
	AcceptedAt *time.Time
	Remarks    string
	Status     Status
}

// Builder replays approval ledgers into itineraries.
type Builder struct {
	events ledger.Store
}

func NewBuilder(events ledger.Store) *Builder {
	return &Builder{events: events}
}

// BuildItinerary folds the file's event chain left to right, pairing each
// transfer with the acceptance that follows it. A trailing unresolved
// transfer yields an "in progress" leg with no receiver. An empty ledger
// yields an empty itinerary, not an error: the file simply has not been
// routed since presentation.
func (b *Builder) BuildItinerary(ctx context.Context, fileID id.FileID) ([]Entry, error) {
	chain, err := b.events.ListForFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return Replay(chain), nil
}

// Replay is the pure fold over an ordered event chain. O(n), no hidden
// state; exported so callers holding events already (bulk views, tests) can
// skip the store round trip.
func Replay(chain []ledger.Event) []Entry {
	entries := make([]Entry, 0, len(chain))
	open := -1 // index of the entry awaiting acceptance

	for _, event := range chain {
		switch event.Kind {
		case ledger.KindTransfer:
			entries = append(entries, Entry{
				From:    event.From,
				To:      event.To,
				SentBy:  event.ActorID,
				Date:    event.OccurredAt,
				Remarks: event.Remarks,
				Status:  StatusInProgress,
			})
			open = len(entries) - 1
		case ledger.KindAcceptance:
			if open < 0 {
				// Acceptance with no open transfer: a correction event
				// appended out of band. Nothing to pair it with.
				continue
			}
			receivedBy := event.ActorID
			acceptedAt := event.OccurredAt
			entries[open].ReceivedBy = &receivedBy
			entries[open].AcceptedAt = &acceptedAt
			entries[open].Status = StatusAccepted
			open = -1
		}
	}
	return entries
}
