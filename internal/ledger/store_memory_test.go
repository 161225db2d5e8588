package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
)

func event(fileID id.FileID, seq int64, kind Kind) Event {
	return Event{
		ID:            id.NewEventID(),
		FileID:        fileID,
		Seq:           seq,
		Kind:          kind,
		ActorID:       id.UserID(uuid.New()),
		IsTransferred: kind == KindTransfer,
		IsApproved:    kind == KindAcceptance,
		OccurredAt:    time.Now(),
	}
}

func TestInMemoryStore_AppendOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	fileID := id.NewFileID()

	require.NoError(t, store.Append(ctx, event(fileID, 1, KindTransfer)))
	require.NoError(t, store.Append(ctx, event(fileID, 2, KindAcceptance)))

	t.Run("gap rejected", func(t *testing.T) {
		err := store.Append(ctx, event(fileID, 4, KindTransfer))
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("duplicate seq rejected", func(t *testing.T) {
		err := store.Append(ctx, event(fileID, 2, KindTransfer))
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("chains are per file", func(t *testing.T) {
		other := id.NewFileID()
		assert.NoError(t, store.Append(ctx, event(other, 1, KindTransfer)))
	})

	events, err := store.ListForFile(ctx, fileID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].Seq)
	assert.Equal(t, int64(2), events[1].Seq)
}

func TestInMemoryStore_ListUnknownFileEmpty(t *testing.T) {
	store := NewInMemoryStore()
	events, err := store.ListForFile(context.Background(), id.NewFileID())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPendingTransfer(t *testing.T) {
	fileID := id.NewFileID()

	t.Run("empty chain has none", func(t *testing.T) {
		assert.Nil(t, PendingTransfer(nil))
		assert.False(t, IsTransferred(nil))
	})

	t.Run("trailing transfer is pending", func(t *testing.T) {
		events := []Event{event(fileID, 1, KindTransfer)}
		pending := PendingTransfer(events)
		require.NotNil(t, pending)
		assert.Equal(t, int64(1), pending.Seq)
		assert.True(t, IsTransferred(events))
	})

	t.Run("accepted chain is at rest", func(t *testing.T) {
		events := []Event{
			event(fileID, 1, KindTransfer),
			event(fileID, 2, KindAcceptance),
		}
		assert.Nil(t, PendingTransfer(events))
		assert.False(t, IsTransferred(events))
	})

	t.Run("new transfer after acceptance is pending again", func(t *testing.T) {
		events := []Event{
			event(fileID, 1, KindTransfer),
			event(fileID, 2, KindAcceptance),
			event(fileID, 3, KindTransfer),
		}
		pending := PendingTransfer(events)
		require.NotNil(t, pending)
		assert.Equal(t, int64(3), pending.Seq)
	})
}
