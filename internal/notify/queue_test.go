package notify

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "filetrack/pkg/domain"
)

func testEvent() Event {
	return Event{
		Kind:         KindTransfer,
		FileID:       id.NewFileID(),
		TargetUnitID: uuid.New(),
		ActorID:      id.UserID(uuid.New()),
		Timestamp:    time.Now(),
	}
}

func TestQueue_DropsWhenFull(t *testing.T) {
	queue := NewQueue(1)

	require.NoError(t, queue.Notify(context.Background(), testEvent()))
	err := queue.Notify(context.Background(), testEvent())
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestWorker_ForwardsToSink(t *testing.T) {
	queue := NewQueue(8)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var mu sync.Mutex
	var delivered []Event
	sink := Func(func(_ context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, event)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewWorker(sink, queue.Events(), logger)
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	sent := testEvent()
	require.NoError(t, queue.Notify(ctx, sent))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(delivered) == 1 && delivered[0].FileID == sent.FileID
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWorker_SinkFailureDoesNotStopWorker(t *testing.T) {
	queue := NewQueue(8)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var mu sync.Mutex
	calls := 0
	sink := Func(func(context.Context, Event) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return ErrQueueFull
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewWorker(sink, queue.Events(), logger)
	go func() { _ = worker.Run(ctx) }()

	require.NoError(t, queue.Notify(ctx, testEvent()))
	require.NoError(t, queue.Notify(ctx, testEvent()))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2
	}, time.Second, 10*time.Millisecond)
}
