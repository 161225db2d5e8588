package routing

import (
	"context"
	"time"

	dErrors "filetrack/pkg/domain-errors"
	id "filetrack/pkg/domain"
)

// fileTx provides the per-file critical section. Instead of a single global
// lock, files are distributed across N shards based on a hash of the file
// ID, so routing calls for different files proceed without contention.
const numFileShards = 128

// fileTx shards are channel-backed mutexes so acquisition can be bounded:
// a caller that cannot take the lock within the wait window fails with a
// retryable conflict instead of queueing indefinitely.
type fileTx struct {
	shards [numFileShards]chan struct{}
	wait   time.Duration
}

// defaultLockWait bounds lock acquisition when no window is configured.
const defaultLockWait = 2 * time.Second

func newFileTx(wait time.Duration) *fileTx {
	if wait <= 0 {
		wait = defaultLockWait
	}
	t := &fileTx{wait: wait}
	for i := range t.shards {
		t.shards[i] = make(chan struct{}, 1)
	}
	return t
}

// RunInTx executes fn while holding the file's shard lock.
func (t *fileTx) RunInTx(ctx context.Context, fileID id.FileID, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "routing aborted: context cancelled")
	}

	shard := t.shards[hashFileID(fileID)%numFileShards]
	timer := time.NewTimer(t.wait)
	defer timer.Stop()

	select {
	case shard <- struct{}{}:
	case <-timer.C:
		return dErrors.New(dErrors.CodeConflict, "file is busy, retry")
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "routing aborted: context cancelled")
	}
	defer func() { <-shard }()

	// Check again after acquiring the lock.
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "routing aborted: context cancelled")
	}

	return fn()
}

// hashFileID uses FNV-1a over the raw UUID bytes for shard distribution.
func hashFileID(fileID id.FileID) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	raw := [16]byte(fileID)
	for i := 0; i < len(raw); i++ {
		h ^= uint32(raw[i])
		h *= fnvPrime
	}
	return h
}
