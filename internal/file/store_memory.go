package file

import (
	"context"
	"sort"
	"sync"

	"filetrack/internal/directory"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
)

// InMemoryStore keeps file records in process memory. It favors clarity over
// performance and mirrors the semantics of the PostgreSQL store, including
// the version check.
type InMemoryStore struct {
	mu    sync.RWMutex
	files map[id.FileID]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{files: make(map[id.FileID]Record)}
}

func (s *InMemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[record.ID] = record
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, fileID id.FileID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.files[fileID]; ok {
		return record, nil
	}
	return Record{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.files))
	for _, record := range s.files {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) UpdateLocation(_ context.Context, fileID id.FileID, location directory.Location, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.files[fileID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if record.Version != expectedVersion {
		return sentinel.ErrConflict
	}
	record.Location = location
	record.Version = expectedVersion + 1
	s.files[fileID] = record
	return nil
}

func (s *InMemoryStore) SetDisabled(_ context.Context, fileID id.FileID, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.files[fileID]
	if !ok {
		return sentinel.ErrNotFound
	}
	record.IsDisabled = disabled
	s.files[fileID] = record
	return nil
}
