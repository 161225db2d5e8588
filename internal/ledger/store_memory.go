package ledger

import (
	"context"
	"sync"

	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
)

// InMemoryStore keeps per-file event chains in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.FileID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.FileID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chain := s.events[event.FileID]
	if event.Seq != int64(len(chain))+1 {
		return sentinel.ErrConflict
	}
	s.events[event.FileID] = append(chain, event)
	return nil
}

func (s *InMemoryStore) ListForFile(_ context.Context, fileID id.FileID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[fileID]...), nil
}
