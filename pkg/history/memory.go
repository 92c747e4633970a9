package history

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore keeps exchanges in process memory.
//
// Persists for the application lifetime only. Useful for tests and
// single-process deployments; use the badger store for durability.
type InMemoryStore struct {
	mu        sync.RWMutex
	exchanges map[string][]Exchange // userID -> exchanges, oldest first
}

// NewInMemoryStore creates an empty in-memory history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		exchanges: make(map[string][]Exchange),
	}
}

var _ Store = (*InMemoryStore)(nil)

// Recent returns up to limit most recent exchanges for userID, oldest first.
func (s *InMemoryStore) Recent(_ context.Context, userID string, limit int) ([]Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.exchanges[userID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]Exchange, limit)
	copy(out, all[len(all)-limit:])
	return out, nil
}

// Save appends one exchange.
func (s *InMemoryStore) Save(_ context.Context, exchange Exchange) error {
	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges[exchange.UserID] = append(s.exchanges[exchange.UserID], exchange)
	return nil
}

// Clear removes all exchanges for userID.
func (s *InMemoryStore) Clear(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := len(s.exchanges[userID])
	delete(s.exchanges, userID)
	return removed, nil
}
