package store

import (
	"context"
	"sync"

	"github.com/nexus-form/nexus/internal/survey"
)

// InMemoryStore keeps the table in process, for local/dev use and tests.
type InMemoryStore struct {
	mu    sync.RWMutex
	table survey.Table
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) ReadAll(_ context.Context) (survey.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone(), nil
}

func (s *InMemoryStore) WriteAll(_ context.Context, t survey.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t.Clone()
	return nil
}

func (s *InMemoryStore) Close() error { return nil }
