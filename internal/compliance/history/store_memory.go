// Package history remembers the most recent successful compliance run.
package history

import (
	"context"
	"fmt"
	"sync"

	"assetguard/internal/compliance/models"
	"assetguard/pkg/platform/sentinel"
)

// InMemoryStore keeps the last run in process memory.
type InMemoryStore struct {
	mu   sync.RWMutex
	last *models.RunRecord
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Record(_ context.Context, run models.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil && s.last.RanAt.After(run.RanAt) {
		return nil
	}
	s.last = &run
	return nil
}

func (s *InMemoryStore) Last(_ context.Context) (*models.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, fmt.Errorf("no run recorded: %w", sentinel.ErrNotFound)
	}
	c := *s.last
	return &c, nil
}
