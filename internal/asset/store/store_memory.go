package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"assetguard/internal/asset/models"
	id "assetguard/pkg/domain"
	"assetguard/pkg/platform/sentinel"
)

// Error Contract:
// - Return ErrNotFound when the requested asset does not exist
// - Return ErrConflict when Create is called with an existing ID
// - Values are copied in and out so callers never share state with the map

// InMemoryStore keeps assets in a map for tests and the memory backend.
type InMemoryStore struct {
	mu     sync.RWMutex
	assets map[id.AssetID]*models.Asset
}

// NewInMemory constructs an empty in-memory asset store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{assets: make(map[id.AssetID]*models.Asset)}
}

func (s *InMemoryStore) Create(_ context.Context, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[asset.ID]; ok {
		return fmt.Errorf("asset %s: %w", asset.ID, sentinel.ErrConflict)
	}
	s.assets[asset.ID] = clone(asset)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, assetID id.AssetID) (*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[assetID]
	if !ok {
		return nil, fmt.Errorf("asset not found: %w", sentinel.ErrNotFound)
	}
	return clone(a), nil
}

// ListAll returns every asset, newest first.
func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		out = append(out, clone(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[asset.ID]; !ok {
		return fmt.Errorf("asset not found: %w", sentinel.ErrNotFound)
	}
	s.assets[asset.ID] = clone(asset)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, assetID id.AssetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[assetID]; !ok {
		return fmt.Errorf("asset not found: %w", sentinel.ErrNotFound)
	}
	delete(s.assets, assetID)
	return nil
}

func clone(a *models.Asset) *models.Asset {
	c := *a
	if a.Description != nil {
		d := *a.Description
		c.Description = &d
	}
	return &c
}
