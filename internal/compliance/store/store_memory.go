package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	assetmodels "assetguard/internal/asset/models"
	"assetguard/internal/compliance/models"
	id "assetguard/pkg/domain"
	"assetguard/pkg/platform/sentinel"
)

// AssetReader resolves the asset a record belongs to.
type AssetReader interface {
	FindByID(ctx context.Context, assetID id.AssetID) (*assetmodels.Asset, error)
}

type notificationKey struct {
	assetID id.AssetID
	typ     models.NotificationType
}

type violationKey struct {
	assetID id.AssetID
	typ     models.ViolationType
}

// InMemoryStore keeps notifications and violations in maps keyed by
// (asset, type), which is what enforces uniqueness.
type InMemoryStore struct {
	mu            sync.RWMutex
	assets        AssetReader
	notifications map[notificationKey]*models.Notification
	violations    map[violationKey]*models.Violation
}

// NewInMemory constructs an empty record store. assets is consulted on read
// so listings carry the current asset name; it may be nil.
func NewInMemory(assets AssetReader) *InMemoryStore {
	return &InMemoryStore{
		assets:        assets,
		notifications: make(map[notificationKey]*models.Notification),
		violations:    make(map[violationKey]*models.Violation),
	}
}

// InsertNotification adds n, failing with ErrConflict when (asset, type)
// already has a notification.
func (s *InMemoryStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	inserted, err := s.CreateNotificationIfAbsent(ctx, n)
	if err != nil {
		return err
	}
	if !inserted {
		return fmt.Errorf("notification %s for asset %s: %w", n.Type, n.AssetID, sentinel.ErrConflict)
	}
	return nil
}

func (s *InMemoryStore) CreateNotificationIfAbsent(_ context.Context, n *models.Notification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := notificationKey{n.AssetID, n.Type}
	if _, ok := s.notifications[key]; ok {
		return false, nil
	}
	c := *n
	s.notifications[key] = &c
	return true, nil
}

// InsertViolation adds v, failing with ErrConflict when (asset, type)
// already has a violation.
func (s *InMemoryStore) InsertViolation(ctx context.Context, v *models.Violation) error {
	inserted, err := s.CreateViolationIfAbsent(ctx, v)
	if err != nil {
		return err
	}
	if !inserted {
		return fmt.Errorf("violation %s for asset %s: %w", v.Type, v.AssetID, sentinel.ErrConflict)
	}
	return nil
}

func (s *InMemoryStore) CreateViolationIfAbsent(_ context.Context, v *models.Violation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := violationKey{v.AssetID, v.Type}
	if _, ok := s.violations[key]; ok {
		return false, nil
	}
	c := *v
	s.violations[key] = &c
	return true, nil
}

// ListNotifications returns matching notifications, newest first.
func (s *InMemoryStore) ListNotifications(ctx context.Context, filter models.NotificationFilter) ([]*models.Notification, error) {
	s.mu.RLock()
	out := make([]*models.Notification, 0, len(s.notifications))
	for key, n := range s.notifications {
		if filter.AssetID != nil && key.assetID != *filter.AssetID {
			continue
		}
		if filter.Type != "" && key.typ != filter.Type {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	s.mu.RUnlock()

	for _, n := range out {
		n.AssetName = s.assetName(ctx, n.AssetID, n.AssetName)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].SentAt.After(out[j].SentAt)
	})
	return out, nil
}

func (s *InMemoryStore) FindNotification(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	s.mu.RLock()
	var found *models.Notification
	for _, n := range s.notifications {
		if n.ID == notificationID {
			c := *n
			found = &c
			break
		}
	}
	s.mu.RUnlock()

	if found == nil {
		return nil, fmt.Errorf("notification not found: %w", sentinel.ErrNotFound)
	}
	found.AssetName = s.assetName(ctx, found.AssetID, found.AssetName)
	return found, nil
}

// ListViolations returns matching violations, newest first.
func (s *InMemoryStore) ListViolations(ctx context.Context, filter models.ViolationFilter) ([]*models.Violation, error) {
	s.mu.RLock()
	out := make([]*models.Violation, 0, len(s.violations))
	for key, v := range s.violations {
		if filter.AssetID != nil && key.assetID != *filter.AssetID {
			continue
		}
		if filter.Type != "" && key.typ != filter.Type {
			continue
		}
		c := *v
		out = append(out, &c)
	}
	s.mu.RUnlock()

	for _, v := range out {
		v.AssetName = s.assetName(ctx, v.AssetID, v.AssetName)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) FindViolation(ctx context.Context, violationID id.ViolationID) (*models.Violation, error) {
	s.mu.RLock()
	var found *models.Violation
	for _, v := range s.violations {
		if v.ID == violationID {
			c := *v
			found = &c
			break
		}
	}
	s.mu.RUnlock()

	if found == nil {
		return nil, fmt.Errorf("violation not found: %w", sentinel.ErrNotFound)
	}
	found.AssetName = s.assetName(ctx, found.AssetID, found.AssetName)
	return found, nil
}

// DeleteByAsset removes every record of the asset.
func (s *InMemoryStore) DeleteByAsset(_ context.Context, assetID id.AssetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.notifications {
		if key.assetID == assetID {
			delete(s.notifications, key)
		}
	}
	for key := range s.violations {
		if key.assetID == assetID {
			delete(s.violations, key)
		}
	}
	return nil
}

// removeNotification drops a row only if it is still the one with id.
func (s *InMemoryStore) removeNotification(key notificationKey, notificationID id.NotificationID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notifications[key]; ok && n.ID == notificationID {
		delete(s.notifications, key)
	}
}

func (s *InMemoryStore) removeViolation(key violationKey, violationID id.ViolationID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.violations[key]; ok && v.ID == violationID {
		delete(s.violations, key)
	}
}

func (s *InMemoryStore) assetName(ctx context.Context, assetID id.AssetID, fallback string) string {
	if s.assets == nil {
		return fallback
	}
	a, err := s.assets.FindByID(ctx, assetID)
	if err != nil {
		return fallback
	}
	return a.Name
}
