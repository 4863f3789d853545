package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	assetmodels "assetguard/internal/asset/models"
	assetstore "assetguard/internal/asset/store"
	"assetguard/internal/compliance/models"
	"assetguard/internal/platform/database"
	id "assetguard/pkg/domain"
	"assetguard/pkg/platform/sentinel"
)

type recordStore interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
	CreateNotificationIfAbsent(ctx context.Context, n *models.Notification) (bool, error)
	InsertViolation(ctx context.Context, v *models.Violation) error
	CreateViolationIfAbsent(ctx context.Context, v *models.Violation) (bool, error)
	ListNotifications(ctx context.Context, filter models.NotificationFilter) ([]*models.Notification, error)
	FindNotification(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error)
	ListViolations(ctx context.Context, filter models.ViolationFilter) ([]*models.Violation, error)
	FindViolation(ctx context.Context, violationID id.ViolationID) (*models.Violation, error)
	DeleteByAsset(ctx context.Context, assetID id.AssetID) error
}

type assetWriter interface {
	Create(ctx context.Context, asset *assetmodels.Asset) error
	Update(ctx context.Context, asset *assetmodels.Asset) error
}

type backend struct {
	assets  assetWriter
	records recordStore
}

// RecordStoreSuite runs the same contract against every backend.
type RecordStoreSuite struct {
	suite.Suite
	newBackend func(t *testing.T) backend
	assets     assetWriter
	store      recordStore
	ctx        context.Context
	pump       *assetmodels.Asset
	boiler     *assetmodels.Asset
}

func TestInMemoryRecordStoreSuite(t *testing.T) {
	suite.Run(t, &RecordStoreSuite{newBackend: func(*testing.T) backend {
		assets := assetstore.NewInMemory()
		return backend{assets: assets, records: NewInMemory(assets)}
	}})
}

func TestSQLiteRecordStoreSuite(t *testing.T) {
	suite.Run(t, &RecordStoreSuite{newBackend: func(t *testing.T) backend {
		db, err := database.OpenSQLite(context.Background(), ":memory:")
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		if err := database.Migrate(context.Background(), db); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
		return backend{assets: assetstore.NewSQL(db), records: NewSQL(db)}
	}})
}

var base = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

func (s *RecordStoreSuite) SetupTest() {
	b := s.newBackend(s.T())
	s.assets = b.assets
	s.store = b.records
	s.ctx = context.Background()
	s.pump = s.createAsset("Pump")
	s.boiler = s.createAsset("Boiler")
}

func (s *RecordStoreSuite) createAsset(name string) *assetmodels.Asset {
	a := &assetmodels.Asset{
		ID:             id.NewAssetID(),
		Name:           name,
		ServiceTime:    base.Add(time.Hour),
		ExpirationTime: base.Add(2 * time.Hour),
		CreatedAt:      base,
		UpdatedAt:      base,
	}
	s.Require().NoError(s.assets.Create(s.ctx, a))
	return a
}

func (s *RecordStoreSuite) notification(a *assetmodels.Asset, t models.NotificationType, at time.Time) *models.Notification {
	return &models.Notification{
		ID:        id.NewNotificationID(),
		AssetID:   a.ID,
		AssetName: a.Name,
		Type:      t,
		Message:   "reminder for " + a.Name,
		SentAt:    at,
	}
}

func (s *RecordStoreSuite) violation(a *assetmodels.Asset, t models.ViolationType, at time.Time) *models.Violation {
	return &models.Violation{
		ID:          id.NewViolationID(),
		AssetID:     a.ID,
		AssetName:   a.Name,
		Type:        t,
		Description: "violation for " + a.Name,
		CreatedAt:   at,
	}
}

func (s *RecordStoreSuite) TestDirectDuplicateInsertFails() {
	s.Require().NoError(s.store.InsertNotification(s.ctx, s.notification(s.pump, models.NotificationTypeService, base)))
	err := s.store.InsertNotification(s.ctx, s.notification(s.pump, models.NotificationTypeService, base.Add(time.Minute)))
	s.ErrorIs(err, sentinel.ErrConflict)

	s.Require().NoError(s.store.InsertViolation(s.ctx, s.violation(s.pump, models.ViolationTypeExpired, base)))
	err = s.store.InsertViolation(s.ctx, s.violation(s.pump, models.ViolationTypeExpired, base))
	s.ErrorIs(err, sentinel.ErrConflict)

	s.Run("other type or asset is not a duplicate", func() {
		s.NoError(s.store.InsertNotification(s.ctx, s.notification(s.pump, models.NotificationTypeExpiration, base)))
		s.NoError(s.store.InsertNotification(s.ctx, s.notification(s.boiler, models.NotificationTypeService, base)))
	})
}

func (s *RecordStoreSuite) TestCreateIfAbsent() {
	first := s.notification(s.pump, models.NotificationTypeService, base)
	inserted, err := s.store.CreateNotificationIfAbsent(s.ctx, first)
	s.Require().NoError(err)
	s.True(inserted)

	inserted, err = s.store.CreateNotificationIfAbsent(s.ctx, s.notification(s.pump, models.NotificationTypeService, base.Add(time.Hour)))
	s.Require().NoError(err)
	s.False(inserted, "existing (asset, type) is a no-op")

	all, err := s.store.ListNotifications(s.ctx, models.NotificationFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(first.ID, all[0].ID, "the original row survives")

	inserted, err = s.store.CreateViolationIfAbsent(s.ctx, s.violation(s.pump, models.ViolationTypeNotServiced, base))
	s.Require().NoError(err)
	s.True(inserted)
	inserted, err = s.store.CreateViolationIfAbsent(s.ctx, s.violation(s.pump, models.ViolationTypeNotServiced, base))
	s.Require().NoError(err)
	s.False(inserted)
}

func (s *RecordStoreSuite) TestListFiltersAndOrder() {
	older := s.notification(s.pump, models.NotificationTypeService, base)
	newer := s.notification(s.pump, models.NotificationTypeExpiration, base.Add(time.Minute))
	other := s.notification(s.boiler, models.NotificationTypeService, base.Add(2*time.Minute))
	for _, n := range []*models.Notification{older, newer, other} {
		s.Require().NoError(s.store.InsertNotification(s.ctx, n))
	}

	all, err := s.store.ListNotifications(s.ctx, models.NotificationFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(other.ID, all[0].ID)
	s.Equal(older.ID, all[2].ID)

	byAsset, err := s.store.ListNotifications(s.ctx, models.NotificationFilter{AssetID: &s.pump.ID})
	s.Require().NoError(err)
	s.Len(byAsset, 2)

	byType, err := s.store.ListNotifications(s.ctx, models.NotificationFilter{Type: models.NotificationTypeService})
	s.Require().NoError(err)
	s.Len(byType, 2)

	both, err := s.store.ListNotifications(s.ctx, models.NotificationFilter{AssetID: &s.pump.ID, Type: models.NotificationTypeService})
	s.Require().NoError(err)
	s.Require().Len(both, 1)
	s.Equal(older.ID, both[0].ID)

	s.Require().NoError(s.store.InsertViolation(s.ctx, s.violation(s.boiler, models.ViolationTypeExpired, base)))
	violations, err := s.store.ListViolations(s.ctx, models.ViolationFilter{Type: models.ViolationTypeNotServiced})
	s.Require().NoError(err)
	s.Empty(violations)
	violations, err = s.store.ListViolations(s.ctx, models.ViolationFilter{AssetID: &s.boiler.ID})
	s.Require().NoError(err)
	s.Len(violations, 1)
}

func (s *RecordStoreSuite) TestFindCarriesCurrentAssetName() {
	n := s.notification(s.pump, models.NotificationTypeService, base)
	v := s.violation(s.pump, models.ViolationTypeExpired, base)
	s.Require().NoError(s.store.InsertNotification(s.ctx, n))
	s.Require().NoError(s.store.InsertViolation(s.ctx, v))

	renamed := *s.pump
	renamed.Name = "Pump A"
	s.Require().NoError(s.assets.Update(s.ctx, &renamed))

	foundN, err := s.store.FindNotification(s.ctx, n.ID)
	s.Require().NoError(err)
	s.Equal("Pump A", foundN.AssetName)
	s.Equal("Service Reminder for Pump A", foundN.String())
	s.True(base.Equal(foundN.SentAt))

	foundV, err := s.store.FindViolation(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("Pump A", foundV.AssetName)

	_, err = s.store.FindNotification(s.ctx, id.NewNotificationID())
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FindViolation(s.ctx, id.NewViolationID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RecordStoreSuite) TestDeleteByAsset() {
	s.Require().NoError(s.store.InsertNotification(s.ctx, s.notification(s.pump, models.NotificationTypeService, base)))
	s.Require().NoError(s.store.InsertViolation(s.ctx, s.violation(s.pump, models.ViolationTypeExpired, base)))
	s.Require().NoError(s.store.InsertViolation(s.ctx, s.violation(s.boiler, models.ViolationTypeExpired, base)))

	s.Require().NoError(s.store.DeleteByAsset(s.ctx, s.pump.ID))

	notifications, err := s.store.ListNotifications(s.ctx, models.NotificationFilter{})
	s.Require().NoError(err)
	s.Empty(notifications)
	violations, err := s.store.ListViolations(s.ctx, models.ViolationFilter{})
	s.Require().NoError(err)
	s.Require().Len(violations, 1)
	s.Equal(s.boiler.ID, violations[0].AssetID)

	s.Run("record for the same pair can be created again", func() {
		inserted, err := s.store.CreateNotificationIfAbsent(s.ctx, s.notification(s.pump, models.NotificationTypeService, base))
		s.Require().NoError(err)
		s.True(inserted)
	})
}
