package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"assetguard/internal/compliance/models"
	"assetguard/internal/compliance/service/mocks"
	id "assetguard/pkg/domain"
	dErrors "assetguard/pkg/domain-errors"
	"assetguard/pkg/platform/sentinel"
)

//go:generate mockgen -source=records.go -destination=mocks/records-mocks.go -package=mocks RecordStore

func TestRecords(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*mocks.MockRecordStore, *Records) {
		store := mocks.NewMockRecordStore(gomock.NewController(t))
		return store, NewRecords(store)
	}

	t.Run("list passes the filter through", func(t *testing.T) {
		store, records := setup(t)
		assetID := id.NewAssetID()
		filter := models.NotificationFilter{AssetID: &assetID, Type: models.NotificationTypeExpiration}
		want := []*models.Notification{{ID: id.NewNotificationID(), AssetID: assetID, SentAt: time.Now()}}
		store.EXPECT().ListNotifications(ctx, filter).Return(want, nil)

		got, err := records.ListNotifications(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing notification maps to not_found", func(t *testing.T) {
		store, records := setup(t)
		notificationID := id.NewNotificationID()
		store.EXPECT().FindNotification(ctx, notificationID).
			Return(nil, fmt.Errorf("notification %s: %w", notificationID, sentinel.ErrNotFound))

		_, err := records.GetNotification(ctx, notificationID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("missing violation maps to not_found", func(t *testing.T) {
		store, records := setup(t)
		violationID := id.NewViolationID()
		store.EXPECT().FindViolation(ctx, violationID).Return(nil, sentinel.ErrNotFound)

		_, err := records.GetViolation(ctx, violationID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("store failure maps to internal", func(t *testing.T) {
		store, records := setup(t)
		boom := errors.New("connection reset")
		store.EXPECT().ListViolations(ctx, models.ViolationFilter{}).Return(nil, boom)

		_, err := records.ListViolations(ctx, models.ViolationFilter{})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.ErrorIs(t, err, boom)
	})
}
