package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assetmodels "assetguard/internal/asset/models"
	assetservice "assetguard/internal/asset/service"
	assetstore "assetguard/internal/asset/store"
	"assetguard/internal/compliance/models"
	"assetguard/internal/compliance/store"
	"assetguard/internal/platform/logger"
	id "assetguard/pkg/domain"
	"assetguard/pkg/platform/sentinel"
)

// snapshotHook calls onList once, right after the run lists its assets.
type snapshotHook struct {
	*assetstore.InMemoryStore
	once   sync.Once
	onList func()
}

func (h *snapshotHook) ListAll(ctx context.Context) ([]*assetmodels.Asset, error) {
	out, err := h.InMemoryStore.ListAll(ctx)
	h.once.Do(h.onList)
	return out, err
}

func TestDeleteDuringRunLeavesNoRecords(t *testing.T) {
	ctx := context.Background()
	assets := assetstore.NewInMemory()
	records := store.NewInMemory(assets)
	a := &assetmodels.Asset{
		ID:             id.NewAssetID(),
		Name:           "Boiler",
		ServiceTime:    now.Add(-2 * time.Hour),
		ExpirationTime: now.Add(-time.Hour),
		CreatedAt:      now.Add(-48 * time.Hour),
		UpdatedAt:      now.Add(-48 * time.Hour),
	}
	require.NoError(t, assets.Create(ctx, a))

	hook := &snapshotHook{InMemoryStore: assets}
	runner := store.NewMemoryTx(hook, records)
	svc := assetservice.New(runner.GuardAssets(assets),
		assetservice.WithCascader(records),
		assetservice.WithLogger(logger.Discard()),
	)

	var deletedMidRun atomic.Bool
	var finished atomic.Bool
	deleted := make(chan error, 1)
	hook.onList = func() {
		go func() {
			err := svc.Delete(ctx, a.ID)
			finished.Store(true)
			deleted <- err
		}()
		time.Sleep(20 * time.Millisecond)
		deletedMidRun.Store(finished.Load())
	}

	e := New(runner, WithClock(func() time.Time { return now }), WithLogger(logger.Discard()))
	summary, err := e.RunChecks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ViolationsCreated)
	assert.False(t, deletedMidRun.Load(), "delete must wait for the run")

	require.NoError(t, <-deleted)

	_, err = assets.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	violations, err := records.ListViolations(ctx, models.ViolationFilter{})
	require.NoError(t, err)
	assert.Empty(t, violations)
	notifications, err := records.ListNotifications(ctx, models.NotificationFilter{})
	require.NoError(t, err)
	assert.Empty(t, notifications)
}
