package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"assetguard/internal/compliance/models"
	"assetguard/internal/compliance/ports/mocks"
	"assetguard/internal/platform/logger"
	"assetguard/pkg/platform/circuit"
	"assetguard/pkg/platform/sentinel"
)

func TestFallbackStore(t *testing.T) {
	ctx := context.Background()
	ranAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	run := models.RunRecord{RanAt: ranAt, Summary: *models.NewSummary()}
	redisDown := errors.New("dial tcp: connection refused")

	setup := func(t *testing.T, opts ...circuit.Option) (*mocks.MockHistory, *FallbackStore) {
		primary := mocks.NewMockHistory(gomock.NewController(t))
		breaker := circuit.New("test", append([]circuit.Option{circuit.WithCooldown(time.Hour)}, opts...)...)
		return primary, NewFallback(primary, breaker, logger.Discard())
	}

	t.Run("writes through to the primary", func(t *testing.T) {
		primary, s := setup(t)
		primary.EXPECT().Record(ctx, run).Return(nil)
		require.NoError(t, s.Record(ctx, run))
	})

	t.Run("primary failure is absorbed and the local copy serves reads", func(t *testing.T) {
		primary, s := setup(t, circuit.WithFailureThreshold(1))
		primary.EXPECT().Record(ctx, run).Return(redisDown)
		require.NoError(t, s.Record(ctx, run))

		// Breaker is open, so Last never reaches the primary.
		got, err := s.Last(ctx)
		require.NoError(t, err)
		assert.Equal(t, ranAt, got.RanAt)
	})

	t.Run("open breaker skips the primary on write", func(t *testing.T) {
		primary, s := setup(t, circuit.WithFailureThreshold(1))
		primary.EXPECT().Record(ctx, gomock.Any()).Return(redisDown).Times(1)
		require.NoError(t, s.Record(ctx, run))
		require.NoError(t, s.Record(ctx, run))
	})

	t.Run("newer local run wins over a stale shared one", func(t *testing.T) {
		primary, s := setup(t)
		primary.EXPECT().Record(ctx, run).Return(nil)
		require.NoError(t, s.Record(ctx, run))

		stale := models.RunRecord{RanAt: ranAt.Add(-time.Hour)}
		primary.EXPECT().Last(ctx).Return(&stale, nil)
		got, err := s.Last(ctx)
		require.NoError(t, err)
		assert.Equal(t, ranAt, got.RanAt)
	})

	t.Run("shared run from another instance is returned", func(t *testing.T) {
		primary, s := setup(t)
		shared := models.RunRecord{RanAt: ranAt}
		primary.EXPECT().Last(ctx).Return(&shared, nil)
		got, err := s.Last(ctx)
		require.NoError(t, err)
		assert.Equal(t, ranAt, got.RanAt)
	})

	t.Run("nothing recorded anywhere", func(t *testing.T) {
		primary, s := setup(t)
		primary.EXPECT().Last(ctx).Return(nil, sentinel.ErrNotFound)
		_, err := s.Last(ctx)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
