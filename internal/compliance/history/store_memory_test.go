package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetguard/internal/compliance/models"
	"assetguard/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	_, err := s.Last(ctx)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	first := models.RunRecord{RanAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Summary: models.Summary{NotificationsCreated: 1}}
	second := models.RunRecord{RanAt: first.RanAt.Add(time.Minute), Summary: models.Summary{ViolationsCreated: 2}}
	require.NoError(t, s.Record(ctx, first))
	require.NoError(t, s.Record(ctx, second))

	last, err := s.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.RanAt, last.RanAt)
	assert.Equal(t, 2, last.Summary.ViolationsCreated)
}

func TestInMemoryStoreKeepsNewestRun(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	newer := models.RunRecord{RanAt: time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC), Summary: models.Summary{ViolationsCreated: 2}}
	older := models.RunRecord{RanAt: newer.RanAt.Add(-time.Minute), Summary: models.Summary{NotificationsCreated: 1}}
	require.NoError(t, s.Record(ctx, newer))
	require.NoError(t, s.Record(ctx, older))

	last, err := s.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.RanAt, last.RanAt)
	assert.Equal(t, 2, last.Summary.ViolationsCreated)
}
