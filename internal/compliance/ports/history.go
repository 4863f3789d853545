package ports

import (
	"context"

	"assetguard/internal/compliance/models"
)

// History remembers the most recent successful run.
// Last returns sentinel.ErrNotFound when nothing has been recorded.
type History interface {
	Record(ctx context.Context, run models.RunRecord) error
	Last(ctx context.Context) (*models.RunRecord, error)
}
