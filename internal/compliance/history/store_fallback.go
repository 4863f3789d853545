package history

import (
	"context"
	"errors"
	"log/slog"

	"assetguard/internal/compliance/models"
	"assetguard/pkg/platform/circuit"
	"assetguard/pkg/platform/sentinel"
)

// Store is a run history backend.
type Store interface {
	Record(ctx context.Context, run models.RunRecord) error
	Last(ctx context.Context) (*models.RunRecord, error)
}

// FallbackStore fronts a shared primary (Redis) with a process-local copy.
// Every run is kept locally; the primary is skipped while its breaker is
// open, and reads return the newer of the two.
type FallbackStore struct {
	primary  Store
	fallback *InMemoryStore
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallback(primary Store, breaker *circuit.Breaker, logger *slog.Logger) *FallbackStore {
	if breaker == nil {
		breaker = circuit.New("run-history")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackStore{
		primary:  primary,
		fallback: NewInMemory(),
		breaker:  breaker,
		logger:   logger,
	}
}

// Record never fails once the local copy is written; primary errors only
// feed the breaker.
func (s *FallbackStore) Record(ctx context.Context, run models.RunRecord) error {
	if err := s.fallback.Record(ctx, run); err != nil {
		return err
	}
	if !s.breaker.Allow() {
		return nil
	}
	if err := s.primary.Record(ctx, run); err != nil {
		s.failure(ctx, "record", err)
		return nil
	}
	s.success(ctx)
	return nil
}

func (s *FallbackStore) Last(ctx context.Context) (*models.RunRecord, error) {
	local, localErr := s.fallback.Last(ctx)
	if !s.breaker.Allow() {
		return local, localErr
	}

	shared, err := s.primary.Last(ctx)
	switch {
	case err == nil:
		s.success(ctx)
		if local != nil && local.RanAt.After(shared.RanAt) {
			return local, nil
		}
		return shared, nil
	case errors.Is(err, sentinel.ErrNotFound):
		s.success(ctx)
	default:
		s.failure(ctx, "load", err)
	}
	return local, localErr
}

func (s *FallbackStore) failure(ctx context.Context, op string, err error) {
	_, change := s.breaker.RecordFailure()
	s.logger.WarnContext(ctx, "run history primary failed",
		"op", op,
		"breaker", s.breaker.Name(),
		"error", err.Error(),
	)
	if change.Opened {
		s.logger.ErrorContext(ctx, "run history breaker opened, serving local copy",
			"breaker", s.breaker.Name(),
		)
	}
}

func (s *FallbackStore) success(ctx context.Context) {
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "run history breaker closed",
			"breaker", s.breaker.Name(),
		)
	}
}
