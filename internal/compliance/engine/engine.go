// Package engine reconciles asset deadlines against the current time and
// materializes notifications and violations.
//
// A run captures now once, evaluates every asset against it and writes
// through create-if-absent inside a single store transaction. The store's
// (asset, type) uniqueness is the only memory of earlier runs, which makes
// repeated and concurrent runs safe without any locking here.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	assetmodels "assetguard/internal/asset/models"
	compliancemetrics "assetguard/internal/compliance/metrics"
	"assetguard/internal/compliance/models"
	"assetguard/internal/compliance/ports"
	id "assetguard/pkg/domain"
	dErrors "assetguard/pkg/domain-errors"
	"assetguard/pkg/requestcontext"
)

const tracerName = "assetguard/compliance"

// Engine runs compliance checks.
type Engine struct {
	tx      ports.StoreTx
	history ports.History
	clock   func() time.Time
	logger  *slog.Logger
	metrics *compliancemetrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithHistory records each successful run.
func WithHistory(h ports.History) Option {
	return func(e *Engine) { e.history = h }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *compliancemetrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func New(tx ports.StoreTx, opts ...Option) *Engine {
	e := &Engine{tx: tx, clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// RunChecks performs one compliance run. On success every record it created
// is committed and listed in the Summary. On any failure nothing from the
// run persists and a check_failed error is returned.
func (e *Engine) RunChecks(ctx context.Context) (*models.Summary, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "compliance.RunChecks")
	defer span.End()

	start := time.Now()
	now := e.clock().UTC()
	requestID := requestcontext.RequestID(ctx)

	var summary *models.Summary
	err := e.tx.RunInTx(ctx, func(store ports.Store) error {
		s, err := e.check(ctx, store, now)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	if err != nil {
		e.metrics.ObserveRun(compliancemetrics.OutcomeFailure, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "compliance run failed")
		e.logger.ErrorContext(ctx, "error during running checks",
			"request_id", requestID,
			"error", err.Error(),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeCheckFailed, "error running checks")
	}

	elapsed := time.Since(start)
	e.metrics.ObserveRun(compliancemetrics.OutcomeSuccess, elapsed)
	for _, n := range summary.Details.Notifications {
		e.metrics.IncrementNotification(string(n.Type))
	}
	for _, v := range summary.Details.Violations {
		e.metrics.IncrementViolation(string(v.Type))
	}
	span.SetAttributes(
		attribute.Int("compliance.notifications_created", summary.NotificationsCreated),
		attribute.Int("compliance.violations_created", summary.ViolationsCreated),
	)
	e.logger.InfoContext(ctx, "run checks completed",
		"request_id", requestID,
		"notifications_created", summary.NotificationsCreated,
		"violations_created", summary.ViolationsCreated,
		"duration", elapsed,
	)

	e.recordHistory(ctx, now, summary)
	return summary, nil
}

// check evaluates every asset against now and writes the findings through
// store. It builds a fresh summary so a failed attempt leaves nothing behind.
func (e *Engine) check(ctx context.Context, store ports.Store, now time.Time) (*models.Summary, error) {
	assets, err := store.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	summary := models.NewSummary()
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, finding := range Evaluate(asset, now) {
			if err := e.apply(ctx, store, asset, finding, now, summary); err != nil {
				return nil, err
			}
		}
	}
	summary.Finalize()
	return summary, nil
}

func (e *Engine) apply(ctx context.Context, store ports.Store, asset *assetmodels.Asset, f Finding, now time.Time, summary *models.Summary) error {
	deadline := f.Deadline.UTC()

	if f.IsNotification() {
		n := &models.Notification{
			ID:        id.NewNotificationID(),
			AssetID:   asset.ID,
			AssetName: asset.Name,
			Type:      f.NotificationType(),
			Message:   describe(f, asset.Name),
			SentAt:    now,
		}
		inserted, err := store.CreateNotificationIfAbsent(ctx, n)
		if err != nil {
			return fmt.Errorf("create %s notification for asset %s: %w", n.Type, asset.ID, err)
		}
		if inserted {
			summary.AddNotification(models.NotificationDetail{Asset: asset.Name, Type: n.Type, Time: deadline})
		}
		return nil
	}

	v := &models.Violation{
		ID:          id.NewViolationID(),
		AssetID:     asset.ID,
		AssetName:   asset.Name,
		Type:        f.ViolationType(),
		Description: describe(f, asset.Name),
		CreatedAt:   now,
	}
	inserted, err := store.CreateViolationIfAbsent(ctx, v)
	if err != nil {
		return fmt.Errorf("create %s violation for asset %s: %w", v.Type, asset.ID, err)
	}
	if !inserted {
		return nil
	}
	detail := models.ViolationDetail{Asset: asset.Name, Type: v.Type}
	if v.Type == models.ViolationTypeNotServiced {
		detail.DueTime = &deadline
	} else {
		detail.ExpiredTime = &deadline
	}
	summary.AddViolation(detail)
	return nil
}

// recordHistory keeps the run for GET /api/run-checks/last. The run is
// already committed, so a failure here is only logged.
func (e *Engine) recordHistory(ctx context.Context, now time.Time, summary *models.Summary) {
	if e.history == nil {
		return
	}
	if err := e.history.Record(ctx, models.RunRecord{RanAt: now, Summary: *summary}); err != nil {
		e.logger.WarnContext(ctx, "failed to record run history",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
}

// LastRun returns the most recent successful run.
func (e *Engine) LastRun(ctx context.Context) (*models.RunRecord, error) {
	if e.history == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no run history available")
	}
	run, err := e.history.Last(ctx)
	if err != nil {
		return nil, wrapHistoryErr(err)
	}
	return run, nil
}
