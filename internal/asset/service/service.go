package service

import (
	"context"
	"errors"
	"log/slog"

	assetmetrics "assetguard/internal/asset/metrics"
	"assetguard/internal/asset/models"
	id "assetguard/pkg/domain"
	dErrors "assetguard/pkg/domain-errors"
	"assetguard/pkg/platform/sentinel"
	"assetguard/pkg/requestcontext"
)

// Store persists assets.
type Store interface {
	Create(ctx context.Context, asset *models.Asset) error
	FindByID(ctx context.Context, assetID id.AssetID) (*models.Asset, error)
	ListAll(ctx context.Context) ([]*models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, assetID id.AssetID) error
}

// Cascader removes records derived from an asset. SQL backends cascade
// through foreign keys and leave this unset.
type Cascader interface {
	DeleteByAsset(ctx context.Context, assetID id.AssetID) error
}

// Service implements asset CRUD and the mark-serviced action.
type Service struct {
	store    Store
	cascader Cascader
	logger   *slog.Logger
	metrics  *assetmetrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *assetmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCascader deletes derived records alongside the asset.
func WithCascader(c Cascader) Option {
	return func(s *Service) { s.cascader = c }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Service) Create(ctx context.Context, req models.CreateAssetRequest) (*models.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	asset, err := models.NewAsset(id.NewAssetID(), req.Name, req.Description, *req.ServiceTime, *req.ExpirationTime, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, asset); err != nil {
		return nil, wrapStoreErr(err, "failed to create asset")
	}

	s.metrics.IncrementCreated()
	s.logger.InfoContext(ctx, "asset created",
		"request_id", requestcontext.RequestID(ctx),
		"asset_id", asset.ID.String(),
	)
	return asset, nil
}

func (s *Service) Get(ctx context.Context, assetID id.AssetID) (*models.Asset, error) {
	asset, err := s.store.FindByID(ctx, assetID)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load asset")
	}
	return asset, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Asset, error) {
	assets, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to list assets")
	}
	return assets, nil
}

// Update replaces every mutable field.
func (s *Service) Update(ctx context.Context, assetID id.AssetID, req models.UpdateAssetRequest) (*models.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.applyChanges(ctx, assetID, req.Changes())
}

// Patch changes only the fields present in the request.
func (s *Service) Patch(ctx context.Context, assetID id.AssetID, req models.PatchAssetRequest) (*models.Asset, error) {
	return s.applyChanges(ctx, assetID, req.Changes())
}

func (s *Service) applyChanges(ctx context.Context, assetID id.AssetID, changes models.Changes) (*models.Asset, error) {
	asset, err := s.store.FindByID(ctx, assetID)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load asset")
	}
	if err := asset.ApplyChanges(changes, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, asset); err != nil {
		return nil, wrapStoreErr(err, "failed to update asset")
	}
	return asset, nil
}

// Delete removes the asset together with its notifications and violations.
func (s *Service) Delete(ctx context.Context, assetID id.AssetID) error {
	if err := s.store.Delete(ctx, assetID); err != nil {
		return wrapStoreErr(err, "failed to delete asset")
	}
	if s.cascader != nil {
		if err := s.cascader.DeleteByAsset(ctx, assetID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete asset records")
		}
	}

	s.metrics.IncrementDeleted()
	s.logger.InfoContext(ctx, "asset deleted",
		"request_id", requestcontext.RequestID(ctx),
		"asset_id", assetID.String(),
	)
	return nil
}

// MarkServiced flags the asset as serviced. Marking an already serviced
// asset is a no-op that still succeeds.
func (s *Service) MarkServiced(ctx context.Context, assetID id.AssetID) (*models.Asset, error) {
	asset, err := s.store.FindByID(ctx, assetID)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load asset")
	}
	if asset.IsServiced {
		return asset, nil
	}
	asset.MarkServiced(requestcontext.Now(ctx))
	if err := s.store.Update(ctx, asset); err != nil {
		return nil, wrapStoreErr(err, "failed to mark asset serviced")
	}

	s.metrics.IncrementServiced()
	s.logger.InfoContext(ctx, "asset marked serviced",
		"request_id", requestcontext.RequestID(ctx),
		"asset_id", assetID.String(),
	)
	return asset, nil
}

func wrapStoreErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "asset not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "asset already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
