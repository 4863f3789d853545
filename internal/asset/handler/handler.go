package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"assetguard/internal/asset/models"
	"assetguard/internal/platform/middleware"
	id "assetguard/pkg/domain"
	dErrors "assetguard/pkg/domain-errors"
	"assetguard/pkg/platform/httputil"
	"assetguard/pkg/requestcontext"
)

// Service defines the asset operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, req models.CreateAssetRequest) (*models.Asset, error)
	Get(ctx context.Context, assetID id.AssetID) (*models.Asset, error)
	List(ctx context.Context) ([]*models.Asset, error)
	Update(ctx context.Context, assetID id.AssetID, req models.UpdateAssetRequest) (*models.Asset, error)
	Patch(ctx context.Context, assetID id.AssetID, req models.PatchAssetRequest) (*models.Asset, error)
	Delete(ctx context.Context, assetID id.AssetID) error
	MarkServiced(ctx context.Context, assetID id.AssetID) (*models.Asset, error)
}

// Handler serves the asset endpoints.
type Handler struct {
	assets Service
	logger *slog.Logger
}

// New creates a new asset Handler.
func New(assets Service, logger *slog.Logger) *Handler {
	return &Handler{assets: assets, logger: logger}
}

// Register registers the asset routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/assets", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Patch("/{id}", h.handlePatch)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/mark-serviced", h.handleMarkServiced)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assets, err := h.assets.List(ctx)
	if err != nil {
		h.writeError(ctx, w, err, "failed to list assets")
		return
	}
	now := requestcontext.Now(ctx)
	resp := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		resp = append(resp, toAssetResponse(a, now))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateAssetRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}
	asset, err := h.assets.Create(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to create asset")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAssetResponse(asset, requestcontext.Now(ctx)))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}
	asset, err := h.assets.Get(ctx, assetID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to get asset")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAssetResponse(asset, requestcontext.Now(ctx)))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}
	var req models.UpdateAssetRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}
	asset, err := h.assets.Update(ctx, assetID, req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to update asset")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAssetResponse(asset, requestcontext.Now(ctx)))
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}
	var req models.PatchAssetRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}
	asset, err := h.assets.Patch(ctx, assetID, req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to patch asset")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAssetResponse(asset, requestcontext.Now(ctx)))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}
	if err := h.assets.Delete(ctx, assetID); err != nil {
		h.writeError(ctx, w, err, "failed to delete asset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMarkServiced(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}
	asset, err := h.assets.MarkServiced(ctx, assetID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to mark asset serviced")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MarkServicedResponse{
		Message: "Asset " + asset.Name + " marked as serviced",
		Asset:   toAssetResponse(asset, requestcontext.Now(ctx)),
	})
}

func (h *Handler) assetID(w http.ResponseWriter, r *http.Request) (id.AssetID, bool) {
	assetID, err := id.ParseAssetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.AssetID{}, false
	}
	return assetID, true
}

func (h *Handler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(ctx, "invalid asset request body",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.HasCode(err, dErrors.CodeInternal) || !isCoded(err) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}

func isCoded(err error) bool {
	_, ok := dErrors.As(err)
	return ok
}
