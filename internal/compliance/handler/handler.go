package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"assetguard/internal/compliance/models"
	"assetguard/internal/platform/middleware"
	id "assetguard/pkg/domain"
	dErrors "assetguard/pkg/domain-errors"
	"assetguard/pkg/platform/httputil"
)

// Checker runs compliance checks and reports the last successful run.
type Checker interface {
	RunChecks(ctx context.Context) (*models.Summary, error)
	LastRun(ctx context.Context) (*models.RunRecord, error)
}

// Records reads notifications and violations.
type Records interface {
	ListNotifications(ctx context.Context, filter models.NotificationFilter) ([]*models.Notification, error)
	GetNotification(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error)
	ListViolations(ctx context.Context, filter models.ViolationFilter) ([]*models.Violation, error)
	GetViolation(ctx context.Context, violationID id.ViolationID) (*models.Violation, error)
}

// Handler serves the compliance endpoints.
type Handler struct {
	checker Checker
	records Records
	logger  *slog.Logger
}

func New(checker Checker, records Records, logger *slog.Logger) *Handler {
	return &Handler{checker: checker, records: records, logger: logger}
}

// Register registers the compliance routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/run-checks", h.handleRunChecks)
	r.Get("/api/run-checks/last", h.handleLastRun)

	r.Get("/api/notifications", h.handleListNotifications)
	r.Get("/api/notifications/{id}", h.handleGetNotification)
	r.Get("/api/violations", h.handleListViolations)
	r.Get("/api/violations/{id}", h.handleGetViolation)
}

func (h *Handler) handleRunChecks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := h.checker.RunChecks(ctx)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeCheckFailed) {
			err = dErrors.Wrap(err, dErrors.CodeCheckFailed, "error running checks")
		}
		h.logger.ErrorContext(ctx, "run checks request failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleLastRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	run, err := h.checker.LastRun(ctx)
	if err != nil {
		h.writeError(ctx, w, err, "failed to load last run")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, run)
}

func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := notificationFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	notifications, err := h.records.ListNotifications(ctx, filter)
	if err != nil {
		h.writeError(ctx, w, err, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	httputil.WriteJSON(w, http.StatusOK, notifications)
}

func (h *Handler) handleGetNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := h.records.GetNotification(ctx, notificationID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to get notification")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) handleListViolations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := violationFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	violations, err := h.records.ListViolations(ctx, filter)
	if err != nil {
		h.writeError(ctx, w, err, "failed to list violations")
		return
	}
	if violations == nil {
		violations = []*models.Violation{}
	}
	httputil.WriteJSON(w, http.StatusOK, violations)
}

func (h *Handler) handleGetViolation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	violationID, err := id.ParseViolationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, err := h.records.GetViolation(ctx, violationID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to get violation")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if _, ok := dErrors.As(err); !ok || dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
