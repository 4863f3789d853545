// Package service exposes read access to notifications and violations.
package service

import (
	"context"
	"errors"

	"assetguard/internal/compliance/models"
	id "assetguard/pkg/domain"
	dErrors "assetguard/pkg/domain-errors"
	"assetguard/pkg/platform/sentinel"
)

// RecordStore reads stored notifications and violations.
type RecordStore interface {
	ListNotifications(ctx context.Context, filter models.NotificationFilter) ([]*models.Notification, error)
	FindNotification(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error)
	ListViolations(ctx context.Context, filter models.ViolationFilter) ([]*models.Violation, error)
	FindViolation(ctx context.Context, violationID id.ViolationID) (*models.Violation, error)
}

// Records serves notification and violation lookups.
type Records struct {
	store RecordStore
}

func NewRecords(store RecordStore) *Records {
	return &Records{store: store}
}

func (r *Records) ListNotifications(ctx context.Context, filter models.NotificationFilter) ([]*models.Notification, error) {
	notifications, err := r.store.ListNotifications(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return notifications, nil
}

func (r *Records) GetNotification(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	n, err := r.store.FindNotification(ctx, notificationID)
	if err != nil {
		return nil, wrapStoreErr(err, "notification")
	}
	return n, nil
}

func (r *Records) ListViolations(ctx context.Context, filter models.ViolationFilter) ([]*models.Violation, error) {
	violations, err := r.store.ListViolations(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list violations")
	}
	return violations, nil
}

func (r *Records) GetViolation(ctx context.Context, violationID id.ViolationID) (*models.Violation, error) {
	v, err := r.store.FindViolation(ctx, violationID)
	if err != nil {
		return nil, wrapStoreErr(err, "violation")
	}
	return v, nil
}

func wrapStoreErr(err error, kind string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, kind+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to get "+kind)
}
