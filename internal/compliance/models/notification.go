package models

import (
	"time"

	id "assetguard/pkg/domain"
	dErrors "assetguard/pkg/domain-errors"
)

// NotificationType names the upcoming deadline a notification describes.
type NotificationType string

const (
	NotificationTypeService    NotificationType = "service"
	NotificationTypeExpiration NotificationType = "expiration"
)

func (t NotificationType) IsValid() bool {
	return t == NotificationTypeService || t == NotificationTypeExpiration
}

// Label is the human-readable name of the type.
func (t NotificationType) Label() string {
	switch t {
	case NotificationTypeService:
		return "Service Reminder"
	case NotificationTypeExpiration:
		return "Expiration Reminder"
	default:
		return string(t)
	}
}

// ParseNotificationType validates a type received at the HTTP boundary.
func ParseNotificationType(s string) (NotificationType, error) {
	t := NotificationType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "notification type must be one of: service, expiration")
	}
	return t, nil
}

// Notification records that an upcoming deadline was observed. At most one
// exists per (AssetID, Type); it is never updated.
type Notification struct {
	ID        id.NotificationID `json:"id"`
	AssetID   id.AssetID        `json:"asset_id"`
	AssetName string            `json:"asset_name"`
	Type      NotificationType  `json:"notification_type"`
	Message   string            `json:"message"`
	SentAt    time.Time         `json:"sent_at"`
}

func (n *Notification) String() string {
	return n.Type.Label() + " for " + n.AssetName
}
