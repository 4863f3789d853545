package models

import id "assetguard/pkg/domain"

// NotificationFilter narrows a notification listing. Zero values match all.
type NotificationFilter struct {
	AssetID *id.AssetID
	Type    NotificationType
}

// ViolationFilter narrows a violation listing. Zero values match all.
type ViolationFilter struct {
	AssetID *id.AssetID
	Type    ViolationType
}
