package handler

import (
	"time"

	"assetguard/internal/asset/models"
)

// AssetResponse is the wire form of an asset. The derived flags are
// computed against the request time.
type AssetResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description"`
	ServiceTime      time.Time `json:"service_time"`
	ExpirationTime   time.Time `json:"expiration_time"`
	IsServiced       bool      `json:"is_serviced"`
	IsExpired        bool      `json:"is_expired"`
	IsServiceOverdue bool      `json:"is_service_overdue"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MarkServicedResponse is returned by POST /api/assets/{id}/mark-serviced.
type MarkServicedResponse struct {
	Message string        `json:"message"`
	Asset   AssetResponse `json:"asset"`
}

func toAssetResponse(a *models.Asset, now time.Time) AssetResponse {
	return AssetResponse{
		ID:               a.ID.String(),
		Name:             a.Name,
		Description:      a.Description,
		ServiceTime:      a.ServiceTime.UTC(),
		ExpirationTime:   a.ExpirationTime.UTC(),
		IsServiced:       a.IsServiced,
		IsExpired:        a.IsExpired(now),
		IsServiceOverdue: a.IsServiceOverdue(now),
		CreatedAt:        a.CreatedAt.UTC(),
		UpdatedAt:        a.UpdatedAt.UTC(),
	}
}
