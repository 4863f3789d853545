package handler

import (
	"net/http"

	"assetguard/internal/compliance/models"
	id "assetguard/pkg/domain"
)

// notificationFilter reads ?asset= and ?type= from the query string.
func notificationFilter(r *http.Request) (models.NotificationFilter, error) {
	var filter models.NotificationFilter
	q := r.URL.Query()
	if raw := q.Get("asset"); raw != "" {
		assetID, err := id.ParseAssetID(raw)
		if err != nil {
			return filter, err
		}
		filter.AssetID = &assetID
	}
	if raw := q.Get("type"); raw != "" {
		t, err := models.ParseNotificationType(raw)
		if err != nil {
			return filter, err
		}
		filter.Type = t
	}
	return filter, nil
}

func violationFilter(r *http.Request) (models.ViolationFilter, error) {
	var filter models.ViolationFilter
	q := r.URL.Query()
	if raw := q.Get("asset"); raw != "" {
		assetID, err := id.ParseAssetID(raw)
		if err != nil {
			return filter, err
		}
		filter.AssetID = &assetID
	}
	if raw := q.Get("type"); raw != "" {
		t, err := models.ParseViolationType(raw)
		if err != nil {
			return filter, err
		}
		filter.Type = t
	}
	return filter, nil
}
