package models

import (
	"bytes"
	"encoding/json"
	"time"

	dErrors "assetguard/pkg/domain-errors"
)

// CreateAssetRequest is the body of POST /api/assets.
type CreateAssetRequest struct {
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	ServiceTime    *time.Time `json:"service_time"`
	ExpirationTime *time.Time `json:"expiration_time"`
}

// Validate checks presence of required fields. Value rules live in NewAsset.
func (r *CreateAssetRequest) Validate() error {
	if r.ServiceTime == nil {
		return dErrors.New(dErrors.CodeValidation, "service_time is required")
	}
	if r.ExpirationTime == nil {
		return dErrors.New(dErrors.CodeValidation, "expiration_time is required")
	}
	return nil
}

// UpdateAssetRequest is the body of PUT /api/assets/{id}; every field is
// replaced.
type UpdateAssetRequest struct {
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	ServiceTime    *time.Time `json:"service_time"`
	ExpirationTime *time.Time `json:"expiration_time"`
}

func (r *UpdateAssetRequest) Validate() error {
	if r.ServiceTime == nil {
		return dErrors.New(dErrors.CodeValidation, "service_time is required")
	}
	if r.ExpirationTime == nil {
		return dErrors.New(dErrors.CodeValidation, "expiration_time is required")
	}
	return nil
}

// Changes converts a full update into a change set.
func (r *UpdateAssetRequest) Changes() Changes {
	description := r.Description
	return Changes{
		Name:           &r.Name,
		Description:    &description,
		ServiceTime:    r.ServiceTime,
		ExpirationTime: r.ExpirationTime,
	}
}

// PatchAssetRequest is the body of PATCH /api/assets/{id}. Absent keys are
// left unchanged; "description": null clears the description.
type PatchAssetRequest struct {
	Name           *string
	Description    **string
	ServiceTime    *time.Time
	ExpirationTime *time.Time
}

func (r *PatchAssetRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["name"]; ok {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return err
		}
		r.Name = &name
	}
	if v, ok := raw["description"]; ok {
		var description *string
		if !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			var d string
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			description = &d
		}
		r.Description = &description
	}
	if v, ok := raw["service_time"]; ok {
		var t time.Time
		if err := json.Unmarshal(v, &t); err != nil {
			return err
		}
		r.ServiceTime = &t
	}
	if v, ok := raw["expiration_time"]; ok {
		var t time.Time
		if err := json.Unmarshal(v, &t); err != nil {
			return err
		}
		r.ExpirationTime = &t
	}
	return nil
}

// Changes converts the patch into a change set.
func (r *PatchAssetRequest) Changes() Changes {
	return Changes{
		Name:           r.Name,
		Description:    r.Description,
		ServiceTime:    r.ServiceTime,
		ExpirationTime: r.ExpirationTime,
	}
}
