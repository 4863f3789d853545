package models

import (
	"time"

	id "assetguard/pkg/domain"
	dErrors "assetguard/pkg/domain-errors"
)

// ViolationType names the deadline a violation reports as missed.
type ViolationType string

const (
	ViolationTypeNotServiced ViolationType = "not_serviced"
	ViolationTypeExpired     ViolationType = "expired"
)

func (t ViolationType) IsValid() bool {
	return t == ViolationTypeNotServiced || t == ViolationTypeExpired
}

func (t ViolationType) Label() string {
	switch t {
	case ViolationTypeNotServiced:
		return "Service Overdue"
	case ViolationTypeExpired:
		return "Asset Expired"
	default:
		return string(t)
	}
}

// ParseViolationType validates a type received at the HTTP boundary.
func ParseViolationType(s string) (ViolationType, error) {
	t := ViolationType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "violation type must be one of: not_serviced, expired")
	}
	return t, nil
}

// Violation records that a deadline was missed. At most one exists per
// (AssetID, Type); it is never updated.
type Violation struct {
	ID          id.ViolationID `json:"id"`
	AssetID     id.AssetID     `json:"asset_id"`
	AssetName   string         `json:"asset_name"`
	Type        ViolationType  `json:"violation_type"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (v *Violation) String() string {
	return v.Type.Label() + " for " + v.AssetName
}
