package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	id "assetguard/pkg/domain"
	dErrors "assetguard/pkg/domain-errors"
)

const (
	MinNameLength = 2
	MaxNameLength = 200
)

// Asset is a tracked item that must be serviced by ServiceTime and stops
// being valid at ExpirationTime.
//
// Invariants:
//   - Name is trimmed and between MinNameLength and MaxNameLength runes
//   - ServiceTime is strictly before ExpirationTime
//   - IsServiced only changes through MarkServiced
//   - CreatedAt is immutable after construction
type Asset struct {
	ID             id.AssetID `json:"id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	ServiceTime    time.Time  `json:"service_time"`
	ExpirationTime time.Time  `json:"expiration_time"`
	IsServiced     bool       `json:"is_serviced"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewAsset validates the inputs and constructs an unserviced asset. Both
// deadlines must lie strictly after now.
func NewAsset(assetID id.AssetID, name string, description *string, serviceTime, expirationTime, now time.Time) (*Asset, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !serviceTime.After(now) {
		return nil, dErrors.New(dErrors.CodeValidation, "service_time must be in the future")
	}
	if !expirationTime.After(now) {
		return nil, dErrors.New(dErrors.CodeValidation, "expiration_time must be in the future")
	}
	if err := validateDeadlines(serviceTime, expirationTime); err != nil {
		return nil, err
	}
	return &Asset{
		ID:             assetID,
		Name:           name,
		Description:    normalizeDescription(description),
		ServiceTime:    serviceTime.UTC(),
		ExpirationTime: expirationTime.UTC(),
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}, nil
}

// IsExpired reports whether the expiration deadline has passed.
func (a *Asset) IsExpired(now time.Time) bool {
	return now.After(a.ExpirationTime)
}

// IsServiceOverdue reports whether the service deadline passed without the
// asset being serviced.
func (a *Asset) IsServiceOverdue(now time.Time) bool {
	return now.After(a.ServiceTime) && !a.IsServiced
}

// ApplyChanges overwrites the mutable fields after validation. Deadlines are
// not required to lie in the future on update.
func (a *Asset) ApplyChanges(changes Changes, now time.Time) error {
	name := a.Name
	if changes.Name != nil {
		name = strings.TrimSpace(*changes.Name)
	}
	serviceTime := a.ServiceTime
	if changes.ServiceTime != nil {
		serviceTime = changes.ServiceTime.UTC()
	}
	expirationTime := a.ExpirationTime
	if changes.ExpirationTime != nil {
		expirationTime = changes.ExpirationTime.UTC()
	}

	if err := validateName(name); err != nil {
		return err
	}
	if err := validateDeadlines(serviceTime, expirationTime); err != nil {
		return err
	}

	a.Name = name
	a.ServiceTime = serviceTime
	a.ExpirationTime = expirationTime
	if changes.Description != nil {
		a.Description = normalizeDescription(*changes.Description)
	}
	a.UpdatedAt = now.UTC()
	return nil
}

// MarkServiced records that the asset has been serviced.
func (a *Asset) MarkServiced(now time.Time) {
	a.IsServiced = true
	a.UpdatedAt = now.UTC()
}

func (a *Asset) String() string {
	return fmt.Sprintf("%s (Service: %s, Expires: %s)", a.Name,
		a.ServiceTime.UTC().Format(time.RFC3339), a.ExpirationTime.UTC().Format(time.RFC3339))
}

// Changes carries the fields an update may touch. A nil field is left as is.
// Description is a double pointer so a patch can clear it with null.
type Changes struct {
	Name           *string
	Description    **string
	ServiceTime    *time.Time
	ExpirationTime *time.Time
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinNameLength {
		return dErrors.New(dErrors.CodeValidation, "name must be at least 2 characters")
	}
	if n > MaxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name must be 200 characters or less")
	}
	return nil
}

func validateDeadlines(serviceTime, expirationTime time.Time) error {
	if serviceTime.IsZero() || expirationTime.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "service_time and expiration_time are required")
	}
	if !serviceTime.Before(expirationTime) {
		return dErrors.New(dErrors.CodeValidation, "service_time must be before expiration_time")
	}
	return nil
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return nil
	}
	return &d
}
