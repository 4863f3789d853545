// Package domain holds typed identifiers shared across modules.
//
// IDs wrap uuid.UUID so an AssetID can never be passed where a NotificationID
// is expected. Parsing happens once at the trust boundary (HTTP path/query).
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "assetguard/pkg/domain-errors"
)

type (
	AssetID        uuid.UUID
	NotificationID uuid.UUID
	ViolationID    uuid.UUID
)

func NewAssetID() AssetID               { return AssetID(uuid.New()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }
func NewViolationID() ViolationID       { return ViolationID(uuid.New()) }

func (i AssetID) String() string        { return uuid.UUID(i).String() }
func (i NotificationID) String() string { return uuid.UUID(i).String() }
func (i ViolationID) String() string    { return uuid.UUID(i).String() }

func (i AssetID) IsNil() bool        { return uuid.UUID(i) == uuid.Nil }
func (i NotificationID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }
func (i ViolationID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }

func (i AssetID) MarshalText() ([]byte, error) { return uuid.UUID(i).MarshalText() }
func (i *AssetID) UnmarshalText(b []byte) error {
	parsed, err := ParseAssetID(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

func (i NotificationID) MarshalText() ([]byte, error) { return uuid.UUID(i).MarshalText() }
func (i *NotificationID) UnmarshalText(b []byte) error {
	parsed, err := ParseNotificationID(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

func (i ViolationID) MarshalText() ([]byte, error) { return uuid.UUID(i).MarshalText() }
func (i *ViolationID) UnmarshalText(b []byte) error {
	parsed, err := ParseViolationID(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// ParseAssetID parses a non-nil UUID string into an AssetID.
func ParseAssetID(s string) (AssetID, error) {
	u, err := parseUUID(s, "asset")
	return AssetID(u), err
}

// ParseNotificationID parses a non-nil UUID string into a NotificationID.
func ParseNotificationID(s string) (NotificationID, error) {
	u, err := parseUUID(s, "notification")
	return NotificationID(u), err
}

// ParseViolationID parses a non-nil UUID string into a ViolationID.
func ParseViolationID(s string) (ViolationID, error) {
	u, err := parseUUID(s, "violation")
	return ViolationID(u), err
}

func parseUUID(s, kind string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be nil")
	}
	return u, nil
}
