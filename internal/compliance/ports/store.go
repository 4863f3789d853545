package ports

import (
	"context"

	assetmodels "assetguard/internal/asset/models"
	"assetguard/internal/compliance/models"
)

// Store is the view of persistence a compliance run works against. Every
// call made through one Store value belongs to the same transaction.
type Store interface {
	// ListAssets returns every asset as of the start of the scan.
	ListAssets(ctx context.Context) ([]*assetmodels.Asset, error)

	// CreateNotificationIfAbsent inserts n unless a notification with the
	// same (AssetID, Type) exists. inserted reports whether a row was written.
	// An existing row is not an error.
	CreateNotificationIfAbsent(ctx context.Context, n *models.Notification) (inserted bool, err error)

	// CreateViolationIfAbsent is the violation counterpart of
	// CreateNotificationIfAbsent.
	CreateViolationIfAbsent(ctx context.Context, v *models.Violation) (inserted bool, err error)
}

// StoreTx runs fn as one atomic unit: everything fn wrote is committed when
// it returns nil and discarded otherwise.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(store Store) error) error
}
