package store

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	assetmodels "assetguard/internal/asset/models"
	assetstore "assetguard/internal/asset/store"
	"assetguard/internal/compliance/models"
	"assetguard/internal/compliance/ports"
	id "assetguard/pkg/domain"
	dErrors "assetguard/pkg/domain-errors"
	"assetguard/pkg/platform/tx"
)

// SQLTx runs each compliance run in one database transaction.
type SQLTx struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewSQLTx constructs a transaction runner. A zero timeout uses
// tx.DefaultTimeout when the caller's context has no deadline.
func NewSQLTx(db *sqlx.DB, timeout time.Duration) *SQLTx {
	return &SQLTx{db: db, timeout: timeout}
}

func (t *SQLTx) RunInTx(ctx context.Context, fn func(store ports.Store) error) error {
	return tx.Run(ctx, t.db, t.timeout, func(sqlTx *sqlx.Tx) error {
		return fn(&sqlUnit{
			assets:  assetstore.NewSQL(sqlTx),
			records: NewSQL(sqlTx),
		})
	})
}

// sqlUnit binds the asset and record stores to the same transaction.
type sqlUnit struct {
	assets  *assetstore.SQLStore
	records *SQLStore
}

func (u *sqlUnit) ListAssets(ctx context.Context) ([]*assetmodels.Asset, error) {
	return u.assets.ListAll(ctx)
}

func (u *sqlUnit) CreateNotificationIfAbsent(ctx context.Context, n *models.Notification) (bool, error) {
	return u.records.CreateNotificationIfAbsent(ctx, n)
}

func (u *sqlUnit) CreateViolationIfAbsent(ctx context.Context, v *models.Violation) (bool, error) {
	return u.records.CreateViolationIfAbsent(ctx, v)
}

// AssetLister supplies the asset snapshot for a memory-backed run.
type AssetLister interface {
	ListAll(ctx context.Context) ([]*assetmodels.Asset, error)
}

// defaultMemoryTxTimeout is the maximum duration for an in-memory run.
const defaultMemoryTxTimeout = 30 * time.Second

// MemoryTx serializes runs behind a single lock and undoes a failed run's
// inserts from a journal.
type MemoryTx struct {
	mu      sync.Mutex
	assets  AssetLister
	records *InMemoryStore
	timeout time.Duration
}

func NewMemoryTx(assets AssetLister, records *InMemoryStore) *MemoryTx {
	return &MemoryTx{assets: assets, records: records}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(store ports.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultMemoryTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	j := &journal{assets: t.assets, records: t.records}
	if err := fn(j); err != nil {
		j.undo()
		return err
	}
	if err := ctx.Err(); err != nil {
		j.undo()
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return nil
}

// GuardedAssets deletes assets only between runs. Once Delete returns, no
// later run can see the asset, so cascading its records afterwards leaves
// nothing behind.
type GuardedAssets struct {
	*assetstore.InMemoryStore
	tx *MemoryTx
}

// GuardAssets wraps assets so their deletes wait for any in-flight run.
func (t *MemoryTx) GuardAssets(assets *assetstore.InMemoryStore) *GuardedAssets {
	return &GuardedAssets{InMemoryStore: assets, tx: t}
}

func (g *GuardedAssets) Delete(ctx context.Context, assetID id.AssetID) error {
	g.tx.mu.Lock()
	defer g.tx.mu.Unlock()
	return g.InMemoryStore.Delete(ctx, assetID)
}

// journal records what a run inserted so the run can be undone.
type journal struct {
	assets        AssetLister
	records       *InMemoryStore
	notifications []*models.Notification
	violations    []*models.Violation
}

func (j *journal) ListAssets(ctx context.Context) ([]*assetmodels.Asset, error) {
	return j.assets.ListAll(ctx)
}

func (j *journal) CreateNotificationIfAbsent(ctx context.Context, n *models.Notification) (bool, error) {
	ok, err := j.records.CreateNotificationIfAbsent(ctx, n)
	if ok {
		j.notifications = append(j.notifications, n)
	}
	return ok, err
}

func (j *journal) CreateViolationIfAbsent(ctx context.Context, v *models.Violation) (bool, error) {
	ok, err := j.records.CreateViolationIfAbsent(ctx, v)
	if ok {
		j.violations = append(j.violations, v)
	}
	return ok, err
}

func (j *journal) undo() {
	for _, n := range j.notifications {
		j.records.removeNotification(notificationKey{n.AssetID, n.Type}, n.ID)
	}
	for _, v := range j.violations {
		j.records.removeViolation(violationKey{v.AssetID, v.Type}, v.ID)
	}
}
