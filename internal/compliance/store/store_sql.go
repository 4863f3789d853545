package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"assetguard/internal/compliance/models"
	"assetguard/internal/platform/database"
	id "assetguard/pkg/domain"
	"assetguard/pkg/platform/sentinel"
)

// SQLStore persists notifications and violations in Postgres or SQLite.
// Uniqueness per (asset, type) is a table constraint, so concurrent writers
// are arbitrated by the database.
type SQLStore struct {
	db sqlx.ExtContext
}

// NewSQL constructs a SQL record store bound to a *sqlx.DB or *sqlx.Tx.
func NewSQL(db sqlx.ExtContext) *SQLStore {
	return &SQLStore{db: db}
}

type notificationRow struct {
	ID        uuid.UUID `db:"id"`
	AssetID   uuid.UUID `db:"asset_id"`
	AssetName string    `db:"asset_name"`
	Type      string    `db:"notification_type"`
	Message   string    `db:"message"`
	SentAt    time.Time `db:"sent_at"`
}

func (r notificationRow) toModel() *models.Notification {
	return &models.Notification{
		ID:        id.NotificationID(r.ID),
		AssetID:   id.AssetID(r.AssetID),
		AssetName: r.AssetName,
		Type:      models.NotificationType(r.Type),
		Message:   r.Message,
		SentAt:    r.SentAt.UTC(),
	}
}

type violationRow struct {
	ID          uuid.UUID `db:"id"`
	AssetID     uuid.UUID `db:"asset_id"`
	AssetName   string    `db:"asset_name"`
	Type        string    `db:"violation_type"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r violationRow) toModel() *models.Violation {
	return &models.Violation{
		ID:          id.ViolationID(r.ID),
		AssetID:     id.AssetID(r.AssetID),
		AssetName:   r.AssetName,
		Type:        models.ViolationType(r.Type),
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

const (
	insertNotification = `INSERT INTO notifications (id, asset_id, notification_type, message, sent_at) VALUES (?, ?, ?, ?, ?)`
	insertViolation    = `INSERT INTO violations (id, asset_id, violation_type, description, created_at) VALUES (?, ?, ?, ?, ?)`

	selectNotifications = `SELECT n.id, n.asset_id, a.name AS asset_name, n.notification_type, n.message, n.sent_at
		FROM notifications n JOIN assets a ON a.id = n.asset_id`
	selectViolations = `SELECT v.id, v.asset_id, a.name AS asset_name, v.violation_type, v.description, v.created_at
		FROM violations v JOIN assets a ON a.id = v.asset_id`
)

// InsertNotification adds n, failing with ErrConflict when (asset, type)
// already has a notification.
func (s *SQLStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(insertNotification),
		uuid.UUID(n.ID), uuid.UUID(n.AssetID), string(n.Type), n.Message, n.SentAt.UTC())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("notification %s for asset %s: %w", n.Type, n.AssetID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// CreateNotificationIfAbsent inserts n unless (asset, type) already exists.
// The existence check and the insert are one statement.
func (s *SQLStore) CreateNotificationIfAbsent(ctx context.Context, n *models.Notification) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(insertNotification+` ON CONFLICT (asset_id, notification_type) DO NOTHING`),
		uuid.UUID(n.ID), uuid.UUID(n.AssetID), string(n.Type), n.Message, n.SentAt.UTC())
	if err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}
	return inserted(res)
}

func (s *SQLStore) InsertViolation(ctx context.Context, v *models.Violation) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(insertViolation),
		uuid.UUID(v.ID), uuid.UUID(v.AssetID), string(v.Type), v.Description, v.CreatedAt.UTC())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("violation %s for asset %s: %w", v.Type, v.AssetID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert violation: %w", err)
	}
	return nil
}

func (s *SQLStore) CreateViolationIfAbsent(ctx context.Context, v *models.Violation) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(insertViolation+` ON CONFLICT (asset_id, violation_type) DO NOTHING`),
		uuid.UUID(v.ID), uuid.UUID(v.AssetID), string(v.Type), v.Description, v.CreatedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("create violation: %w", err)
	}
	return inserted(res)
}

func (s *SQLStore) ListNotifications(ctx context.Context, filter models.NotificationFilter) ([]*models.Notification, error) {
	var (
		where []string
		args  []any
	)
	if filter.AssetID != nil {
		where = append(where, "n.asset_id = ?")
		args = append(args, uuid.UUID(*filter.AssetID))
	}
	if filter.Type != "" {
		where = append(where, "n.notification_type = ?")
		args = append(args, string(filter.Type))
	}
	query := selectNotifications + whereClause(where) + ` ORDER BY n.sent_at DESC, n.id`

	var rows []notificationRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := make([]*models.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *SQLStore) FindNotification(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	var row notificationRow
	err := sqlx.GetContext(ctx, s.db, &row, s.db.Rebind(selectNotifications+` WHERE n.id = ?`), uuid.UUID(notificationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("notification not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find notification: %w", err)
	}
	return row.toModel(), nil
}

func (s *SQLStore) ListViolations(ctx context.Context, filter models.ViolationFilter) ([]*models.Violation, error) {
	var (
		where []string
		args  []any
	)
	if filter.AssetID != nil {
		where = append(where, "v.asset_id = ?")
		args = append(args, uuid.UUID(*filter.AssetID))
	}
	if filter.Type != "" {
		where = append(where, "v.violation_type = ?")
		args = append(args, string(filter.Type))
	}
	query := selectViolations + whereClause(where) + ` ORDER BY v.created_at DESC, v.id`

	var rows []violationRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list violations: %w", err)
	}
	out := make([]*models.Violation, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *SQLStore) FindViolation(ctx context.Context, violationID id.ViolationID) (*models.Violation, error) {
	var row violationRow
	err := sqlx.GetContext(ctx, s.db, &row, s.db.Rebind(selectViolations+` WHERE v.id = ?`), uuid.UUID(violationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("violation not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find violation: %w", err)
	}
	return row.toModel(), nil
}

// DeleteByAsset removes the asset's records. Deleting the asset row already
// cascades; this exists for callers that clear records explicitly.
func (s *SQLStore) DeleteByAsset(ctx context.Context, assetID id.AssetID) error {
	for _, table := range []string{"notifications", "violations"} {
		if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM `+table+` WHERE asset_id = ?`), uuid.UUID(assetID)); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func inserted(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
