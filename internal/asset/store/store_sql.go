package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"assetguard/internal/asset/models"
	"assetguard/internal/platform/database"
	id "assetguard/pkg/domain"
	"assetguard/pkg/platform/sentinel"
)

// SQLStore persists assets in Postgres or SQLite. It binds to either a
// *sqlx.DB or a *sqlx.Tx so the compliance engine can read assets inside
// its own transaction.
type SQLStore struct {
	db sqlx.ExtContext
}

// NewSQL constructs a SQL-backed asset store.
func NewSQL(db sqlx.ExtContext) *SQLStore {
	return &SQLStore{db: db}
}

type assetRow struct {
	ID             uuid.UUID      `db:"id"`
	Name           string         `db:"name"`
	Description    sql.NullString `db:"description"`
	ServiceTime    time.Time      `db:"service_time"`
	ExpirationTime time.Time      `db:"expiration_time"`
	IsServiced     bool           `db:"is_serviced"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r assetRow) toModel() *models.Asset {
	a := &models.Asset{
		ID:             id.AssetID(r.ID),
		Name:           r.Name,
		ServiceTime:    r.ServiceTime.UTC(),
		ExpirationTime: r.ExpirationTime.UTC(),
		IsServiced:     r.IsServiced,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
	if r.Description.Valid {
		d := r.Description.String
		a.Description = &d
	}
	return a
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

const selectAssets = `SELECT id, name, description, service_time, expiration_time, is_serviced, created_at, updated_at FROM assets`

func (s *SQLStore) Create(ctx context.Context, asset *models.Asset) error {
	query := s.db.Rebind(`INSERT INTO assets (id, name, description, service_time, expiration_time, is_serviced, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(asset.ID), asset.Name, nullString(asset.Description),
		asset.ServiceTime.UTC(), asset.ExpirationTime.UTC(), asset.IsServiced,
		asset.CreatedAt.UTC(), asset.UpdatedAt.UTC(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("asset %s: %w", asset.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (s *SQLStore) FindByID(ctx context.Context, assetID id.AssetID) (*models.Asset, error) {
	var row assetRow
	err := sqlx.GetContext(ctx, s.db, &row, s.db.Rebind(selectAssets+` WHERE id = ?`), uuid.UUID(assetID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find asset: %w", err)
	}
	return row.toModel(), nil
}

// ListAll returns every asset, newest first.
func (s *SQLStore) ListAll(ctx context.Context) ([]*models.Asset, error) {
	var rows []assetRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, selectAssets+` ORDER BY created_at DESC, id`); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	out := make([]*models.Asset, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *SQLStore) Update(ctx context.Context, asset *models.Asset) error {
	query := s.db.Rebind(`UPDATE assets SET name = ?, description = ?, service_time = ?, expiration_time = ?,
		is_serviced = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query,
		asset.Name, nullString(asset.Description), asset.ServiceTime.UTC(), asset.ExpirationTime.UTC(),
		asset.IsServiced, asset.UpdatedAt.UTC(), uuid.UUID(asset.ID),
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	return requireOneRow(res)
}

// Delete removes the asset; its notifications and violations go with it
// through ON DELETE CASCADE.
func (s *SQLStore) Delete(ctx context.Context, assetID id.AssetID) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM assets WHERE id = ?`), uuid.UUID(assetID))
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("asset not found: %w", sentinel.ErrNotFound)
	}
	return nil
}
