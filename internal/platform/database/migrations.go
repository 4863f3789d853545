package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migration holds a single schema migration with its target version and
// per-dialect SQL.
type migration struct {
	version  int
	postgres string
	sqlite   string
}

// migrations is the ordered list of schema migrations.
// Versions must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		postgres: `
CREATE TABLE IF NOT EXISTS assets (
	id              UUID PRIMARY KEY,
	name            VARCHAR(200) NOT NULL CHECK (char_length(name) >= 2),
	description     TEXT,
	service_time    TIMESTAMPTZ NOT NULL,
	expiration_time TIMESTAMPTZ NOT NULL,
	is_serviced     BOOLEAN NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	CONSTRAINT service_before_expiration CHECK (service_time < expiration_time)
);
CREATE INDEX IF NOT EXISTS idx_assets_service_time ON assets(service_time);
CREATE INDEX IF NOT EXISTS idx_assets_expiration_time ON assets(expiration_time);
CREATE INDEX IF NOT EXISTS idx_assets_is_serviced ON assets(is_serviced);

CREATE TABLE IF NOT EXISTS notifications (
	id                UUID PRIMARY KEY,
	asset_id          UUID NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
	notification_type VARCHAR(20) NOT NULL CHECK (notification_type IN ('service', 'expiration')),
	message           TEXT NOT NULL,
	sent_at           TIMESTAMPTZ NOT NULL,
	CONSTRAINT unique_notification_per_asset_type UNIQUE (asset_id, notification_type)
);
CREATE INDEX IF NOT EXISTS idx_notifications_sent_at ON notifications(sent_at);

CREATE TABLE IF NOT EXISTS violations (
	id             UUID PRIMARY KEY,
	asset_id       UUID NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
	violation_type VARCHAR(20) NOT NULL CHECK (violation_type IN ('not_serviced', 'expired')),
	description    TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	CONSTRAINT unique_violation_per_asset_type UNIQUE (asset_id, violation_type)
);
CREATE INDEX IF NOT EXISTS idx_violations_created_at ON violations(created_at);
`,
		sqlite: `
CREATE TABLE IF NOT EXISTS assets (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL CHECK (length(name) BETWEEN 2 AND 200),
	description     TEXT,
	service_time    DATETIME NOT NULL,
	expiration_time DATETIME NOT NULL,
	is_serviced     BOOLEAN NOT NULL DEFAULT 0,
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL,
	CONSTRAINT service_before_expiration CHECK (service_time < expiration_time)
);
CREATE INDEX IF NOT EXISTS idx_assets_service_time ON assets(service_time);
CREATE INDEX IF NOT EXISTS idx_assets_expiration_time ON assets(expiration_time);
CREATE INDEX IF NOT EXISTS idx_assets_is_serviced ON assets(is_serviced);

CREATE TABLE IF NOT EXISTS notifications (
	id                TEXT PRIMARY KEY,
	asset_id          TEXT NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
	notification_type TEXT NOT NULL CHECK (notification_type IN ('service', 'expiration')),
	message           TEXT NOT NULL,
	sent_at           DATETIME NOT NULL,
	CONSTRAINT unique_notification_per_asset_type UNIQUE (asset_id, notification_type)
);
CREATE INDEX IF NOT EXISTS idx_notifications_sent_at ON notifications(sent_at);

CREATE TABLE IF NOT EXISTS violations (
	id             TEXT PRIMARY KEY,
	asset_id       TEXT NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
	violation_type TEXT NOT NULL CHECK (violation_type IN ('not_serviced', 'expired')),
	description    TEXT NOT NULL,
	created_at     DATETIME NOT NULL,
	CONSTRAINT unique_violation_per_asset_type UNIQUE (asset_id, violation_type)
);
CREATE INDEX IF NOT EXISTS idx_violations_created_at ON violations(created_at);
`,
	},
}

// Migrate checks the current schema version and applies any outstanding
// migrations in order, each in its own transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	if err := db.GetContext(ctx, &current, `SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	postgres := db.DriverName() == "postgres"
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		stmt := m.sqlite
		if postgres {
			stmt = m.postgres
		}
		if err := apply(ctx, db, m.version, stmt); err != nil {
			return err
		}
	}
	return nil
}

func apply(ctx context.Context, db *sqlx.DB, version int, stmt string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration v%d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("applying migration v%d: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO schema_version (version) VALUES (?)`), version); err != nil {
		return fmt.Errorf("recording migration v%d: %w", version, err)
	}
	return tx.Commit()
}
