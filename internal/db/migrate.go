package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// migrations run in order inside one transaction. Each statement is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS contact_submissions (
	seq          BIGSERIAL   NOT NULL UNIQUE,
	id           TEXT        PRIMARY KEY,
	name         TEXT        NOT NULL,
	email        TEXT        NOT NULL,
	phone        TEXT        NOT NULL,
	country_code TEXT        NOT NULL,
	category     TEXT        NOT NULL,
	sub_category TEXT        NOT NULL,
	subject      TEXT        NOT NULL DEFAULT '',
	message      TEXT        NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
)`,
	`CREATE INDEX IF NOT EXISTS contact_submissions_recent_idx
	ON contact_submissions (created_at DESC, seq DESC)`,
	`CREATE TABLE IF NOT EXISTS notification_outbox (
	id            BIGSERIAL   PRIMARY KEY,
	submission_id TEXT        NOT NULL UNIQUE REFERENCES contact_submissions (id),
	status        TEXT        NOT NULL,
	attempts      INT         NOT NULL DEFAULT 0,
	last_error    TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS notification_outbox_pending_idx
	ON notification_outbox (status, created_at)`,
	`ALTER TABLE notification_outbox ADD COLUMN IF NOT EXISTS claimed_until TIMESTAMPTZ`,
}

// Migrate brings the schema up to date.
func (d *DB) Migrate(ctx context.Context) error {
	return pgx.BeginFunc(ctx, d.Pool, func(tx pgx.Tx) error {
		for i, stmt := range migrations {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d: %w", i+1, err)
			}
		}
		zap.S().Infow("schema up to date", "migrations", len(migrations))
		return nil
	})
}
