package postgres

import (
	"context"
	"fmt"
)

// schemaStatements is the full DDL, ordered by dependency. Every statement
// is IF NOT EXISTS so InitSchema can run on every seed invocation.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name          TEXT NOT NULL,
		mail          TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		age           INT,
		icon          TEXT,
		address       TEXT,
		comment       TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS helpers (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name          TEXT NOT NULL,
		mail          TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		nickname      TEXT NOT NULL,
		phone_number  TEXT NOT NULL,
		relationship  TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS connections (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL REFERENCES users(id),
		helper_id  UUID NOT NULL REFERENCES helpers(id),
		status     TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'approved', 'rejected')),
		is_deleted BOOLEAN NOT NULL DEFAULT false,
		deleted_at TIMESTAMPTZ,
		deleted_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// At most one live connection per pair; retired rows don't count.
	// Backs the check-then-insert in the request flow: the loser of a race
	// gets a 23505, not a second pending row.
	`CREATE UNIQUE INDEX IF NOT EXISTS connections_active_pair
		ON connections (user_id, helper_id)
		WHERE is_deleted = false`,

	`CREATE TABLE IF NOT EXISTS emergency_contacts (
		user_id      UUID NOT NULL REFERENCES users(id),
		helper_id    UUID NOT NULL REFERENCES helpers(id),
		name         TEXT NOT NULL,
		relationship TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		mail         TEXT,
		address      TEXT,
		is_main      BOOLEAN NOT NULL DEFAULT false,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, helper_id)
	)`,

	`CREATE TABLE IF NOT EXISTS alerts (
		id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id              UUID NOT NULL REFERENCES users(id),
		title                TEXT NOT NULL,
		description          TEXT NOT NULL DEFAULT '',
		importance           INT NOT NULL DEFAULT 1,
		alert_type           TEXT NOT NULL DEFAULT '',
		checked_by_user_at   TIMESTAMPTZ,
		checked_by_helper_at TIMESTAMPTZ,
		checked_by_helper_id UUID,
		escalated_at         TIMESTAMPTZ,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS alerts_unescalated
		ON alerts (created_at)
		WHERE checked_by_helper_at IS NULL AND escalated_at IS NULL`,
}

// InitSchema creates the tables and indexes if they do not exist yet.
// Statements run one at a time so a failure names the statement that broke.
func InitSchema(ctx context.Context, pool Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w (statement: %.60s...)", err, stmt)
		}
	}
	return nil
}
