package repository

import (
	"database/sql"
	"fmt"
)

// Schema statements, applied in order on startup. Settlements carry no
// foreign key back to transactions: the audit trail must survive a
// cascading group deletion.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		mobile        TEXT NOT NULL DEFAULT '',
		currency      TEXT NOT NULL,
		debt          NUMERIC(12,2) NOT NULL DEFAULT 0,
		creation_time BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL UNIQUE,
		created_by    TEXT NOT NULL REFERENCES users(username),
		creation_time BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		username TEXT NOT NULL REFERENCES users(username),
		PRIMARY KEY (group_id, username)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		group_id      TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		event_name    TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		created_by    TEXT NOT NULL,
		creation_time BIGINT NOT NULL,
		PRIMARY KEY (group_id, event_name)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id            TEXT PRIMARY KEY,
		group_id      TEXT NOT NULL,
		event_name    TEXT NOT NULL,
		created_by    TEXT NOT NULL,
		owed_by       TEXT NOT NULL REFERENCES users(username),
		owed_to       TEXT NOT NULL REFERENCES users(username),
		amount        NUMERIC(12,2) NOT NULL CHECK (amount > 0),
		reason        TEXT NOT NULL DEFAULT '',
		is_paid       BOOLEAN NOT NULL DEFAULT FALSE,
		receipt_ref   TEXT,
		creation_time BIGINT NOT NULL,
		FOREIGN KEY (group_id, event_name) REFERENCES events(group_id, event_name) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_event ON transactions (group_id, event_name)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_owed_by ON transactions (owed_by) WHERE is_paid = FALSE`,
	`CREATE TABLE IF NOT EXISTS settlements (
		id             BIGSERIAL PRIMARY KEY,
		transaction_id TEXT NOT NULL,
		group_id       TEXT NOT NULL,
		event_name     TEXT NOT NULL,
		owed_by        TEXT NOT NULL,
		owed_to        TEXT NOT NULL,
		amount         NUMERIC(12,2) NOT NULL,
		currency       TEXT NOT NULL,
		reason         TEXT NOT NULL DEFAULT '',
		settled_at     BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_settlements_parties ON settlements (owed_by, owed_to)`,
}

// EnsureSchema creates the ledger tables if they do not exist yet
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
