package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// migrations are applied in order; each statement is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS invoices (
		id                      TEXT PRIMARY KEY,
		provider_id             TEXT NOT NULL,
		provider_name           TEXT NOT NULL,
		patient_id              TEXT,
		patient_name            TEXT,
		service_description     TEXT NOT NULL,
		amount                  NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		currency                CHAR(3) NOT NULL,
		issue_date              DATE NOT NULL,
		due_date                DATE NOT NULL,
		attachment_file_name    TEXT,
		attachment_content_type TEXT,
		attachment_sha256       TEXT,
		status                  TEXT NOT NULL,
		tokenization            JSONB,
		created_at              TIMESTAMPTZ NOT NULL,
		updated_at              TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS invoices_status_updated_at_idx ON invoices (status, updated_at)`,
	`CREATE TABLE IF NOT EXISTS funding_offers (
		invoice_id TEXT PRIMARY KEY REFERENCES invoices (id),
		id         TEXT NOT NULL UNIQUE,
		funder_id  TEXT NOT NULL,
		amount     NUMERIC(18,2) NOT NULL,
		currency   CHAR(3) NOT NULL,
		offered_at TIMESTAMPTZ NOT NULL,
		tx_hash    TEXT,
		anchor     JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS funding_offers_funder_id_idx ON funding_offers (funder_id, offered_at)`,
	`CREATE TABLE IF NOT EXISTS escrow_records (
		invoice_id        TEXT PRIMARY KEY REFERENCES invoices (id),
		id                TEXT NOT NULL UNIQUE,
		funder_id         TEXT NOT NULL,
		held_amount       NUMERIC(18,2) NOT NULL,
		currency          CHAR(3) NOT NULL,
		release_condition TEXT NOT NULL,
		payout_amount     NUMERIC(18,2),
		created_at        TIMESTAMPTZ NOT NULL,
		released_at       TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		entry_id    TEXT PRIMARY KEY,
		invoice_id  TEXT NOT NULL REFERENCES invoices (id),
		account_id  TEXT NOT NULL,
		debit       NUMERIC(18,2) NOT NULL DEFAULT 0,
		credit      NUMERIC(18,2) NOT NULL DEFAULT 0,
		currency    CHAR(3) NOT NULL,
		description TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ledger_entries_created_at_idx ON ledger_entries (created_at DESC)`,
}

// Migrate creates the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
	}
	slog.InfoContext(ctx, "schema migrated", "statements", len(migrations))
	return nil
}
