package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
)

func (s *Store) SettleInvoice(ctx context.Context, st *models.Settlement) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := transition(ctx, tx, st.InvoiceID, models.FUNDED, models.COMPLETED, st.SettledAt); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE escrow_records SET payout_amount = $1, released_at = $2
			WHERE invoice_id = $3 AND id = $4 AND released_at IS NULL`,
			st.PayoutAmount, st.SettledAt.UTC(), st.InvoiceID, st.EscrowID)
		if err != nil {
			return fmt.Errorf("failed to release escrow: %w", err)
		}
		if err := expectOneRow(res); err != nil {
			return err
		}

		for _, e := range st.Entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO ledger_entries (entry_id, invoice_id, account_id, debit, credit, currency, description, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				e.EntryID, e.InvoiceID, e.AccountID, e.Debit, e.Credit, e.Currency, e.Description, e.Timestamp.UTC())
			if err != nil {
				return fmt.Errorf("failed to insert ledger entry: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	query := `SELECT entry_id, invoice_id, account_id, debit, credit, currency, description, created_at
		FROM ledger_entries ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query for ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0)
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.EntryID, &e.InvoiceID, &e.AccountID, &e.Debit, &e.Credit, &e.Currency, &e.Description, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}
