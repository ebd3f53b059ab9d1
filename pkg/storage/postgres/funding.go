package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
	"github.com/shopspring/decimal"
)

const offerColumns = `id, invoice_id, funder_id, amount, currency, offered_at, tx_hash, anchor`

func scanOffer(row rowScanner) (*models.FundingOffer, error) {
	var (
		o      models.FundingOffer
		txHash sql.NullString
		anchor []byte
	)
	if err := row.Scan(&o.ID, &o.InvoiceID, &o.FunderID, &o.Amount, &o.Currency, &o.OfferedAt, &txHash, &anchor); err != nil {
		return nil, err
	}
	o.TxHash = txHash.String
	if len(anchor) > 0 {
		var a models.ChainAnchor
		if err := json.Unmarshal(anchor, &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal funding anchor: %w", err)
		}
		o.Anchor = &a
	}
	return &o, nil
}

func (s *Store) GetFundingOffer(ctx context.Context, invoiceID string) (*models.FundingOffer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM funding_offers WHERE invoice_id = $1`, invoiceID)
	o, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("funding offer for invoice %s: %w", invoiceID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get funding offer: %w", err)
	}
	return o, nil
}

func (s *Store) GetEscrow(ctx context.Context, invoiceID string) (*models.EscrowRecord, error) {
	var (
		e         models.EscrowRecord
		condition string
		payout    decimal.NullDecimal
		released  sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, invoice_id, funder_id, held_amount, currency, release_condition, payout_amount, created_at, released_at
		FROM escrow_records WHERE invoice_id = $1`, invoiceID,
	).Scan(&e.ID, &e.InvoiceID, &e.FunderID, &e.HeldAmount, &e.Currency, &condition, &payout, &e.CreatedAt, &released)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("escrow for invoice %s: %w", invoiceID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get escrow: %w", err)
	}

	e.ReleaseCondition = models.ReleaseCondition(condition)
	if payout.Valid {
		e.PayoutAmount = &payout.Decimal
	}
	if released.Valid {
		e.ReleasedAt = &released.Time
	}
	return &e, nil
}

func (s *Store) ListFundingOffersByFunder(ctx context.Context, funderID string) ([]models.FundingOffer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+offerColumns+` FROM funding_offers WHERE funder_id = $1 ORDER BY offered_at`, funderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query funding offers by funder ID: %w", err)
	}
	defer rows.Close()

	offers := make([]models.FundingOffer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funding offer: %w", err)
		}
		offers = append(offers, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate funding offers: %w", err)
	}
	return offers, nil
}

func (s *Store) ClaimFunding(ctx context.Context, offer *models.FundingOffer, escrow *models.EscrowRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := transition(ctx, tx, offer.InvoiceID, models.TOKENIZED, models.FUNDING, time.Now()); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO funding_offers (id, invoice_id, funder_id, amount, currency, offered_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			offer.ID, offer.InvoiceID, offer.FunderID, offer.Amount, offer.Currency, offer.OfferedAt.UTC())
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrStatusConflict
			}
			return fmt.Errorf("failed to insert funding offer: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO escrow_records (id, invoice_id, funder_id, held_amount, currency, release_condition, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			escrow.ID, escrow.InvoiceID, escrow.FunderID, escrow.HeldAmount, escrow.Currency,
			string(escrow.ReleaseCondition), escrow.CreatedAt.UTC())
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrStatusConflict
			}
			return fmt.Errorf("failed to insert escrow: %w", err)
		}
		return nil
	})
}

func (s *Store) ConfirmFunding(ctx context.Context, invoiceID, offerID string, anchor *models.ChainAnchor) error {
	payload, err := json.Marshal(anchor)
	if err != nil {
		return fmt.Errorf("failed to marshal funding anchor: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := transition(ctx, tx, invoiceID, models.FUNDING, models.FUNDED, time.Now()); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE funding_offers SET tx_hash = $1, anchor = $2 WHERE invoice_id = $3 AND id = $4`,
			anchor.TxHash, payload, invoiceID, offerID)
		if err != nil {
			return fmt.Errorf("failed to record funding anchor: %w", err)
		}
		return expectOneRow(res)
	})
}

func (s *Store) RollbackFunding(ctx context.Context, invoiceID, offerID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := transition(ctx, tx, invoiceID, models.FUNDING, models.TOKENIZED, time.Now()); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM funding_offers WHERE invoice_id = $1 AND id = $2`, invoiceID, offerID)
		if err != nil {
			return fmt.Errorf("failed to delete funding offer: %w", err)
		}
		if err := expectOneRow(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM escrow_records WHERE invoice_id = $1 AND released_at IS NULL`, invoiceID); err != nil {
			return fmt.Errorf("failed to delete escrow: %w", err)
		}
		return nil
	})
}
