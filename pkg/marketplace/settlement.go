package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/invoice-funding-marketplace/pkg/events"
	"github.com/chris/invoice-funding-marketplace/pkg/id"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
	"github.com/shopspring/decimal"
)

var daysPerYearPct = decimal.NewFromInt(36500)

// Payout computes principal plus simple interest pro-rated by day:
// held * (1 + rate/100 * days/365), rounded half away from zero to cents.
// A nil rate means no interest.
func Payout(held decimal.Decimal, ratePct *decimal.Decimal, days int) decimal.Decimal {
	if ratePct == nil || days <= 0 {
		return held.Round(amountScale)
	}
	interest := held.Mul(*ratePct).Mul(decimal.NewFromInt(int64(days))).Div(daysPerYearPct)
	return held.Add(interest).Round(amountScale)
}

// fundingPeriodDays is the configured period, or the invoice term if none was set.
func fundingPeriodDays(inv *models.Invoice) int {
	if p := inv.Tokenization.Params.FundingPeriodDays; p != nil {
		return *p
	}
	return inv.TermDays()
}

// Settle completes a funded invoice once the payer has paid: the escrow is released to
// the funder with interest and the payout is written to the ledger in one atomic write.
// While a funding claim is unconfirmed it returns a FundingPendingError.
func (f *FundingEngine) Settle(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	inv, err := loadInvoice(ctx, f.store, invoiceID)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case models.FUNDED:
	case models.FUNDING:
		return nil, &FundingPendingError{InvoiceID: inv.ID}
	default:
		return nil, invalidState(inv, "settle")
	}

	escrow, err := f.store.GetEscrow(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow: %w", err)
	}

	now := f.cfg.Clock().UTC()
	payout := Payout(escrow.HeldAmount, inv.Tokenization.Params.InterestRatePct, fundingPeriodDays(inv))
	settlement := &models.Settlement{
		InvoiceID:    inv.ID,
		EscrowID:     escrow.ID,
		PayoutAmount: payout,
		SettledAt:    now,
		Entries: []models.LedgerEntry{
			{
				EntryID:     id.NewLedgerEntryID(),
				InvoiceID:   inv.ID,
				AccountID:   f.cfg.PayerAccountID,
				Debit:       payout,
				Credit:      decimal.Zero,
				Currency:    escrow.Currency,
				Description: fmt.Sprintf("payer settlement of invoice %s", inv.ID),
				Timestamp:   now,
			},
			{
				EntryID:     id.NewLedgerEntryID(),
				InvoiceID:   inv.ID,
				AccountID:   escrow.FunderID,
				Debit:       decimal.Zero,
				Credit:      payout,
				Currency:    escrow.Currency,
				Description: fmt.Sprintf("escrow release for invoice %s", inv.ID),
				Timestamp:   now,
			},
		},
	}

	err = f.store.SettleInvoice(ctx, settlement)
	if errors.Is(err, storage.ErrStatusConflict) {
		current, getErr := loadInvoice(ctx, f.store, inv.ID)
		if getErr != nil {
			return nil, getErr
		}
		return nil, invalidState(current, "settle")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to settle invoice: %w", err)
	}

	slog.InfoContext(ctx, "invoice settled", "invoice_id", inv.ID, "funder_id", escrow.FunderID, "payout", payout.StringFixed(2))
	f.publish(ctx, events.Event{
		Type:       events.InvoiceCompleted,
		InvoiceID:  inv.ID,
		FunderID:   escrow.FunderID,
		OccurredAt: now,
	})

	completed, err := loadInvoice(ctx, f.store, inv.ID)
	if err != nil {
		return nil, err
	}
	return publicView(completed), nil
}
