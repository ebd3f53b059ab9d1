package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/anchor"
	"github.com/chris/invoice-funding-marketplace/pkg/events"
	"github.com/chris/invoice-funding-marketplace/pkg/hashing"
	"github.com/chris/invoice-funding-marketplace/pkg/id"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// FundingEngine drives the funding state machine of tokenized invoices:
// claim, anchor, confirm or roll back, and finally settle.
type FundingEngine struct {
	store     storage.Storage
	anchor    anchor.Client
	publisher events.Publisher
	cfg       Config
}

func NewFundingEngine(store storage.Storage, anchorClient anchor.Client, publisher events.Publisher, cfg Config) *FundingEngine {
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	return &FundingEngine{store: store, anchor: anchorClient, publisher: publisher, cfg: cfg.withDefaults()}
}

// Fund claims a tokenized invoice for funderID. Exactly one concurrent caller wins the
// claim; the others get ErrAlreadyFunded without the anchor being contacted. If the
// funding transaction cannot be anchored the claim is rolled back.
func (f *FundingEngine) Fund(ctx context.Context, invoiceID, funderID string, amount decimal.Decimal) (*models.FundingOffer, error) {
	inv, err := loadInvoice(ctx, f.store, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.IsTokenized() {
		return nil, invalidState(inv, "fund")
	}
	if err := validateFunding(inv, funderID, amount); err != nil {
		return nil, err
	}
	switch inv.Status {
	case models.TOKENIZED:
	case models.FUNDING, models.FUNDED:
		return nil, ErrAlreadyFunded
	default:
		return nil, invalidState(inv, "fund")
	}

	// OfferedAt is part of the anchored hash and must survive a store round trip.
	now := f.cfg.Clock().UTC().Truncate(time.Microsecond)
	offer := &models.FundingOffer{
		ID:        id.NewFundingID(),
		InvoiceID: inv.ID,
		FunderID:  funderID,
		Amount:    amount,
		Currency:  inv.Currency,
		OfferedAt: now,
	}
	escrow := &models.EscrowRecord{
		ID:               id.NewEscrowID(),
		InvoiceID:        inv.ID,
		FunderID:         funderID,
		HeldAmount:       amount,
		Currency:         inv.Currency,
		ReleaseCondition: models.PayerSettlesInvoice,
		CreatedAt:        now,
	}

	err = f.store.ClaimFunding(ctx, offer, escrow)
	if errors.Is(err, storage.ErrStatusConflict) || errors.Is(err, storage.ErrAlreadyExists) {
		slog.InfoContext(ctx, "funding claim lost", "invoice_id", inv.ID, "funder_id", funderID)
		return nil, ErrAlreadyFunded
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim funding: %w", err)
	}

	proof, key, err := f.anchorFunding(ctx, inv, offer)
	if err != nil {
		// The caller may have given up; the rollback must still run.
		if rbErr := f.store.RollbackFunding(context.WithoutCancel(ctx), inv.ID, offer.ID); rbErr != nil {
			slog.ErrorContext(ctx, "failed to roll back funding claim", "invoice_id", inv.ID, "offer_id", offer.ID, "error", rbErr)
			// The claim still holds the invoice until the reconciler resolves it.
			return nil, &FundingPendingError{InvoiceID: inv.ID, OfferID: offer.ID, Err: errors.Join(err, rbErr)}
		}
		return nil, &AnchorUnavailableError{IdempotencyKey: key, Err: err}
	}

	if err := f.confirm(ctx, inv.ID, offer, proof); err != nil {
		return nil, err
	}
	return offer, nil
}

// anchorFunding submits the funding transaction hash under the offer's idempotency key.
func (f *FundingEngine) anchorFunding(ctx context.Context, inv *models.Invoice, offer *models.FundingOffer) (*models.ChainAnchor, string, error) {
	key := hashing.FundingIdempotencyKey(inv.ID, offer.ID)
	req := anchor.Request{
		ContentHash:    hashing.FundingContentHash(offer, inv.Tokenization.ContentHash),
		IdempotencyKey: key,
	}

	anchorCtx, cancel := anchorContext(ctx, f.cfg.AnchorTimeout)
	defer cancel()
	proof, err := f.anchor.Anchor(anchorCtx, req)
	if err != nil {
		slog.WarnContext(ctx, "funding anchor failed", "invoice_id", inv.ID, "idempotency_key", key, "error", err)
		return nil, key, err
	}
	return proof, key, nil
}

// confirm records the anchored funding transaction and announces it.
func (f *FundingEngine) confirm(ctx context.Context, invoiceID string, offer *models.FundingOffer, proof *models.ChainAnchor) error {
	if err := f.store.ConfirmFunding(ctx, invoiceID, offer.ID, proof); err != nil {
		return fmt.Errorf("failed to confirm funding: %w", err)
	}
	offer.TxHash = proof.TxHash
	offer.Anchor = proof

	slog.InfoContext(ctx, "invoice funded", "invoice_id", invoiceID, "funder_id", offer.FunderID, "amount", offer.Amount.String(), "tx_hash", proof.TxHash)
	f.publish(ctx, events.Event{
		Type:       events.FundingSucceeded,
		InvoiceID:  invoiceID,
		FunderID:   offer.FunderID,
		OccurredAt: f.cfg.Clock().UTC(),
	})
	return nil
}

// publish emits an event. Delivery failures never undo a committed transition.
func (f *FundingEngine) publish(ctx context.Context, event events.Event) {
	if err := f.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "type", event.Type, "invoice_id", event.InvoiceID, "error", err)
	}
}

func validateFunding(inv *models.Invoice, funderID string, amount decimal.Decimal) error {
	v := &ValidationError{}
	ValidateFundRequest(v, funderID, amount)
	if amount.LessThan(inv.Tokenization.Params.MinFundingAmount) {
		v.Add("amount", fmt.Sprintf("must be at least the minimum funding amount %s", inv.Tokenization.Params.MinFundingAmount.StringFixed(2)))
	}
	if amount.GreaterThan(inv.Amount) {
		v.Add("amount", fmt.Sprintf("must not exceed the invoice amount %s", inv.Amount.StringFixed(2)))
	}
	return v.Err()
}

// ListTokenizedInvoices lists invoices open for funding. Invoices with a funding claim
// in flight are reported as TOKENIZED, so they are listed as well.
func (f *FundingEngine) ListTokenizedInvoices(ctx context.Context, filter models.TokenizedInvoiceFilter) ([]models.Invoice, error) {
	status := filter.Status
	if status == "" {
		status = models.TOKENIZED
	}
	if !status.Valid() || status.Public() != status {
		v := &ValidationError{}
		v.Add("status", "unknown invoice status")
		return nil, v
	}
	filter.Currency = normalizeCurrency(filter.Currency)
	limit := clampLimit(filter.Limit)

	statuses := []models.InvoiceStatus{status}
	if status == models.TOKENIZED {
		statuses = append(statuses, models.FUNDING)
	}

	result := make([]models.Invoice, 0)
	for _, s := range statuses {
		invoices, err := f.store.ListInvoicesByStatus(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("failed to list invoices: %w", err)
		}
		for i := range invoices {
			if !filter.Matches(&invoices[i]) {
				continue
			}
			result = append(result, *publicView(&invoices[i]))
			if int32(len(result)) >= limit {
				return result, nil
			}
		}
	}
	return result, nil
}

func (f *FundingEngine) ListFundingHistory(ctx context.Context, funderID string) ([]models.FundingOffer, error) {
	if funderID == "" {
		v := &ValidationError{}
		v.Add("funder_id", "is required")
		return nil, v
	}
	offers, err := f.store.ListFundingOffersByFunder(ctx, funderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funding offers: %w", err)
	}
	// Claims still awaiting their anchor are not part of the history yet.
	history := make([]models.FundingOffer, 0, len(offers))
	for _, o := range offers {
		if o.TxHash != "" {
			history = append(history, o)
		}
	}
	return history, nil
}

func (f *FundingEngine) GetEscrow(ctx context.Context, invoiceID string) (*models.EscrowRecord, error) {
	inv, err := loadInvoice(ctx, f.store, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Status.AtLeast(models.FUNDED) {
		return nil, notFound("escrow for invoice", invoiceID)
	}
	escrow, err := f.store.GetEscrow(ctx, invoiceID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("escrow for invoice", invoiceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow: %w", err)
	}
	return escrow, nil
}

func (f *FundingEngine) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	entries, err := f.store.ListLedgerEntries(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

func clampLimit(limit int32) int32 {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}
