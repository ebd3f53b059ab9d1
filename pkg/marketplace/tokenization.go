package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/anchor"
	"github.com/chris/invoice-funding-marketplace/pkg/hashing"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
)

// Tokenizer anchors pending invoices and offers them for funding.
type Tokenizer struct {
	store   storage.InvoiceStore
	anchor  anchor.Client
	timeout time.Duration
	clock   func() time.Time
}

func NewTokenizer(store storage.InvoiceStore, anchorClient anchor.Client, cfg Config) *Tokenizer {
	cfg = cfg.withDefaults()
	return &Tokenizer{store: store, anchor: anchorClient, timeout: cfg.AnchorTimeout, clock: cfg.Clock}
}

// Tokenize anchors the invoice content hash and moves the invoice to TOKENIZED.
// If the anchor fails the invoice stays PENDING and the returned AnchorUnavailableError
// carries the idempotency key a retry will reuse.
func (t *Tokenizer) Tokenize(ctx context.Context, invoiceID string, params models.FundingParams) (*models.Invoice, error) {
	inv, err := loadInvoice(ctx, t.store, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.PENDING {
		return nil, invalidState(inv, "tokenize")
	}
	if err := validateFundingParams(inv, params); err != nil {
		return nil, err
	}

	contentHash := hashing.InvoiceContentHash(inv)
	key := hashing.TokenizeIdempotencyKey(inv.ID, contentHash)

	anchorCtx, cancel := anchorContext(ctx, t.timeout)
	defer cancel()
	proof, err := t.anchor.Anchor(anchorCtx, anchor.Request{ContentHash: contentHash, IdempotencyKey: key})
	if err != nil {
		slog.WarnContext(ctx, "tokenization anchor failed", "invoice_id", inv.ID, "idempotency_key", key, "error", err)
		return nil, &AnchorUnavailableError{IdempotencyKey: key, Err: err}
	}

	tokenID := proof.TokenID
	if tokenID == "" {
		tokenID = proof.TxHash
	}
	tokenization := &models.Tokenization{
		TokenID:     tokenID,
		ContentHash: contentHash,
		TokenizedAt: t.clock().UTC(),
		Anchor:      *proof,
		Params:      params,
	}

	updated, err := t.store.MarkTokenized(ctx, inv.ID, tokenization)
	if errors.Is(err, storage.ErrStatusConflict) {
		// A concurrent retry with the same key may have won the write.
		current, getErr := loadInvoice(ctx, t.store, inv.ID)
		if getErr != nil {
			return nil, getErr
		}
		if current.IsTokenized() && current.Tokenization.ContentHash == contentHash {
			return publicView(current), nil
		}
		return nil, invalidState(current, "tokenize")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark invoice tokenized: %w", err)
	}

	slog.InfoContext(ctx, "invoice tokenized", "invoice_id", updated.ID, "token_id", tokenID, "tx_hash", proof.TxHash)
	return publicView(updated), nil
}

func validateFundingParams(inv *models.Invoice, p models.FundingParams) error {
	v := &ValidationError{}
	ValidateFundingTerms(v, p)
	if p.MinFundingAmount.GreaterThan(inv.Amount) {
		v.Add("min_funding_amount", "must not exceed the invoice amount")
	}
	return v.Err()
}
