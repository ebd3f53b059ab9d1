package marketplace

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/anchor"
	"github.com/chris/invoice-funding-marketplace/pkg/hashing"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
)

// Oracle checks persisted records against the hashes recorded by the chain anchor.
// A mismatch or a missing anchor is a result, never an error.
type Oracle struct {
	store                 storage.InvoiceReader
	anchor                anchor.Client
	timeout               time.Duration
	requiredConfirmations uint64
	network               string
	clock                 func() time.Time
}

func NewOracle(store storage.InvoiceReader, anchorClient anchor.Client, cfg Config) *Oracle {
	cfg = cfg.withDefaults()
	return &Oracle{
		store:                 store,
		anchor:                anchorClient,
		timeout:               cfg.AnchorTimeout,
		requiredConfirmations: cfg.RequiredConfirmations,
		network:               cfg.Network,
		clock:                 cfg.Clock,
	}
}

// Verify recomputes the content hash of an invoice and compares it with the anchored one.
func (o *Oracle) Verify(ctx context.Context, recordID string) (*models.VerificationResult, error) {
	inv, err := loadInvoice(ctx, o.store, recordID)
	if err != nil {
		return nil, err
	}

	result := o.newResult(recordID)
	result.IssuerInfo.ProviderID = inv.Provider.ID
	result.IssuerInfo.ProviderName = inv.Provider.Name
	result.ExpectedHash = hashing.InvoiceContentHash(inv)

	if !inv.IsTokenized() {
		result.Reason = "invoice has not been tokenized"
		return result, nil
	}

	ref := inv.Tokenization.TokenID
	if ref == "" {
		ref = inv.Tokenization.Anchor.TxHash
	}
	return o.check(ctx, result, ref)
}

// VerifyRecord checks an arbitrary record hash against the anchor referenced by a token ID
// or transaction hash.
func (o *Oracle) VerifyRecord(ctx context.Context, reference, contentHash string) (*models.VerificationResult, error) {
	contentHash = strings.ToLower(strings.TrimSpace(contentHash))

	v := &ValidationError{}
	checkRequired(v, "reference", reference)
	if !sha256Pattern.MatchString(contentHash) {
		v.Add("content_hash", "must be a hex encoded SHA-256 digest")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	result := o.newResult(reference)
	result.ExpectedHash = contentHash
	return o.check(ctx, result, reference)
}

func (o *Oracle) newResult(recordID string) *models.VerificationResult {
	return &models.VerificationResult{
		RecordID:   recordID,
		Status:     models.UNVERIFIED,
		IssuerInfo: models.IssuerInfo{Network: o.network},
		CheckedAt:  o.clock().UTC(),
	}
}

// check completes result from the anchor's confirmation of ref.
func (o *Oracle) check(ctx context.Context, result *models.VerificationResult, ref string) (*models.VerificationResult, error) {
	anchorCtx, cancel := anchorContext(ctx, o.timeout)
	defer cancel()

	conf, err := o.anchor.Verify(anchorCtx, ref)
	if errors.Is(err, anchor.ErrNotFound) {
		result.Reason = "no anchor found for " + ref
		return result, nil
	}
	if err != nil {
		return nil, &AnchorUnavailableError{Err: err}
	}

	result.AnchoredHash = conf.ContentHash
	result.Confirmations = conf.Confirmations
	result.AnchorProof = conf.Proof()

	switch {
	case conf.ContentHash != result.ExpectedHash:
		result.Reason = "content hash does not match the anchored hash"
	case !conf.Confirmed || conf.Confirmations < o.requiredConfirmations:
		result.Status = models.AWAITING_CONFIRMATION
		result.Reason = "anchor is below the required confirmation depth"
	default:
		result.IsVerified = true
		result.Status = models.VERIFIED
	}
	return result, nil
}
