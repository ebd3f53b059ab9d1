// Package marketplace implements the invoice tokenization and funding marketplace:
// the registry, tokenization, the funding state machine and the verification oracle.
package marketplace

import (
	"context"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/anchor"
	"github.com/chris/invoice-funding-marketplace/pkg/events"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
	"github.com/shopspring/decimal"
)

const (
	DefaultAnchorTimeout         = 10 * time.Second
	DefaultStuckFundingThreshold = 15 * time.Minute
	DefaultPayerAccountID        = "payer"
	DefaultNetwork               = "local"
)

// Service is the set of operations exposed to the API.
type Service interface {
	CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*models.Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error)
	Tokenize(ctx context.Context, invoiceID string, params models.FundingParams) (*models.Invoice, error)
	Fund(ctx context.Context, invoiceID, funderID string, amount decimal.Decimal) (*models.FundingOffer, error)
	Settle(ctx context.Context, invoiceID string) (*models.Invoice, error)
	GetEscrow(ctx context.Context, invoiceID string) (*models.EscrowRecord, error)
	Verify(ctx context.Context, recordID string) (*models.VerificationResult, error)
	VerifyRecord(ctx context.Context, reference, contentHash string) (*models.VerificationResult, error)
	ListTokenizedInvoices(ctx context.Context, filter models.TokenizedInvoiceFilter) ([]models.Invoice, error)
	ListFundingHistory(ctx context.Context, funderID string) ([]models.FundingOffer, error)
	ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error)
}

// Config holds the tunables of the marketplace. Zero values fall back to the defaults.
type Config struct {
	AnchorTimeout         time.Duration
	RequiredConfirmations uint64
	StuckFundingThreshold time.Duration
	PayerAccountID        string
	Network               string
	Clock                 func() time.Time
}

func (c Config) withDefaults() Config {
	if c.AnchorTimeout <= 0 {
		c.AnchorTimeout = DefaultAnchorTimeout
	}
	if c.RequiredConfirmations == 0 {
		c.RequiredConfirmations = 1
	}
	if c.StuckFundingThreshold <= 0 {
		c.StuckFundingThreshold = DefaultStuckFundingThreshold
	}
	if c.PayerAccountID == "" {
		c.PayerAccountID = DefaultPayerAccountID
	}
	if c.Network == "" {
		c.Network = DefaultNetwork
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// Marketplace wires the components together behind the Service interface.
type Marketplace struct {
	*Registry
	*Tokenizer
	*FundingEngine
	*Oracle
}

// Make sure we conform to the interface
var _ Service = (*Marketplace)(nil)

// New creates a Marketplace.
func New(store storage.Storage, anchorClient anchor.Client, publisher events.Publisher, cfg Config) *Marketplace {
	cfg = cfg.withDefaults()
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	return &Marketplace{
		Registry:      NewRegistry(store, cfg),
		Tokenizer:     NewTokenizer(store, anchorClient, cfg),
		FundingEngine: NewFundingEngine(store, anchorClient, publisher, cfg),
		Oracle:        NewOracle(store, anchorClient, cfg),
	}
}

// anchorContext bounds a single anchor call.
func anchorContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// publicView hides internal sub-states from callers.
func publicView(inv *models.Invoice) *models.Invoice {
	inv.Status = inv.Status.Public()
	return inv
}
