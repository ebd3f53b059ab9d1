package storage

import (
	"context"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
)

// FundingReader defines the interface for reading funding offers and escrow records.
type FundingReader interface {
	// GetFundingOffer retrieves the active funding offer of an invoice.
	GetFundingOffer(ctx context.Context, invoiceID string) (*models.FundingOffer, error)

	// GetEscrow retrieves the escrow record of an invoice.
	GetEscrow(ctx context.Context, invoiceID string) (*models.EscrowRecord, error)

	// ListFundingOffersByFunder retrieves all funding offers made by a funder.
	ListFundingOffersByFunder(ctx context.Context, funderID string) ([]models.FundingOffer, error)
}

// FundingManager defines the privileged interface that drives the funding state machine.
// Every method is a single conditional write keyed by the current invoice status.
type FundingManager interface {
	// ClaimFunding moves the invoice from TOKENIZED to FUNDING and creates the offer and
	// escrow record atomically. Returns ErrStatusConflict if the invoice is not TOKENIZED.
	ClaimFunding(ctx context.Context, offer *models.FundingOffer, escrow *models.EscrowRecord) error

	// ConfirmFunding moves the invoice from FUNDING to FUNDED and records the anchored
	// funding transaction on the offer.
	ConfirmFunding(ctx context.Context, invoiceID, offerID string, anchor *models.ChainAnchor) error

	// RollbackFunding moves the invoice from FUNDING back to TOKENIZED and discards the
	// offer and escrow record.
	RollbackFunding(ctx context.Context, invoiceID, offerID string) error
}

// FundingStore combines the reader and manager interfaces.
type FundingStore interface {
	FundingReader
	FundingManager
}
