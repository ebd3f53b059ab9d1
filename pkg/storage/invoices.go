package storage

import (
	"context"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
)

// InvoiceReader defines the interface for reading invoice data.
type InvoiceReader interface {
	// GetInvoice retrieves an invoice by its ID. Returns ErrNotFound if absent.
	GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error)

	// ListInvoicesByStatus retrieves all invoices currently in the given status.
	ListInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]models.Invoice, error)

	// ListStuckFundings retrieves invoices that have been in the FUNDING state for longer than maxAge.
	ListStuckFundings(ctx context.Context, maxAge time.Duration) ([]models.Invoice, error)
}

// InvoiceManager defines the interface for creating and tokenizing invoices.
type InvoiceManager interface {
	// CreateInvoice persists a new PENDING invoice. Returns ErrAlreadyExists on an ID collision.
	CreateInvoice(ctx context.Context, inv *models.Invoice) (*models.Invoice, error)

	// MarkTokenized records the tokenization and moves the invoice from PENDING to TOKENIZED
	// in one conditional write. Returns ErrStatusConflict if the invoice is no longer PENDING.
	MarkTokenized(ctx context.Context, invoiceID string, t *models.Tokenization) (*models.Invoice, error)
}

// InvoiceStore combines the reader and manager interfaces.
type InvoiceStore interface {
	InvoiceReader
	InvoiceManager
}
