package storage

import (
	"context"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
)

// SettlementStore defines the highly-privileged interface for settling an invoice.
// This operation involves atomic writes across invoices, escrow and the payout ledger.
// It should only be exposed to the component responsible for final settlement.
type SettlementStore interface {
	// SettleInvoice moves the invoice from FUNDED to COMPLETED, releases the escrow and
	// writes the payout ledger entries in one atomic write.
	SettleInvoice(ctx context.Context, s *models.Settlement) error
}
