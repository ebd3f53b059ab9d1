package handlers

import (
	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/handlers/funding"
	"github.com/chris/invoice-funding-marketplace/pkg/handlers/invoices"
	"github.com/chris/invoice-funding-marketplace/pkg/handlers/ledger"
	"github.com/chris/invoice-funding-marketplace/pkg/handlers/verification"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
)

// ApiHandler implements the generated server interface by composing the
// per-resource handlers around one marketplace service.
type ApiHandler struct {
	*invoices.InvoicesHandler
	*funding.FundingHandler
	*verification.VerificationHandler
	*ledger.LedgerHandler
}

// NewApiHandler creates a new ApiHandler with a marketplace dependency.
func NewApiHandler(service marketplace.Service) *ApiHandler {
	return &ApiHandler{
		InvoicesHandler:     invoices.NewInvoicesHandler(service),
		FundingHandler:      funding.NewFundingHandler(service),
		VerificationHandler: verification.NewVerificationHandler(service),
		LedgerHandler:       ledger.NewLedgerHandler(service),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
