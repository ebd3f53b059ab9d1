package funding

import (
	"net/http"

	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/handlers/render"
	"github.com/chris/invoice-funding-marketplace/pkg/mapping"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
)

// FundingHandler holds the dependencies for funding, settlement and marketplace listings.
type FundingHandler struct {
	Service marketplace.Service
}

// NewFundingHandler creates a new FundingHandler.
func NewFundingHandler(service marketplace.Service) *FundingHandler {
	return &FundingHandler{Service: service}
}

// FundInvoice claims a tokenized invoice for a funder.
func (h *FundingHandler) FundInvoice(w http.ResponseWriter, r *http.Request, invoiceId string) {
	var body api.FundInvoiceJSONRequestBody
	if !render.DecodeBody(w, r, &body) {
		return
	}

	amount, err := mapping.ToDomainFundAmount(&body)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	offer, err := h.Service.Fund(r.Context(), invoiceId, body.FunderId, amount)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, mapping.ToApiFundingOffer(offer))
}

// SettleInvoice completes a funded invoice once the payer has paid.
func (h *FundingHandler) SettleInvoice(w http.ResponseWriter, r *http.Request, invoiceId string) {
	inv, err := h.Service.Settle(r.Context(), invoiceId)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, mapping.ToApiInvoice(inv))
}

func (h *FundingHandler) GetEscrow(w http.ResponseWriter, r *http.Request, invoiceId string) {
	escrow, err := h.Service.GetEscrow(r.Context(), invoiceId)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, mapping.ToApiEscrow(escrow))
}

// ListTokenizedInvoices lists the invoices open for funding.
func (h *FundingHandler) ListTokenizedInvoices(w http.ResponseWriter, r *http.Request, params api.ListTokenizedInvoicesParams) {
	filter, err := mapping.ToDomainInvoiceFilter(&params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	invoices, err := h.Service.ListTokenizedInvoices(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	apiInvoices := make([]*api.Invoice, len(invoices))
	for i := range invoices {
		apiInvoices[i] = mapping.ToApiInvoice(&invoices[i])
	}
	render.JSON(w, http.StatusOK, apiInvoices)
}

func (h *FundingHandler) ListFundingHistory(w http.ResponseWriter, r *http.Request, funderId string) {
	offers, err := h.Service.ListFundingHistory(r.Context(), funderId)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	apiOffers := make([]*api.FundingOffer, len(offers))
	for i := range offers {
		apiOffers[i] = mapping.ToApiFundingOffer(&offers[i])
	}
	render.JSON(w, http.StatusOK, apiOffers)
}
