package invoices

import (
	"net/http"

	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/handlers/render"
	"github.com/chris/invoice-funding-marketplace/pkg/mapping"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
)

// InvoicesHandler holds the dependencies for invoice registration and tokenization.
type InvoicesHandler struct {
	Service marketplace.Service
}

// NewInvoicesHandler creates a new InvoicesHandler.
func NewInvoicesHandler(service marketplace.Service) *InvoicesHandler {
	return &InvoicesHandler{Service: service}
}

// CreateInvoice registers a new pending invoice.
func (h *InvoicesHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var body api.CreateInvoiceJSONRequestBody
	if !render.DecodeBody(w, r, &body) {
		return
	}

	input, err := mapping.ToDomainCreateInvoice(&body)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	created, err := h.Service.CreateInvoice(r.Context(), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, mapping.ToApiInvoice(created))
}

// GetInvoice handles the logic for retrieving an invoice by its ID.
func (h *InvoicesHandler) GetInvoice(w http.ResponseWriter, r *http.Request, invoiceId string) {
	inv, err := h.Service.GetInvoice(r.Context(), invoiceId)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, mapping.ToApiInvoice(inv))
}

// TokenizeInvoice anchors a pending invoice and offers it for funding.
func (h *InvoicesHandler) TokenizeInvoice(w http.ResponseWriter, r *http.Request, invoiceId string) {
	var body api.TokenizeInvoiceJSONRequestBody
	if !render.DecodeBody(w, r, &body) {
		return
	}

	params, err := mapping.ToDomainFundingParams(&body)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	tokenized, err := h.Service.Tokenize(r.Context(), invoiceId, params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, mapping.ToApiInvoice(tokenized))
}
