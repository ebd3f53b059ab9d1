package verification

import (
	"net/http"

	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/handlers/render"
	"github.com/chris/invoice-funding-marketplace/pkg/mapping"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
)

// VerificationHandler exposes the verification oracle. A failed verification is
// still a 200 response; is_verified carries the outcome.
type VerificationHandler struct {
	Service marketplace.Service
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(service marketplace.Service) *VerificationHandler {
	return &VerificationHandler{Service: service}
}

func (h *VerificationHandler) VerifyInvoice(w http.ResponseWriter, r *http.Request, invoiceId string) {
	result, err := h.Service.Verify(r.Context(), invoiceId)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, mapping.ToApiVerificationResult(result))
}

func (h *VerificationHandler) VerifyRecord(w http.ResponseWriter, r *http.Request) {
	var body api.VerifyRecordJSONRequestBody
	if !render.DecodeBody(w, r, &body) {
		return
	}

	result, err := h.Service.VerifyRecord(r.Context(), body.Reference, body.ContentHash)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, mapping.ToApiVerificationResult(result))
}
