package ledger

import (
	"net/http"

	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/handlers/render"
	"github.com/chris/invoice-funding-marketplace/pkg/mapping"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
)

const defaultLimit = 20

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Service marketplace.Service
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(service marketplace.Service) *LedgerHandler {
	return &LedgerHandler{Service: service}
}

func (h *LedgerHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request, params api.ListLedgerEntriesParams) {
	limit := int32(defaultLimit)
	if params.Limit != nil {
		limit = int32(*params.Limit)
	}

	entries, err := h.Service.ListLedgerEntries(r.Context(), limit)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	apiEntries := make([]*api.LedgerEntry, len(entries))
	for i := range entries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entries[i])
	}
	render.JSON(w, http.StatusOK, apiEntries)
}
