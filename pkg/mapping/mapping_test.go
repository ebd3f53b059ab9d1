package mapping

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToApiError(t *testing.T) {
	verr := &marketplace.ValidationError{}
	verr.Add("amount", "must be positive")

	testCases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", verr, http.StatusBadRequest, "validation_failed"},
		{"wrapped not found", fmt.Errorf("load: %w", marketplace.ErrNotFound), http.StatusNotFound, "not_found"},
		{"already funded", marketplace.ErrAlreadyFunded, http.StatusConflict, "already_funded"},
		{"funding pending", &marketplace.FundingPendingError{InvoiceID: "inv_1", Err: errors.New("rollback failed")}, http.StatusConflict, "funding_pending"},
		{"invalid state", &marketplace.InvalidStateError{InvoiceID: "inv_1", Status: models.PENDING, Operation: "fund"}, http.StatusUnprocessableEntity, "invalid_state"},
		{"anchor unavailable", &marketplace.AnchorUnavailableError{IdempotencyKey: "k", Err: errors.New("down")}, http.StatusServiceUnavailable, "anchor_unavailable"},
		{"bare invalid input", marketplace.ErrInvalidInput, http.StatusBadRequest, "validation_failed"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := ToApiError(tc.err)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantBody, body.Code)
		})
	}
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	_, body := ToApiError(errors.New("pq: connection refused on 10.0.0.4"))
	assert.NotContains(t, body.Message, "10.0.0.4")
}

func TestToDomainFundingParams(t *testing.T) {
	rate := "five"
	_, err := ToDomainFundingParams(&api.FundingParams{MinFundingAmount: "abc", InterestRatePct: &rate})

	var verr *marketplace.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"min_funding_amount", "interest_rate_pct"}, verr.FieldNames())
	assert.ErrorIs(t, err, marketplace.ErrInvalidInput)
}

func TestToDomainCreateInvoiceReportsEveryField(t *testing.T) {
	fixed := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	_, err := ToDomainCreateInvoice(&api.NewInvoice{
		Provider: api.Party{Id: "prov_1"},
		Amount:   "12,50",
		Currency: "US",
		DueDate:  openapi_types.Date{Time: fixed},
	})

	var verr *marketplace.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"amount", "service_description", "currency", "due_date"}, verr.FieldNames())
	assert.Equal(t, "must be a decimal number", verr.Fields[0].Message)
}

func TestToDomainFundAmount(t *testing.T) {
	_, err := ToDomainFundAmount(&api.FundRequest{Amount: "0.001"})

	var verr *marketplace.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"funder_id", "amount"}, verr.FieldNames())
}

func TestToDomainInvoiceFilter(t *testing.T) {
	min, max, currency, limit := "10", "500.50", "eur", 25
	status := api.InvoiceStatusFunded

	filter, err := ToDomainInvoiceFilter(&api.ListTokenizedInvoicesParams{
		Status: &status, Currency: &currency, MinAmount: &min, MaxAmount: &max, Limit: &limit,
	})

	require.NoError(t, err)
	assert.Equal(t, models.FUNDED, filter.Status)
	assert.Equal(t, "eur", filter.Currency)
	assert.True(t, filter.MaxAmount.Equal(decimal.RequireFromString("500.5")))
	assert.Equal(t, int32(25), filter.Limit)
}

func TestToApiInvoiceHidesFundingStatus(t *testing.T) {
	inv := &models.Invoice{
		ID:       "inv_1",
		Amount:   decimal.RequireFromString("12.5"),
		Currency: "USD",
		Status:   models.FUNDING,
		Tokenization: &models.Tokenization{
			TokenID: "tok_1",
			Anchor:  models.ChainAnchor{TokenID: "tok_1", BlockNumber: 9, Timestamp: time.Now()},
			Params:  models.FundingParams{MinFundingAmount: decimal.NewFromInt(10)},
		},
	}

	out := ToApiInvoice(inv)

	assert.Equal(t, api.InvoiceStatusTokenized, out.Status)
	assert.Equal(t, "12.50", out.Amount)
	require.NotNil(t, out.Tokenization)
	assert.Equal(t, int64(9), out.Tokenization.Anchor.BlockNumber)
	assert.Nil(t, out.Tokenization.FundingTerms.InterestRatePct)
}
