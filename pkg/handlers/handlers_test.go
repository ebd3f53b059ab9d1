package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/anchor/localchain"
	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
	"github.com/chris/invoice-funding-marketplace/pkg/storage/memory"
	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	chain, err := localchain.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = chain.Close() })

	service := marketplace.New(memory.New(), chain, nil, marketplace.Config{})
	router := chi.NewRouter()
	api.HandlerFromMux(NewApiHandler(service), router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, server *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestInvoiceLifecycle(t *testing.T) {
	server := newServer(t)
	name := "Mercy Clinic"
	rate := "5"

	var created api.Invoice
	status := do(t, server, http.MethodPost, "/invoices", api.NewInvoice{
		Provider:           api.Party{Id: "prov_1", Name: &name},
		ServiceDescription: "MRI scan",
		Amount:             "350",
		Currency:           "USD",
		DueDate:            openapi_types.Date{Time: time.Now().UTC().AddDate(0, 0, 30)},
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, api.InvoiceStatusPending, created.Status)
	assert.Equal(t, "350.00", created.Amount)

	var tokenized api.Invoice
	status = do(t, server, http.MethodPost, "/invoices/"+created.Id+"/tokenize",
		api.FundingParams{MinFundingAmount: "300", InterestRatePct: &rate}, &tokenized)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, api.InvoiceStatusTokenized, tokenized.Status)
	require.NotNil(t, tokenized.Tokenization)

	var listed []api.Invoice
	status = do(t, server, http.MethodGet, "/marketplace/invoices?currency=usd", nil, &listed)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, listed, 1)

	var apiErr api.Error
	status = do(t, server, http.MethodPost, "/invoices/"+created.Id+"/fund",
		api.FundRequest{FunderId: "funder_1", Amount: "250"}, &apiErr)
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, apiErr.Fields)
	assert.Equal(t, "amount", (*apiErr.Fields)[0].Field)

	var offer api.FundingOffer
	status = do(t, server, http.MethodPost, "/invoices/"+created.Id+"/fund",
		api.FundRequest{FunderId: "funder_1", Amount: "300"}, &offer)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, offer.TxHash)

	status = do(t, server, http.MethodPost, "/invoices/"+created.Id+"/fund",
		api.FundRequest{FunderId: "funder_2", Amount: "300"}, &apiErr)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_funded", apiErr.Code)

	var settled api.Invoice
	status = do(t, server, http.MethodPost, "/invoices/"+created.Id+"/settle", nil, &settled)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, api.InvoiceStatusCompleted, settled.Status)

	var escrow api.EscrowRecord
	status = do(t, server, http.MethodGet, "/invoices/"+created.Id+"/escrow", nil, &escrow)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, escrow.PayoutAmount)
	assert.Equal(t, "301.23", *escrow.PayoutAmount)

	var result api.VerificationResult
	status = do(t, server, http.MethodGet, "/invoices/"+created.Id+"/verification", nil, &result)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, result.IsVerified)

	var history []api.FundingOffer
	status = do(t, server, http.MethodGet, "/funders/funder_1/fundings", nil, &history)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, history, 1)

	var entries []api.LedgerEntry
	status = do(t, server, http.MethodGet, "/ledger?limit=5", nil, &entries)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, entries, 2)

	status = do(t, server, http.MethodPost, "/invoices/"+created.Id+"/settle", nil, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestInvalidQueryParameter(t *testing.T) {
	server := newServer(t)

	resp, err := http.Get(server.URL + "/ledger?limit=abc")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownInvoice(t *testing.T) {
	server := newServer(t)

	var apiErr api.Error
	status := do(t, server, http.MethodGet, "/invoices/inv_missing", nil, &apiErr)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", apiErr.Code)
}
