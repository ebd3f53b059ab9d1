package verification_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/handlers/verification"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace/mocks"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVerifyInvoice(t *testing.T) {
	t.Run("Mismatch Is Still OK", func(t *testing.T) {
		mockService := mocks.NewService(t)
		mockService.On("Verify", mock.Anything, "inv_1").Return(&models.VerificationResult{
			RecordID:     "inv_1",
			Status:       models.UNVERIFIED,
			Reason:       "content hash does not match the anchored hash",
			ExpectedHash: "aa",
			AnchoredHash: "bb",
			IssuerInfo:   models.IssuerInfo{Network: "local"},
		}, nil)

		h := verification.NewVerificationHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/invoices/inv_1/verification", nil)
		rr := httptest.NewRecorder()

		h.VerifyInvoice(rr, req, "inv_1")

		assert.Equal(t, http.StatusOK, rr.Code)
		var got api.VerificationResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.False(t, got.IsVerified)
		assert.Equal(t, api.VerificationStatusUnverified, got.Status)
		require.NotNil(t, got.AnchoredHash)
		assert.Equal(t, "bb", *got.AnchoredHash)
	})

	t.Run("Anchor Unavailable", func(t *testing.T) {
		mockService := mocks.NewService(t)
		mockService.On("Verify", mock.Anything, "inv_1").Return(nil, &marketplace.AnchorUnavailableError{Err: errors.New("down")})

		h := verification.NewVerificationHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/invoices/inv_1/verification", nil)
		rr := httptest.NewRecorder()

		h.VerifyInvoice(rr, req, "inv_1")

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestVerifyRecord(t *testing.T) {
	mockService := mocks.NewService(t)
	mockService.On("VerifyRecord", mock.Anything, "0x1", "abc").Return(&models.VerificationResult{
		RecordID:      "0x1",
		IsVerified:    true,
		Status:        models.VERIFIED,
		Confirmations: 3,
	}, nil)

	h := verification.NewVerificationHandler(mockService)

	body, _ := json.Marshal(api.VerifyRecordRequest{Reference: "0x1", ContentHash: "abc"})
	req := httptest.NewRequest(http.MethodPost, "/verifications", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	h.VerifyRecord(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got api.VerificationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.True(t, got.IsVerified)
	assert.Equal(t, int64(3), got.Confirmations)
}
