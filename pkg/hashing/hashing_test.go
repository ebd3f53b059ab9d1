package hashing

import (
	"testing"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		ID:                 "inv_01h455vb4pex5vsknk084sn02q",
		Provider:           models.Party{ID: "prov-1", Name: "Lakeside Clinic"},
		Patient:            &models.Party{ID: "pat-9", Name: "Ada Obi"},
		ServiceDescription: "Pediatric checkup",
		Amount:             decimal.RequireFromString("350.00"),
		Currency:           "USD",
		IssueDate:          time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		DueDate:            time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC),
		Status:             models.PENDING,
	}
}

func TestInvoiceContentHash(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, InvoiceContentHash(sampleInvoice()), InvoiceContentHash(sampleInvoice()))
		assert.Len(t, InvoiceContentHash(sampleInvoice()), 64)
	})

	t.Run("Ignores Status", func(t *testing.T) {
		a := sampleInvoice()
		b := sampleInvoice()
		b.Status = models.FUNDED
		b.UpdatedAt = time.Now()
		assert.Equal(t, InvoiceContentHash(a), InvoiceContentHash(b))
	})

	t.Run("Amount Scale Is Normalised", func(t *testing.T) {
		a := sampleInvoice()
		b := sampleInvoice()
		b.Amount = decimal.NewFromInt(350)
		assert.Equal(t, InvoiceContentHash(a), InvoiceContentHash(b))
	})

	t.Run("Every Immutable Field Changes The Hash", func(t *testing.T) {
		base := InvoiceContentHash(sampleInvoice())
		mutations := map[string]func(*models.Invoice){
			"provider": func(i *models.Invoice) { i.Provider.ID = "prov-2" },
			"patient":  func(i *models.Invoice) { i.Patient = nil },
			"service":  func(i *models.Invoice) { i.ServiceDescription = "Surgery" },
			"amount":   func(i *models.Invoice) { i.Amount = decimal.RequireFromString("350.01") },
			"currency": func(i *models.Invoice) { i.Currency = "EUR" },
			"issue":    func(i *models.Invoice) { i.IssueDate = i.IssueDate.AddDate(0, 0, -1) },
			"due":      func(i *models.Invoice) { i.DueDate = i.DueDate.AddDate(0, 0, 1) },
		}
		for name, mutate := range mutations {
			t.Run(name, func(t *testing.T) {
				inv := sampleInvoice()
				mutate(inv)
				assert.NotEqual(t, base, InvoiceContentHash(inv))
			})
		}
	})
}

func TestFundingContentHash(t *testing.T) {
	offer := &models.FundingOffer{
		ID:        "fund_01h455vb4pex5vsknk084sn02q",
		InvoiceID: "inv_01h455vb4pex5vsknk084sn02q",
		FunderID:  "funder-1",
		Amount:    decimal.NewFromInt(300),
		Currency:  "USD",
		OfferedAt: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}

	h1 := FundingContentHash(offer, "abc")
	assert.Equal(t, h1, FundingContentHash(offer, "abc"))
	assert.NotEqual(t, h1, FundingContentHash(offer, "abd"))
}

func TestIdempotencyKeys(t *testing.T) {
	assert.Equal(t, "inv_1:deadbeef", TokenizeIdempotencyKey("inv_1", "deadbeef"))
	assert.Equal(t, "inv_1:fund_1", FundingIdempotencyKey("inv_1", "fund_1"))
}
