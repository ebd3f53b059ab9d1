// Package hashing computes the reproducible content hashes that get anchored on chain.
//
// Hashes are SHA-256 over a canonical JSON object (sorted keys, string values), so any
// party holding the same invoice fields can recompute them independently.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
)

const (
	invoiceSchema = "invoice/v1"
	fundingSchema = "funding/v1"
)

// Sha256Hex returns the hex encoded SHA-256 digest of data.
func Sha256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// canonical serialises fields as JSON. encoding/json writes map keys in sorted order.
func canonical(fields map[string]string) []byte {
	b, err := json.Marshal(fields)
	if err != nil {
		// A map of strings always marshals.
		panic(err)
	}
	return b
}

// InvoiceFields returns the immutable invoice fields covered by the content hash.
// Status and other mutable fields are deliberately absent.
func InvoiceFields(inv *models.Invoice) map[string]string {
	fields := map[string]string{
		"schema":        invoiceSchema,
		"provider_id":   inv.Provider.ID,
		"provider_name": inv.Provider.Name,
		"patient_id":    "",
		"patient_name":  "",
		"service":       inv.ServiceDescription,
		"amount":        inv.Amount.StringFixed(2),
		"currency":      strings.ToUpper(inv.Currency),
		"issue_date":    inv.IssueDate.UTC().Format(models.DateLayout),
		"due_date":      inv.DueDate.UTC().Format(models.DateLayout),
	}
	if inv.Patient != nil {
		fields["patient_id"] = inv.Patient.ID
		fields["patient_name"] = inv.Patient.Name
	}
	return fields
}

// InvoiceContentHash returns the content hash of an invoice.
func InvoiceContentHash(inv *models.Invoice) string {
	return Sha256Hex(canonical(InvoiceFields(inv)))
}

// FundingContentHash returns the hash anchored for a funding transaction. It binds the
// offer to the invoice content hash it was made against.
func FundingContentHash(offer *models.FundingOffer, invoiceHash string) string {
	return Sha256Hex(canonical(map[string]string{
		"schema":       fundingSchema,
		"offer_id":     offer.ID,
		"invoice_id":   offer.InvoiceID,
		"invoice_hash": invoiceHash,
		"funder_id":    offer.FunderID,
		"amount":       offer.Amount.StringFixed(2),
		"currency":     strings.ToUpper(offer.Currency),
		"offered_at":   offer.OfferedAt.UTC().Format(time.RFC3339Nano),
	}))
}

// TokenizeIdempotencyKey is the key under which an invoice's tokenization is anchored.
func TokenizeIdempotencyKey(invoiceID, contentHash string) string {
	return invoiceID + ":" + contentHash
}

// FundingIdempotencyKey is the key under which a funding transaction is anchored.
func FundingIdempotencyKey(invoiceID, offerID string) string {
	return invoiceID + ":" + offerID
}
