// Package id generates prefixed, K-sortable identifiers for marketplace records.
//
// Identifiers are TypeIDs in the form "prefix_suffix", e.g. "inv_01h455vb4pex5vsknk084sn02q".
// The rest of the code base treats them as opaque strings.
package id

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the record type encoded in an identifier.
type Prefix string

const (
	PrefixInvoice     Prefix = "inv"  // Invoice
	PrefixFunding     Prefix = "fund" // Funding offer
	PrefixEscrow      Prefix = "esc"  // Escrow record
	PrefixToken       Prefix = "tok"  // Anchor token
	PrefixLedgerEntry Prefix = "le"   // Payout ledger entry
)

// New generates a new identifier with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) string {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return tid.String()
}

// Validate checks that s is a well-formed identifier carrying the expected prefix.
func Validate(s string, expected Prefix) error {
	if s == "" {
		return fmt.Errorf("id: parse %q: empty string", s)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return fmt.Errorf("id: parse %q: %w", s, err)
	}
	if Prefix(tid.Prefix()) != expected {
		return fmt.Errorf("id: expected prefix %q, got %q", expected, tid.Prefix())
	}
	return nil
}

// NewInvoiceID generates a new unique invoice ID.
func NewInvoiceID() string { return New(PrefixInvoice) }

// NewFundingID generates a new unique funding offer ID.
func NewFundingID() string { return New(PrefixFunding) }

// NewEscrowID generates a new unique escrow record ID.
func NewEscrowID() string { return New(PrefixEscrow) }

// NewTokenID generates a new unique anchor token ID.
func NewTokenID() string { return New(PrefixToken) }

// NewLedgerEntryID generates a new unique ledger entry ID.
func NewLedgerEntryID() string { return New(PrefixLedgerEntry) }
