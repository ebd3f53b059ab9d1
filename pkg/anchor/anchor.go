// Package anchor defines the contract the marketplace requires of a chain anchor:
// register a content hash once per idempotency key and later confirm it.
package anchor

import (
	"context"
	"errors"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
)

// ErrNotFound is returned by Verify when no anchor matches the reference.
var ErrNotFound = errors.New("anchor not found")

// ErrIdempotencyConflict is returned when an idempotency key is reused with a different content hash.
var ErrIdempotencyConflict = errors.New("idempotency key already used for a different content hash")

// Request asks the anchor to register ContentHash. Submitting the same IdempotencyKey
// again returns the original anchor instead of creating a new one.
type Request struct {
	ContentHash    string `json:"content_hash"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Confirmation is the anchor's view of a previously registered hash.
type Confirmation struct {
	Confirmed     bool      `json:"confirmed"`
	Confirmations uint64    `json:"confirmations"`
	TokenID       string    `json:"token_id"`
	TxHash        string    `json:"tx_hash"`
	BlockNumber   uint64    `json:"block_number"`
	Timestamp     time.Time `json:"timestamp"`
	ContentHash   string    `json:"content_hash"`
}

// Proof converts the confirmation into the immutable anchor proof.
func (c *Confirmation) Proof() *models.ChainAnchor {
	return &models.ChainAnchor{
		TokenID:     c.TokenID,
		TxHash:      c.TxHash,
		BlockNumber: c.BlockNumber,
		Timestamp:   c.Timestamp,
		ContentHash: c.ContentHash,
	}
}

// Client is a chain anchor.
type Client interface {
	// Anchor registers a content hash. Implementations must be idempotent on Request.IdempotencyKey.
	Anchor(ctx context.Context, req Request) (*models.ChainAnchor, error)

	// Verify looks up an anchor by token ID or transaction hash.
	Verify(ctx context.Context, ref string) (*Confirmation, error)
}
