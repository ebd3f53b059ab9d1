// Package events publishes marketplace lifecycle events to downstream consumers.
package events

import (
	"context"
	"time"
)

// Event types.
const (
	FundingSucceeded = "funding.succeeded"
	InvoiceCompleted = "invoice.completed"
)

// Event is a marketplace lifecycle notification.
type Event struct {
	Type       string    `json:"type"`
	InvoiceID  string    `json:"invoice_id"`
	FunderID   string    `json:"funder_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PayerPayment is the message that tells the settlement worker an invoice has been paid.
type PayerPayment struct {
	InvoiceID string `json:"invoice_id"`
}

// Publisher defines the interface for a component that emits events.
type Publisher interface {
	// Publish emits the event. Delivery is at least once.
	Publish(ctx context.Context, event Event) error
}

// NoOpPublisher drops every event.
type NoOpPublisher struct{}

var _ Publisher = NoOpPublisher{}

func (NoOpPublisher) Publish(context.Context, Event) error { return nil }
