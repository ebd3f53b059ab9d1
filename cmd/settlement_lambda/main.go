package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/invoice-funding-marketplace/pkg/bootstrap"
	"github.com/chris/invoice-funding-marketplace/pkg/config"
	mpevents "github.com/chris/invoice-funding-marketplace/pkg/events"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
)

var settler Settler

// Settler is the part of the marketplace the settlement worker needs.
type Settler interface {
	Settle(ctx context.Context, invoiceID string) (*models.Invoice, error)
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Initialize dependencies once. They live as long as the execution environment.
	deps, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialise backends: %v", err)
	}
	settler = deps.Marketplace(cfg)
}

// HandleRequest settles the invoices named in payer payment messages. Messages that
// can never succeed are logged and dropped; transient failures are reported back
// so SQS redelivers only those messages.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		if err := settleMessage(ctx, message); err != nil {
			log.Printf("ERROR: message %s will be retried: %v", message.MessageId, err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}
	return resp, nil
}

func settleMessage(ctx context.Context, message events.SQSMessage) error {
	log.Printf("Processing message %s", message.MessageId)

	var payment mpevents.PayerPayment
	if err := json.Unmarshal([]byte(message.Body), &payment); err != nil || payment.InvoiceID == "" {
		log.Printf("ERROR: dropping malformed payment message %s: %v", message.MessageId, err)
		return nil
	}

	log.Printf("Attempting to settle invoice %s", payment.InvoiceID)

	_, err := settler.Settle(ctx, payment.InvoiceID)
	switch {
	case err == nil:
		log.Printf("Successfully settled invoice %s", payment.InvoiceID)
		return nil
	case errors.Is(err, marketplace.ErrFundingPending):
		// The funding claim is still in flight. Settle once the reconciler has resolved it.
		return fmt.Errorf("invoice %s is not yet funded: %w", payment.InvoiceID, err)
	case errors.Is(err, marketplace.ErrNotFound), errors.Is(err, marketplace.ErrInvalidState):
		// Already completed or never funded. Redelivery cannot change that.
		log.Printf("ERROR: not settling invoice %s: %v", payment.InvoiceID, err)
		return nil
	default:
		return fmt.Errorf("failed to settle invoice %s: %w", payment.InvoiceID, err)
	}
}

func main() {
	lambda.Start(HandleRequest)
}
