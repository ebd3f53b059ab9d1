package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/invoice-funding-marketplace/pkg/events"
)

// maxDelay is the longest delivery delay SQS accepts.
const maxDelay = 15 * time.Minute

// ErrDelayTooLong is returned for delays SQS cannot express.
var ErrDelayTooLong = errors.New("delay exceeds 15 minutes")

// SQSAPI is the subset of the SQS client used by the scheduler.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSScheduler implements the Scheduler interface using AWS SQS.
type SQSScheduler struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client SQSAPI, queueURL string) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)

// SchedulePayment sends a PayerPayment message to the settlement queue.
func (s *SQSScheduler) SchedulePayment(ctx context.Context, invoiceID string, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	if delay > maxDelay {
		return ErrDelayTooLong
	}

	body, err := json.Marshal(events.PayerPayment{InvoiceID: invoiceID})
	if err != nil {
		return fmt.Errorf("failed to marshal payment for SQS: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(s.QueueURL),
		MessageBody:  aws.String(string(body)),
		DelaySeconds: int32(delay / time.Second),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
