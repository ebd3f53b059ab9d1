// Package scheduler queues payer payments for the settlement worker.
package scheduler

import (
	"context"
	"time"
)

// Scheduler defines the interface for a component that schedules a settlement for later processing.
type Scheduler interface {
	// SchedulePayment enqueues a payer payment for the invoice. The settlement
	// worker picks it up no earlier than delay from now.
	SchedulePayment(ctx context.Context, invoiceID string, delay time.Duration) error
}
