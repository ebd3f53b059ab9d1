package marketplace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	ErrInvalidInput      = errors.New("marketplace: invalid input")
	ErrNotFound          = errors.New("marketplace: not found")
	ErrInvalidState      = errors.New("marketplace: invalid state")
	ErrAlreadyFunded     = errors.New("marketplace: invoice already funded")
	ErrAnchorUnavailable = errors.New("marketplace: anchor unavailable")
	ErrFundingPending    = errors.New("marketplace: funding not yet confirmed")
)

// FieldError describes one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError lists every offending field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "marketplace: validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Add records an offending field. Only the first message per field is kept.
func (e *ValidationError) Add(field, message string) {
	if e.Has(field) {
		return
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has returns true if field was already recorded.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// HasErrors returns true if any field was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// FieldNames returns the names of the offending fields in the order they were recorded.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// Err returns e if any field was recorded, nil otherwise.
func (e *ValidationError) Err() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// InvalidStateError is returned when an operation's status precondition does not hold.
type InvalidStateError struct {
	InvoiceID string
	Status    models.InvoiceStatus
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("marketplace: cannot %s invoice %s in status %s", e.Operation, e.InvoiceID, e.Status)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

func invalidState(inv *models.Invoice, op string) error {
	return &InvalidStateError{InvoiceID: inv.ID, Status: inv.Status.Public(), Operation: op}
}

// AnchorUnavailableError is returned when the chain anchor failed or timed out.
// Retrying with the same inputs reuses IdempotencyKey.
type AnchorUnavailableError struct {
	IdempotencyKey string
	Err            error
}

func (e *AnchorUnavailableError) Error() string {
	return fmt.Sprintf("marketplace: anchor unavailable (idempotency key %s): %v", e.IdempotencyKey, e.Err)
}

func (e *AnchorUnavailableError) Unwrap() error {
	return e.Err
}

func (e *AnchorUnavailableError) Is(target error) bool {
	return target == ErrAnchorUnavailable
}

// FundingPendingError is returned while a funding claim is neither confirmed nor
// rolled back. The reconciler resolves it; callers should retry later.
type FundingPendingError struct {
	InvoiceID string
	OfferID   string
	Err       error
}

func (e *FundingPendingError) Error() string {
	msg := fmt.Sprintf("marketplace: funding of invoice %s is pending", e.InvoiceID)
	if e.OfferID != "" {
		msg += " (offer " + e.OfferID + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FundingPendingError) Unwrap() error {
	return e.Err
}

func (e *FundingPendingError) Is(target error) bool {
	return target == ErrFundingPending
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

// IsRetryable returns true if the operation may succeed when retried unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrAnchorUnavailable) || errors.Is(err, ErrFundingPending)
}
