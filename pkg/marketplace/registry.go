package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/id"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
	"github.com/shopspring/decimal"
)

// CreateInvoiceInput is the data a provider submits to register an invoice.
type CreateInvoiceInput struct {
	Provider           models.Party
	Patient            *models.Party
	ServiceDescription string
	Amount             decimal.Decimal
	Currency           string
	DueDate            time.Time
	Attachment         *models.Attachment
}

// Registry registers invoices. It never contacts the chain anchor.
type Registry struct {
	store storage.InvoiceStore
	clock func() time.Time
}

func NewRegistry(store storage.InvoiceStore, cfg Config) *Registry {
	cfg = cfg.withDefaults()
	return &Registry{store: store, clock: cfg.Clock}
}

func (r *Registry) CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*models.Invoice, error) {
	now := r.clock().UTC()
	issueDate := dateOf(now)
	currency := normalizeCurrency(in.Currency)

	v := &ValidationError{}
	ValidateCreateInvoice(v, in, issueDate)
	if err := v.Err(); err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		ID:                 id.NewInvoiceID(),
		Provider:           trimParty(in.Provider),
		ServiceDescription: strings.TrimSpace(in.ServiceDescription),
		Amount:             in.Amount,
		Currency:           currency,
		IssueDate:          issueDate,
		DueDate:            dateOf(in.DueDate),
		Status:             models.PENDING,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if in.Patient != nil {
		p := trimParty(*in.Patient)
		inv.Patient = &p
	}
	if in.Attachment != nil {
		a := *in.Attachment
		a.SHA256 = strings.ToLower(a.SHA256)
		inv.Attachment = &a
	}

	created, err := r.store.CreateInvoice(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	slog.InfoContext(ctx, "invoice created", "invoice_id", created.ID, "provider_id", created.Provider.ID, "amount", created.Amount.String())
	return created, nil
}

func (r *Registry) GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	inv, err := loadInvoice(ctx, r.store, invoiceID)
	if err != nil {
		return nil, err
	}
	return publicView(inv), nil
}

// loadInvoice reads an invoice with its internal status intact.
func loadInvoice(ctx context.Context, store storage.InvoiceReader, invoiceID string) (*models.Invoice, error) {
	inv, err := store.GetInvoice(ctx, invoiceID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("invoice", invoiceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

func trimParty(p models.Party) models.Party {
	return models.Party{ID: strings.TrimSpace(p.ID), Name: strings.TrimSpace(p.Name)}
}
