package dynamodb

import (
	"fmt"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/shopspring/decimal"
)

// sortableTime is fixed-width so that index range conditions on updated_at compare correctly.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

const ledgerPartition = "LEDGER_ENTRIES"

// Amounts are stored as strings; attributevalue has no decimal support and a DynamoDB
// number would lose the canonical scale.

type anchorRecord struct {
	TokenID     string    `dynamodbav:"token_id"`
	TxHash      string    `dynamodbav:"tx_hash"`
	BlockNumber uint64    `dynamodbav:"block_number"`
	Timestamp   time.Time `dynamodbav:"timestamp"`
	ContentHash string    `dynamodbav:"content_hash"`
}

type tokenizationRecord struct {
	TokenID           string       `dynamodbav:"token_id"`
	ContentHash       string       `dynamodbav:"content_hash"`
	TokenizedAt       time.Time    `dynamodbav:"tokenized_at"`
	Anchor            anchorRecord `dynamodbav:"anchor"`
	MinFundingAmount  string       `dynamodbav:"min_funding_amount"`
	InterestRatePct   *string      `dynamodbav:"interest_rate_pct,omitempty"`
	FundingPeriodDays *int         `dynamodbav:"funding_period_days,omitempty"`
}

type invoiceRecord struct {
	ID                 string              `dynamodbav:"id"`
	Provider           models.Party        `dynamodbav:"provider"`
	Patient            *models.Party       `dynamodbav:"patient,omitempty"`
	ServiceDescription string              `dynamodbav:"service_description"`
	Amount             string              `dynamodbav:"amount"`
	Currency           string              `dynamodbav:"currency"`
	IssueDate          string              `dynamodbav:"issue_date"`
	DueDate            string              `dynamodbav:"due_date"`
	Attachment         *models.Attachment  `dynamodbav:"attachment,omitempty"`
	Status             string              `dynamodbav:"status"`
	Tokenization       *tokenizationRecord `dynamodbav:"tokenization,omitempty"`
	CreatedAt          time.Time           `dynamodbav:"created_at"`
	UpdatedAt          string              `dynamodbav:"updated_at"`
}

type offerRecord struct {
	InvoiceID string        `dynamodbav:"invoice_id"`
	ID        string        `dynamodbav:"id"`
	FunderID  string        `dynamodbav:"funder_id"`
	Amount    string        `dynamodbav:"amount"`
	Currency  string        `dynamodbav:"currency"`
	OfferedAt time.Time     `dynamodbav:"offered_at"`
	TxHash    string        `dynamodbav:"tx_hash,omitempty"`
	Anchor    *anchorRecord `dynamodbav:"anchor,omitempty"`
}

type escrowRecord struct {
	InvoiceID        string     `dynamodbav:"invoice_id"`
	ID               string     `dynamodbav:"id"`
	FunderID         string     `dynamodbav:"funder_id"`
	HeldAmount       string     `dynamodbav:"held_amount"`
	Currency         string     `dynamodbav:"currency"`
	ReleaseCondition string     `dynamodbav:"release_condition"`
	PayoutAmount     *string    `dynamodbav:"payout_amount,omitempty"`
	CreatedAt        time.Time  `dynamodbav:"created_at"`
	ReleasedAt       *time.Time `dynamodbav:"released_at,omitempty"`
}

type ledgerRecord struct {
	EntryID     string    `dynamodbav:"entry_id"`
	InvoiceID   string    `dynamodbav:"invoice_id"`
	AccountID   string    `dynamodbav:"account_id"`
	Debit       string    `dynamodbav:"debit"`
	Credit      string    `dynamodbav:"credit"`
	Currency    string    `dynamodbav:"currency"`
	Description string    `dynamodbav:"description"`
	Timestamp   time.Time `dynamodbav:"timestamp"`
	GSI1PK      string    `dynamodbav:"gsi1pk"`
}

func formatSortable(t time.Time) string {
	return t.UTC().Format(sortableTime)
}

func decimalPtrString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDecimalPtr(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func newAnchorRecord(a *models.ChainAnchor) anchorRecord {
	return anchorRecord{
		TokenID:     a.TokenID,
		TxHash:      a.TxHash,
		BlockNumber: a.BlockNumber,
		Timestamp:   a.Timestamp.UTC(),
		ContentHash: a.ContentHash,
	}
}

func (r anchorRecord) toModel() models.ChainAnchor {
	return models.ChainAnchor{
		TokenID:     r.TokenID,
		TxHash:      r.TxHash,
		BlockNumber: r.BlockNumber,
		Timestamp:   r.Timestamp,
		ContentHash: r.ContentHash,
	}
}

func newTokenizationRecord(t *models.Tokenization) *tokenizationRecord {
	return &tokenizationRecord{
		TokenID:           t.TokenID,
		ContentHash:       t.ContentHash,
		TokenizedAt:       t.TokenizedAt.UTC(),
		Anchor:            newAnchorRecord(&t.Anchor),
		MinFundingAmount:  t.Params.MinFundingAmount.String(),
		InterestRatePct:   decimalPtrString(t.Params.InterestRatePct),
		FundingPeriodDays: t.Params.FundingPeriodDays,
	}
}

func (r *tokenizationRecord) toModel() (*models.Tokenization, error) {
	minAmount, err := decimal.NewFromString(r.MinFundingAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse min funding amount: %w", err)
	}
	rate, err := parseDecimalPtr(r.InterestRatePct)
	if err != nil {
		return nil, fmt.Errorf("failed to parse interest rate: %w", err)
	}
	return &models.Tokenization{
		TokenID:     r.TokenID,
		ContentHash: r.ContentHash,
		TokenizedAt: r.TokenizedAt,
		Anchor:      r.Anchor.toModel(),
		Params: models.FundingParams{
			MinFundingAmount:  minAmount,
			InterestRatePct:   rate,
			FundingPeriodDays: r.FundingPeriodDays,
		},
	}, nil
}

func newInvoiceRecord(inv *models.Invoice) invoiceRecord {
	r := invoiceRecord{
		ID:                 inv.ID,
		Provider:           inv.Provider,
		Patient:            inv.Patient,
		ServiceDescription: inv.ServiceDescription,
		Amount:             inv.Amount.String(),
		Currency:           inv.Currency,
		IssueDate:          inv.IssueDate.Format(models.DateLayout),
		DueDate:            inv.DueDate.Format(models.DateLayout),
		Attachment:         inv.Attachment,
		Status:             string(inv.Status),
		CreatedAt:          inv.CreatedAt.UTC(),
		UpdatedAt:          formatSortable(inv.UpdatedAt),
	}
	if inv.Tokenization != nil {
		r.Tokenization = newTokenizationRecord(inv.Tokenization)
	}
	return r
}

func (r *invoiceRecord) toModel() (*models.Invoice, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice amount: %w", err)
	}
	issue, err := time.Parse(models.DateLayout, r.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse issue date: %w", err)
	}
	due, err := time.Parse(models.DateLayout, r.DueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse due date: %w", err)
	}
	updated, err := time.Parse(sortableTime, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	inv := &models.Invoice{
		ID:                 r.ID,
		Provider:           r.Provider,
		Patient:            r.Patient,
		ServiceDescription: r.ServiceDescription,
		Amount:             amount,
		Currency:           r.Currency,
		IssueDate:          issue,
		DueDate:            due,
		Attachment:         r.Attachment,
		Status:             models.InvoiceStatus(r.Status),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          updated,
	}
	if r.Tokenization != nil {
		if inv.Tokenization, err = r.Tokenization.toModel(); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

func newOfferRecord(o *models.FundingOffer) offerRecord {
	r := offerRecord{
		InvoiceID: o.InvoiceID,
		ID:        o.ID,
		FunderID:  o.FunderID,
		Amount:    o.Amount.String(),
		Currency:  o.Currency,
		OfferedAt: o.OfferedAt.UTC(),
		TxHash:    o.TxHash,
	}
	if o.Anchor != nil {
		a := newAnchorRecord(o.Anchor)
		r.Anchor = &a
	}
	return r
}

func (r *offerRecord) toModel() (*models.FundingOffer, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse offer amount: %w", err)
	}
	o := &models.FundingOffer{
		ID:        r.ID,
		InvoiceID: r.InvoiceID,
		FunderID:  r.FunderID,
		Amount:    amount,
		Currency:  r.Currency,
		OfferedAt: r.OfferedAt,
		TxHash:    r.TxHash,
	}
	if r.Anchor != nil {
		a := r.Anchor.toModel()
		o.Anchor = &a
	}
	return o, nil
}

func newEscrowRecord(e *models.EscrowRecord) escrowRecord {
	return escrowRecord{
		InvoiceID:        e.InvoiceID,
		ID:               e.ID,
		FunderID:         e.FunderID,
		HeldAmount:       e.HeldAmount.String(),
		Currency:         e.Currency,
		ReleaseCondition: string(e.ReleaseCondition),
		PayoutAmount:     decimalPtrString(e.PayoutAmount),
		CreatedAt:        e.CreatedAt.UTC(),
		ReleasedAt:       e.ReleasedAt,
	}
}

func (r *escrowRecord) toModel() (*models.EscrowRecord, error) {
	held, err := decimal.NewFromString(r.HeldAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse held amount: %w", err)
	}
	payout, err := parseDecimalPtr(r.PayoutAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payout amount: %w", err)
	}
	return &models.EscrowRecord{
		ID:               r.ID,
		InvoiceID:        r.InvoiceID,
		FunderID:         r.FunderID,
		HeldAmount:       held,
		Currency:         r.Currency,
		ReleaseCondition: models.ReleaseCondition(r.ReleaseCondition),
		PayoutAmount:     payout,
		CreatedAt:        r.CreatedAt,
		ReleasedAt:       r.ReleasedAt,
	}, nil
}

func newLedgerRecord(e *models.LedgerEntry) ledgerRecord {
	return ledgerRecord{
		EntryID:     e.EntryID,
		InvoiceID:   e.InvoiceID,
		AccountID:   e.AccountID,
		Debit:       e.Debit.String(),
		Credit:      e.Credit.String(),
		Currency:    e.Currency,
		Description: e.Description,
		Timestamp:   e.Timestamp.UTC(),
		GSI1PK:      ledgerPartition,
	}
}

func (r *ledgerRecord) toModel() (*models.LedgerEntry, error) {
	debit, err := decimal.NewFromString(r.Debit)
	if err != nil {
		return nil, fmt.Errorf("failed to parse debit: %w", err)
	}
	credit, err := decimal.NewFromString(r.Credit)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credit: %w", err)
	}
	return &models.LedgerEntry{
		EntryID:     r.EntryID,
		InvoiceID:   r.InvoiceID,
		AccountID:   r.AccountID,
		Debit:       debit,
		Credit:      credit,
		Currency:    r.Currency,
		Description: r.Description,
		Timestamp:   r.Timestamp,
	}, nil
}
