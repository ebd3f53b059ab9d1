package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date format for issue and due dates.
const DateLayout = "2006-01-02"

// InvoiceStatus defines the lifecycle states of an invoice.
type InvoiceStatus string

const (
	PENDING   InvoiceStatus = "pending"
	TOKENIZED InvoiceStatus = "tokenized"
	// FUNDING is internal: a funder has claimed the invoice but the funding
	// transaction is not anchored yet. It is reported as TOKENIZED.
	FUNDING   InvoiceStatus = "funding"
	FUNDED    InvoiceStatus = "funded"
	COMPLETED InvoiceStatus = "completed"
)

var statusRank = map[InvoiceStatus]int{
	PENDING:   0,
	TOKENIZED: 1,
	FUNDING:   2,
	FUNDED:    3,
	COMPLETED: 4,
}

// Public returns the status callers are allowed to observe.
func (s InvoiceStatus) Public() InvoiceStatus {
	if s == FUNDING {
		return TOKENIZED
	}
	return s
}

// AtLeast reports whether s is at or beyond other in the lifecycle.
func (s InvoiceStatus) AtLeast(other InvoiceStatus) bool {
	return statusRank[s] >= statusRank[other]
}

// Valid reports whether s is a known status.
func (s InvoiceStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Party identifies a provider or patient.
type Party struct {
	ID   string `json:"id" dynamodbav:"id"`
	Name string `json:"name" dynamodbav:"name"`
}

// Attachment references the uploaded claim document. Only its digest is kept.
type Attachment struct {
	FileName    string `json:"file_name" dynamodbav:"file_name"`
	ContentType string `json:"content_type" dynamodbav:"content_type"`
	SHA256      string `json:"sha256" dynamodbav:"sha256"`
}

// FundingParams are the terms a tokenized invoice is offered under.
type FundingParams struct {
	MinFundingAmount  decimal.Decimal  `json:"min_funding_amount"`
	InterestRatePct   *decimal.Decimal `json:"interest_rate_pct,omitempty"`
	FundingPeriodDays *int             `json:"funding_period_days,omitempty"`
}

// ChainAnchor is the immutable proof returned by the chain anchor.
type ChainAnchor struct {
	TokenID     string    `json:"token_id"`
	TxHash      string    `json:"tx_hash"`
	BlockNumber uint64    `json:"block_number"`
	Timestamp   time.Time `json:"timestamp"`
	ContentHash string    `json:"content_hash"`
}

// Tokenization holds the anchoring data of a tokenized invoice.
type Tokenization struct {
	TokenID     string        `json:"token_id"`
	ContentHash string        `json:"content_hash"`
	TokenizedAt time.Time     `json:"tokenized_at"`
	Anchor      ChainAnchor   `json:"anchor"`
	Params      FundingParams `json:"params"`
}

// Invoice represents the internal domain model for a healthcare invoice.
// Tokenization is set if and only if Status is at least TOKENIZED.
type Invoice struct {
	ID                 string          `json:"id"`
	Provider           Party           `json:"provider"`
	Patient            *Party          `json:"patient,omitempty"`
	ServiceDescription string          `json:"service_description"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	IssueDate          time.Time       `json:"issue_date"`
	DueDate            time.Time       `json:"due_date"`
	Attachment         *Attachment     `json:"attachment,omitempty"`
	Status             InvoiceStatus   `json:"status"`
	Tokenization       *Tokenization   `json:"tokenization,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// IsTokenized reports whether the invoice carries valid anchoring data.
func (inv *Invoice) IsTokenized() bool {
	return inv.Status.AtLeast(TOKENIZED) && inv.Tokenization != nil
}

// TermDays is the number of days between issue and due date.
func (inv *Invoice) TermDays() int {
	return int(inv.DueDate.Sub(inv.IssueDate).Hours() / 24)
}

// FundingOffer is a funder's winning claim against a tokenized invoice.
type FundingOffer struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	FunderID  string          `json:"funder_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	OfferedAt time.Time       `json:"offered_at"`
	TxHash    string          `json:"tx_hash,omitempty"`
	Anchor    *ChainAnchor    `json:"anchor,omitempty"`
}

// ReleaseCondition describes when escrowed funds may be released.
type ReleaseCondition string

const (
	PayerSettlesInvoice ReleaseCondition = "payer_settles_invoice"
)

// EscrowRecord represents funds held between funding and settlement.
type EscrowRecord struct {
	ID               string           `json:"id"`
	InvoiceID        string           `json:"invoice_id"`
	FunderID         string           `json:"funder_id"`
	HeldAmount       decimal.Decimal  `json:"held_amount"`
	Currency         string           `json:"currency"`
	ReleaseCondition ReleaseCondition `json:"release_condition"`
	PayoutAmount     *decimal.Decimal `json:"payout_amount,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	ReleasedAt       *time.Time       `json:"released_at,omitempty"`
}

// Released reports whether the escrow has been closed.
func (e *EscrowRecord) Released() bool {
	return e.ReleasedAt != nil
}

// LedgerEntry represents a single entry in the payout ledger.
type LedgerEntry struct {
	EntryID     string          `json:"entry_id"`
	InvoiceID   string          `json:"invoice_id"`
	AccountID   string          `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Settlement is the single atomic write that completes a funded invoice.
type Settlement struct {
	InvoiceID    string
	EscrowID     string
	PayoutAmount decimal.Decimal
	SettledAt    time.Time
	Entries      []LedgerEntry
}

// TokenizedInvoiceFilter narrows marketplace listings. An empty Status means TOKENIZED.
type TokenizedInvoiceFilter struct {
	Status    InvoiceStatus
	Currency  string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Limit     int32
}

// Matches reports whether inv satisfies the filter.
func (f TokenizedInvoiceFilter) Matches(inv *Invoice) bool {
	if f.Currency != "" && f.Currency != inv.Currency {
		return false
	}
	if f.MinAmount != nil && inv.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && inv.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}
