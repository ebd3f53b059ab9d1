package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
)

// Store is an in-process implementation of storage.Storage. A single mutex serialises
// writers, which gives every status transition compare-and-swap semantics.
type Store struct {
	mu sync.RWMutex

	invoices map[string]*models.Invoice
	offers   map[string]*models.FundingOffer // keyed by invoice ID
	escrows  map[string]*models.EscrowRecord // keyed by invoice ID
	ledger   []models.LedgerEntry

	clock func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source for UpdatedAt stamps and stuck funding cutoffs.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		invoices: make(map[string]*models.Invoice),
		offers:   make(map[string]*models.FundingOffer),
		escrows:  make(map[string]*models.EscrowRecord),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(_ context.Context, inv *models.Invoice) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID]; exists {
		return nil, storage.ErrAlreadyExists
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	return cloneInvoice(inv), nil
}

func (s *Store) GetInvoice(_ context.Context, invoiceID string) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", invoiceID, storage.ErrNotFound)
	}
	return cloneInvoice(inv), nil
}

func (s *Store) ListInvoicesByStatus(_ context.Context, status models.InvoiceStatus) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.Status == status {
			result = append(result, *cloneInvoice(inv))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) ListStuckFundings(_ context.Context, maxAge time.Duration) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.clock().Add(-maxAge)
	result := make([]models.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.Status == models.FUNDING && inv.UpdatedAt.Before(cutoff) {
			result = append(result, *cloneInvoice(inv))
		}
	}
	return result, nil
}

func (s *Store) MarkTokenized(_ context.Context, invoiceID string, t *models.Tokenization) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", invoiceID, storage.ErrNotFound)
	}
	if inv.Status != models.PENDING {
		return nil, storage.ErrStatusConflict
	}

	tok := *t
	inv.Tokenization = &tok
	inv.Status = models.TOKENIZED
	inv.UpdatedAt = s.clock()
	return cloneInvoice(inv), nil
}

// ==================== Funding Store ====================

func (s *Store) GetFundingOffer(_ context.Context, invoiceID string) (*models.FundingOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offer, ok := s.offers[invoiceID]
	if !ok {
		return nil, fmt.Errorf("funding offer for invoice %s: %w", invoiceID, storage.ErrNotFound)
	}
	c := *offer
	return &c, nil
}

func (s *Store) GetEscrow(_ context.Context, invoiceID string) (*models.EscrowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	escrow, ok := s.escrows[invoiceID]
	if !ok {
		return nil, fmt.Errorf("escrow for invoice %s: %w", invoiceID, storage.ErrNotFound)
	}
	c := *escrow
	return &c, nil
}

func (s *Store) ListFundingOffersByFunder(_ context.Context, funderID string) ([]models.FundingOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.FundingOffer, 0)
	for _, offer := range s.offers {
		if offer.FunderID == funderID {
			result = append(result, *offer)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OfferedAt.Before(result[j].OfferedAt) })
	return result, nil
}

func (s *Store) ClaimFunding(_ context.Context, offer *models.FundingOffer, escrow *models.EscrowRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[offer.InvoiceID]
	if !ok {
		return fmt.Errorf("invoice %s: %w", offer.InvoiceID, storage.ErrNotFound)
	}
	if inv.Status != models.TOKENIZED {
		return storage.ErrStatusConflict
	}
	if _, exists := s.offers[offer.InvoiceID]; exists {
		return storage.ErrStatusConflict
	}

	o := *offer
	e := *escrow
	s.offers[offer.InvoiceID] = &o
	s.escrows[offer.InvoiceID] = &e
	inv.Status = models.FUNDING
	inv.UpdatedAt = s.clock()
	return nil
}

func (s *Store) ConfirmFunding(_ context.Context, invoiceID, offerID string, anchor *models.ChainAnchor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("invoice %s: %w", invoiceID, storage.ErrNotFound)
	}
	offer, ok := s.offers[invoiceID]
	if inv.Status != models.FUNDING || !ok || offer.ID != offerID {
		return storage.ErrStatusConflict
	}

	a := *anchor
	offer.Anchor = &a
	offer.TxHash = anchor.TxHash
	inv.Status = models.FUNDED
	inv.UpdatedAt = s.clock()
	return nil
}

func (s *Store) RollbackFunding(_ context.Context, invoiceID, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("invoice %s: %w", invoiceID, storage.ErrNotFound)
	}
	offer, ok := s.offers[invoiceID]
	if inv.Status != models.FUNDING || !ok || offer.ID != offerID {
		return storage.ErrStatusConflict
	}

	delete(s.offers, invoiceID)
	delete(s.escrows, invoiceID)
	inv.Status = models.TOKENIZED
	inv.UpdatedAt = s.clock()
	return nil
}

// ==================== Settlement Store ====================

func (s *Store) SettleInvoice(_ context.Context, st *models.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[st.InvoiceID]
	if !ok {
		return fmt.Errorf("invoice %s: %w", st.InvoiceID, storage.ErrNotFound)
	}
	escrow, ok := s.escrows[st.InvoiceID]
	if inv.Status != models.FUNDED || !ok || escrow.ID != st.EscrowID || escrow.Released() {
		return storage.ErrStatusConflict
	}

	payout := st.PayoutAmount
	releasedAt := st.SettledAt
	escrow.PayoutAmount = &payout
	escrow.ReleasedAt = &releasedAt
	s.ledger = append(s.ledger, st.Entries...)
	inv.Status = models.COMPLETED
	inv.UpdatedAt = st.SettledAt
	return nil
}

// ==================== Ledger Reader ====================

func (s *Store) ListLedgerEntries(_ context.Context, limit int32) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.LedgerEntry, 0, len(s.ledger))
	// Most recent first, matching the descending ledger index of the DynamoDB store.
	for i := len(s.ledger) - 1; i >= 0; i-- {
		if limit > 0 && int32(len(result)) >= limit {
			break
		}
		result = append(result, s.ledger[i])
	}
	return result, nil
}

func cloneInvoice(inv *models.Invoice) *models.Invoice {
	c := *inv
	if inv.Patient != nil {
		p := *inv.Patient
		c.Patient = &p
	}
	if inv.Attachment != nil {
		a := *inv.Attachment
		c.Attachment = &a
	}
	if inv.Tokenization != nil {
		t := *inv.Tokenization
		c.Tokenization = &t
	}
	return &c
}
