package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/id"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInvoice(t *testing.T, s *Store, status models.InvoiceStatus) *models.Invoice {
	t.Helper()
	now := time.Now()
	inv := &models.Invoice{
		ID:                 id.NewInvoiceID(),
		Provider:           models.Party{ID: "prov-1", Name: "Clinic"},
		ServiceDescription: "MRI",
		Amount:             decimal.RequireFromString("350.00"),
		Currency:           "USD",
		IssueDate:          now.Truncate(24 * time.Hour),
		DueDate:            now.Truncate(24 * time.Hour).AddDate(0, 0, 30),
		Status:             status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if status.AtLeast(models.TOKENIZED) {
		inv.Tokenization = &models.Tokenization{TokenID: id.NewTokenID(), ContentHash: "h"}
	}
	_, err := s.CreateInvoice(context.Background(), inv)
	require.NoError(t, err)
	return inv
}

func offerFor(inv *models.Invoice, funderID string) (*models.FundingOffer, *models.EscrowRecord) {
	offer := &models.FundingOffer{
		ID: id.NewFundingID(), InvoiceID: inv.ID, FunderID: funderID,
		Amount: decimal.RequireFromString("300"), Currency: inv.Currency, OfferedAt: time.Now(),
	}
	escrow := &models.EscrowRecord{
		ID: id.NewEscrowID(), InvoiceID: inv.ID, FunderID: funderID,
		HeldAmount: offer.Amount, Currency: inv.Currency, ReleaseCondition: models.PayerSettlesInvoice, CreatedAt: time.Now(),
	}
	return offer, escrow
}

func TestInvoiceLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("Create Rejects Duplicate", func(t *testing.T) {
		s := New()
		inv := seedInvoice(t, s, models.PENDING)

		_, err := s.CreateInvoice(ctx, inv)
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := New().GetInvoice(ctx, "inv_missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Returned Invoice Is A Copy", func(t *testing.T) {
		s := New()
		inv := seedInvoice(t, s, models.PENDING)

		got, err := s.GetInvoice(ctx, inv.ID)
		require.NoError(t, err)
		got.Status = models.COMPLETED

		again, err := s.GetInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PENDING, again.Status)
	})

	t.Run("Mark Tokenized Only From Pending", func(t *testing.T) {
		s := New()
		inv := seedInvoice(t, s, models.PENDING)
		tok := &models.Tokenization{TokenID: "tok_1", ContentHash: "h"}

		got, err := s.MarkTokenized(ctx, inv.ID, tok)
		require.NoError(t, err)
		assert.Equal(t, models.TOKENIZED, got.Status)
		assert.Equal(t, "tok_1", got.Tokenization.TokenID)

		_, err = s.MarkTokenized(ctx, inv.ID, tok)
		assert.ErrorIs(t, err, storage.ErrStatusConflict)
	})

	t.Run("List By Status", func(t *testing.T) {
		s := New()
		seedInvoice(t, s, models.PENDING)
		tokenized := seedInvoice(t, s, models.TOKENIZED)

		list, err := s.ListInvoicesByStatus(ctx, models.TOKENIZED)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, tokenized.ID, list[0].ID)
	})
}

func TestFundingTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("Claim Confirm Settle", func(t *testing.T) {
		s := New()
		inv := seedInvoice(t, s, models.TOKENIZED)
		offer, escrow := offerFor(inv, "funder-1")

		require.NoError(t, s.ClaimFunding(ctx, offer, escrow))
		got, _ := s.GetInvoice(ctx, inv.ID)
		assert.Equal(t, models.FUNDING, got.Status)

		anchor := &models.ChainAnchor{TxHash: "0x1"}
		require.NoError(t, s.ConfirmFunding(ctx, inv.ID, offer.ID, anchor))
		storedOffer, err := s.GetFundingOffer(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "0x1", storedOffer.TxHash)

		settledAt := time.Now()
		payout := decimal.RequireFromString("301.23")
		err = s.SettleInvoice(ctx, &models.Settlement{
			InvoiceID: inv.ID, EscrowID: escrow.ID, PayoutAmount: payout, SettledAt: settledAt,
			Entries: []models.LedgerEntry{{EntryID: "le_1"}, {EntryID: "le_2"}},
		})
		require.NoError(t, err)

		got, _ = s.GetInvoice(ctx, inv.ID)
		assert.Equal(t, models.COMPLETED, got.Status)
		storedEscrow, _ := s.GetEscrow(ctx, inv.ID)
		assert.True(t, storedEscrow.Released())
		assert.True(t, payout.Equal(*storedEscrow.PayoutAmount))

		entries, _ := s.ListLedgerEntries(ctx, 1)
		require.Len(t, entries, 1)
		assert.Equal(t, "le_2", entries[0].EntryID)

		err = s.SettleInvoice(ctx, &models.Settlement{InvoiceID: inv.ID, EscrowID: escrow.ID, SettledAt: settledAt})
		assert.ErrorIs(t, err, storage.ErrStatusConflict)
	})

	t.Run("Rollback Restores Tokenized", func(t *testing.T) {
		s := New()
		inv := seedInvoice(t, s, models.TOKENIZED)
		offer, escrow := offerFor(inv, "funder-1")
		require.NoError(t, s.ClaimFunding(ctx, offer, escrow))

		require.NoError(t, s.RollbackFunding(ctx, inv.ID, offer.ID))

		got, _ := s.GetInvoice(ctx, inv.ID)
		assert.Equal(t, models.TOKENIZED, got.Status)
		_, err := s.GetFundingOffer(ctx, inv.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.GetEscrow(ctx, inv.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Confirm With Wrong Offer", func(t *testing.T) {
		s := New()
		inv := seedInvoice(t, s, models.TOKENIZED)
		offer, escrow := offerFor(inv, "funder-1")
		require.NoError(t, s.ClaimFunding(ctx, offer, escrow))

		err := s.ConfirmFunding(ctx, inv.ID, "fund_other", &models.ChainAnchor{})
		assert.ErrorIs(t, err, storage.ErrStatusConflict)
	})

	t.Run("Concurrent Claims Have One Winner", func(t *testing.T) {
		s := New()
		inv := seedInvoice(t, s, models.TOKENIZED)

		const funders = 20
		var wg sync.WaitGroup
		results := make(chan error, funders)
		for i := 0; i < funders; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				offer, escrow := offerFor(inv, id.NewFundingID())
				results <- s.ClaimFunding(ctx, offer, escrow)
			}()
		}
		wg.Wait()
		close(results)

		wins := 0
		for err := range results {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, storage.ErrStatusConflict)
			}
		}
		assert.Equal(t, 1, wins)
	})

	t.Run("Stuck Fundings", func(t *testing.T) {
		s := New()
		inv := seedInvoice(t, s, models.TOKENIZED)
		offer, escrow := offerFor(inv, "funder-1")
		require.NoError(t, s.ClaimFunding(ctx, offer, escrow))

		stuck, err := s.ListStuckFundings(ctx, time.Hour)
		require.NoError(t, err)
		assert.Empty(t, stuck)

		stuck, err = s.ListStuckFundings(ctx, -time.Second)
		require.NoError(t, err)
		require.Len(t, stuck, 1)
		assert.Equal(t, inv.ID, stuck[0].ID)
	})
}

func TestListStuckFundingsFollowsClock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return now }))
	inv := seedInvoice(t, s, models.TOKENIZED)
	offer, escrow := offerFor(inv, "funder-1")
	require.NoError(t, s.ClaimFunding(ctx, offer, escrow))

	stuck, err := s.ListStuckFundings(ctx, 15*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, stuck)

	now = now.Add(16 * time.Minute)
	stuck, err = s.ListStuckFundings(ctx, 15*time.Minute)
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	assert.Equal(t, inv.ID, stuck[0].ID)
	assert.Equal(t, now.Add(-16*time.Minute), stuck[0].UpdatedAt)
}
