package marketplace

import (
	"context"
	"fmt"
	"log/slog"
)

// ReconcileReport summarises one reconciliation run.
type ReconcileReport struct {
	Examined   int `json:"examined"`
	Confirmed  int `json:"confirmed"`
	RolledBack int `json:"rolled_back"`
	Failed     int `json:"failed"`
}

// ReconcileStuckFundings re-drives funding claims that have been waiting for their anchor
// longer than the stuck funding threshold, e.g. after a crash between claim and anchor.
// The anchor is resubmitted under the original idempotency key: success confirms the
// funding, failure rolls the claim back.
func (f *FundingEngine) ReconcileStuckFundings(ctx context.Context) (*ReconcileReport, error) {
	stuck, err := f.store.ListStuckFundings(ctx, f.cfg.StuckFundingThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list stuck fundings: %w", err)
	}

	report := &ReconcileReport{}
	for i := range stuck {
		inv := &stuck[i]
		report.Examined++

		offer, err := f.store.GetFundingOffer(ctx, inv.ID)
		if err != nil || inv.Tokenization == nil {
			slog.ErrorContext(ctx, "cannot reconcile funding", "invoice_id", inv.ID, "error", err)
			report.Failed++
			continue
		}

		proof, _, err := f.anchorFunding(ctx, inv, offer)
		if err != nil {
			if rbErr := f.store.RollbackFunding(ctx, inv.ID, offer.ID); rbErr != nil {
				slog.ErrorContext(ctx, "failed to roll back stuck funding", "invoice_id", inv.ID, "error", rbErr)
				report.Failed++
				continue
			}
			slog.InfoContext(ctx, "stuck funding rolled back", "invoice_id", inv.ID, "offer_id", offer.ID)
			report.RolledBack++
			continue
		}

		if err := f.confirm(ctx, inv.ID, offer, proof); err != nil {
			slog.ErrorContext(ctx, "failed to confirm stuck funding", "invoice_id", inv.ID, "error", err)
			report.Failed++
			continue
		}
		report.Confirmed++
	}

	slog.InfoContext(ctx, "funding reconciliation finished",
		"examined", report.Examined, "confirmed", report.Confirmed,
		"rolled_back", report.RolledBack, "failed", report.Failed)
	return report, nil
}
