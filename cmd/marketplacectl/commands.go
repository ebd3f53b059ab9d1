package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/bootstrap"
	"github.com/chris/invoice-funding-marketplace/pkg/config"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
	"github.com/chris/invoice-funding-marketplace/pkg/storage/postgres"
	"github.com/spf13/cobra"
)

type app struct {
	cfg  *config.Config
	deps *bootstrap.Deps
	out  io.Writer
}

// connect builds the backends on first use. Tests inject them up front.
func (a *app) connect(ctx context.Context) error {
	if a.deps != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	deps, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}
	a.cfg, a.deps = cfg, deps
	return nil
}

func (a *app) close() error {
	if a.deps == nil {
		return nil
	}
	return a.deps.Close()
}

func (a *app) service() *marketplace.Marketplace {
	return a.deps.Marketplace(a.cfg)
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "marketplacectl",
		Short:         "Operate the invoice funding marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd.Context())
		},
	}

	rootCmd.AddCommand(verifyCmd(a))
	rootCmd.AddCommand(verifyRecordCmd(a))
	rootCmd.AddCommand(reconcileCmd(a))
	rootCmd.AddCommand(settleCmd(a))
	rootCmd.AddCommand(migrateCmd(a))
	rootCmd.AddCommand(chainCmd(a))
	return rootCmd
}

func verifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <invoice-id>",
		Short: "Check an invoice's content hash against its anchor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.service().Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(result)
		},
	}
}

func verifyRecordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-record",
		Short: "Check an arbitrary content hash against an anchor reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, _ := cmd.Flags().GetString("reference")
			hash, _ := cmd.Flags().GetString("hash")
			result, err := a.service().VerifyRecord(cmd.Context(), reference, hash)
			if err != nil {
				return err
			}
			return a.print(result)
		},
	}
	cmd.Flags().String("reference", "", "Token ID or transaction hash of the anchor")
	cmd.Flags().String("hash", "", "Hex encoded SHA-256 content hash")
	_ = cmd.MarkFlagRequired("reference")
	_ = cmd.MarkFlagRequired("hash")
	return cmd
}

func reconcileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Confirm or roll back fundings stuck waiting for their anchor",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.service().ReconcileStuckFundings(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(report)
		},
	}
}

func settleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle <invoice-id>",
		Short: "Record a payer payment for a funded invoice",
		Long: "Settles the invoice immediately, or with --queue hands a payer payment " +
			"to the settlement worker through SQS_PAYMENTS_QUEUE_URL.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, _ := cmd.Flags().GetBool("queue")
			delay, _ := cmd.Flags().GetDuration("delay")
			if !queue {
				inv, err := a.service().Settle(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(inv)
			}
			if a.deps.Scheduler == nil {
				return errors.New("SQS_PAYMENTS_QUEUE_URL environment variable not set")
			}
			if err := a.deps.Scheduler.SchedulePayment(cmd.Context(), args[0], delay); err != nil {
				return err
			}
			return a.print(map[string]string{"invoice_id": args[0], "queued": "true"})
		},
	}
	cmd.Flags().Bool("queue", false, "Queue the payment for the settlement worker instead of settling inline")
	cmd.Flags().Duration("delay", 0, "Delivery delay for a queued payment (at most 15m)")
	return cmd
}

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.deps.DB == nil {
				return errors.New("migrate requires STORE_BACKEND=postgres")
			}
			return postgres.Migrate(cmd.Context(), a.deps.DB)
		},
	}
}

func chainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Inspect the local anchor chain",
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Recompute every block hash and check the links between blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.deps.Chain == nil {
				return errors.New("chain validate requires ANCHOR_BACKEND=leveldb")
			}
			start := time.Now()
			height, err := a.deps.Chain.Validate(cmd.Context())
			if err != nil {
				return fmt.Errorf("chain invalid after block %d: %w", height, err)
			}
			return a.print(map[string]any{"valid": true, "height": height, "took": time.Since(start).String()})
		},
	}
	cmd.AddCommand(validateCmd)
	return cmd
}
