// Package bootstrap builds the marketplace dependencies selected by the configuration.
// Every entry point goes through Build so they all agree on the wiring.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/invoice-funding-marketplace/pkg/anchor"
	"github.com/chris/invoice-funding-marketplace/pkg/anchor/httpanchor"
	"github.com/chris/invoice-funding-marketplace/pkg/anchor/localchain"
	"github.com/chris/invoice-funding-marketplace/pkg/config"
	"github.com/chris/invoice-funding-marketplace/pkg/events"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
	"github.com/chris/invoice-funding-marketplace/pkg/scheduler"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
	dydbstore "github.com/chris/invoice-funding-marketplace/pkg/storage/dynamodb"
	"github.com/chris/invoice-funding-marketplace/pkg/storage/memory"
	"github.com/chris/invoice-funding-marketplace/pkg/storage/postgres"
	"github.com/go-redis/redis/v8"
)

// Deps are the wired backends. Chain and DB are set only for the backends that use them.
type Deps struct {
	Store     storage.Storage
	Anchor    anchor.Client
	Publisher events.Publisher
	// Scheduler is nil unless SQS_PAYMENTS_QUEUE_URL is set.
	Scheduler scheduler.Scheduler

	Chain *localchain.Chain
	DB    *sql.DB

	closers []func() error
}

// Build opens every backend named in cfg. On error, whatever was opened is closed again.
func Build(ctx context.Context, cfg *config.Config) (*Deps, error) {
	deps := &Deps{}
	if err := deps.build(ctx, cfg); err != nil {
		_ = deps.Close()
		return nil, err
	}
	return deps, nil
}

func (d *Deps) build(ctx context.Context, cfg *config.Config) error {
	var awsCfg aws.Config
	if cfg.NeedsAWS() {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("unable to load SDK config: %w", err)
		}
	}

	if err := d.buildStore(ctx, cfg, awsCfg); err != nil {
		return err
	}
	if err := d.buildAnchor(cfg); err != nil {
		return err
	}
	if err := d.buildEvents(ctx, cfg, awsCfg); err != nil {
		return err
	}
	if cfg.PaymentsQueueURL != "" {
		d.Scheduler = scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), cfg.PaymentsQueueURL)
	}
	return nil
}

func (d *Deps) buildStore(ctx context.Context, cfg *config.Config, awsCfg aws.Config) error {
	switch cfg.StoreBackend {
	case config.StoreDynamoDB:
		d.Store = dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.InvoicesTable, cfg.OffersTable, cfg.EscrowTable, cfg.LedgerTable)
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		d.DB = db
		d.closers = append(d.closers, db.Close)
		d.Store = postgres.New(db)
	default:
		slog.Warn("using in-memory store, data is lost on restart")
		d.Store = memory.New()
	}
	return nil
}

func (d *Deps) buildAnchor(cfg *config.Config) error {
	if cfg.AnchorBackend == config.AnchorHTTP {
		d.Anchor = httpanchor.New(cfg.AnchorURL, cfg.AnchorAPIKey)
		return nil
	}

	var (
		chain *localchain.Chain
		err   error
	)
	if cfg.AnchorLevelDBPath == "" {
		slog.Warn("ANCHOR_LEVELDB_PATH not set, local chain is kept in memory")
		chain, err = localchain.OpenInMemory()
	} else {
		chain, err = localchain.Open(cfg.AnchorLevelDBPath)
	}
	if err != nil {
		return fmt.Errorf("failed to open local chain: %w", err)
	}
	d.Chain = chain
	d.Anchor = chain
	d.closers = append(d.closers, chain.Close)
	return nil
}

func (d *Deps) buildEvents(ctx context.Context, cfg *config.Config, awsCfg aws.Config) error {
	switch cfg.EventsBackend {
	case config.EventsSQS:
		d.Publisher = events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL)
	case config.EventsRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		d.closers = append(d.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		d.Publisher = events.NewRedisStreamPublisher(client, cfg.RedisStream, cfg.RedisStreamMaxLen)
	default:
		d.Publisher = events.NoOpPublisher{}
	}
	return nil
}

// Marketplace assembles the service on top of the backends.
func (d *Deps) Marketplace(cfg *config.Config) *marketplace.Marketplace {
	return marketplace.New(d.Store, d.Anchor, d.Publisher, marketplace.Config{
		AnchorTimeout:         cfg.AnchorTimeout,
		RequiredConfirmations: uint64(cfg.AnchorConfirmations),
		StuckFundingThreshold: cfg.StuckFundingThreshold,
		PayerAccountID:        cfg.PayerAccountID,
		Network:               cfg.Network,
	})
}

// Close releases the backends in reverse order of opening.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	d.closers = nil
	return errors.Join(errs...)
}
