// Package config reads process configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend names.
const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	AnchorLevelDB = "leveldb"
	AnchorHTTP    = "http"

	EventsSQS   = "sqs"
	EventsRedis = "redis"
	EventsNone  = "none"
)

// Config holds every setting the entry points need.
type Config struct {
	HTTPPort string

	StoreBackend  string
	InvoicesTable string
	OffersTable   string
	EscrowTable   string
	LedgerTable   string
	DatabaseURL   string

	AnchorBackend       string
	AnchorLevelDBPath   string
	AnchorURL           string
	AnchorAPIKey        string
	AnchorTimeout       time.Duration
	AnchorConfirmations int

	EventsBackend     string
	EventsQueueURL    string
	PaymentsQueueURL  string
	RedisAddr         string
	RedisStream       string
	RedisStreamMaxLen int64

	StuckFundingThreshold time.Duration
	PayerAccountID        string
	Network               string
}

// Load reads the configuration. Missing keys fall back to development defaults
// (memory store, local chain, no events).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		StoreBackend:  getEnv("STORE_BACKEND", StoreMemory),
		InvoicesTable: os.Getenv("DYNAMODB_INVOICES_TABLE_NAME"),
		OffersTable:   os.Getenv("DYNAMODB_OFFERS_TABLE_NAME"),
		EscrowTable:   os.Getenv("DYNAMODB_ESCROW_TABLE_NAME"),
		LedgerTable:   os.Getenv("DYNAMODB_LEDGER_TABLE_NAME"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		AnchorBackend:       getEnv("ANCHOR_BACKEND", AnchorLevelDB),
		AnchorLevelDBPath:   os.Getenv("ANCHOR_LEVELDB_PATH"),
		AnchorURL:           os.Getenv("ANCHOR_URL"),
		AnchorAPIKey:        os.Getenv("ANCHOR_API_KEY"),
		AnchorTimeout:       p.duration("ANCHOR_TIMEOUT", 10*time.Second),
		AnchorConfirmations: p.integer("ANCHOR_CONFIRMATIONS", 1),

		EventsBackend:     getEnv("EVENTS_BACKEND", EventsNone),
		EventsQueueURL:    os.Getenv("SQS_EVENTS_QUEUE_URL"),
		PaymentsQueueURL:  os.Getenv("SQS_PAYMENTS_QUEUE_URL"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisStream:       getEnv("REDIS_STREAM", "marketplace-events"),
		RedisStreamMaxLen: int64(p.integer("REDIS_STREAM_MAXLEN", 10000)),

		StuckFundingThreshold: p.duration("STUCK_FUNDING_THRESHOLD", 15*time.Minute),
		PayerAccountID:        getEnv("PAYER_ACCOUNT_ID", "payer"),
		Network:               getEnv("ANCHOR_NETWORK", ""),
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case StoreDynamoDB:
		if c.InvoicesTable == "" || c.OffersTable == "" || c.EscrowTable == "" || c.LedgerTable == "" {
			errs = append(errs, errors.New("one or more DynamoDB table name environment variables are not set"))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL environment variable not set"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.AnchorBackend {
	case AnchorLevelDB:
	case AnchorHTTP:
		if c.AnchorURL == "" {
			errs = append(errs, errors.New("ANCHOR_URL environment variable not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ANCHOR_BACKEND %q", c.AnchorBackend))
	}

	switch c.EventsBackend {
	case EventsSQS:
		if c.EventsQueueURL == "" {
			errs = append(errs, errors.New("SQS_EVENTS_QUEUE_URL environment variable not set"))
		}
	case EventsRedis, EventsNone:
	default:
		errs = append(errs, fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend))
	}

	if c.AnchorConfirmations < 1 {
		errs = append(errs, errors.New("ANCHOR_CONFIRMATIONS must be at least 1"))
	}
	return errors.Join(errs...)
}

// NeedsAWS reports whether any selected backend talks to AWS.
func (c *Config) NeedsAWS() bool {
	return c.StoreBackend == StoreDynamoDB || c.EventsBackend == EventsSQS || c.PaymentsQueueURL != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// parser keeps the first conversion error.
type parser struct {
	err error
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(fmt.Errorf("invalid %s %q: %w", key, v, err))
		return fallback
	}
	return d
}

func (p *parser) integer(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(fmt.Errorf("invalid %s %q: %w", key, v, err))
		return fallback
	}
	return n
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
