package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "STORE_BACKEND", "ANCHOR_BACKEND", "EVENTS_BACKEND", "ANCHOR_TIMEOUT", "STUCK_FUNDING_THRESHOLD"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, AnchorLevelDB, cfg.AnchorBackend)
	assert.Equal(t, EventsNone, cfg.EventsBackend)
	assert.Equal(t, 10*time.Second, cfg.AnchorTimeout)
	assert.Equal(t, 15*time.Minute, cfg.StuckFundingThreshold)
	assert.False(t, cfg.NeedsAWS())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", StorePostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/marketplace?sslmode=disable")
	t.Setenv("ANCHOR_TIMEOUT", "3s")
	t.Setenv("ANCHOR_CONFIRMATIONS", "6")
	t.Setenv("EVENTS_BACKEND", EventsRedis)
	t.Setenv("REDIS_STREAM", "invoices")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.AnchorTimeout)
	assert.Equal(t, 6, cfg.AnchorConfirmations)
	assert.Equal(t, "invoices", cfg.RedisStream)
}

func TestFromEnvErrors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad duration", map[string]string{"ANCHOR_TIMEOUT": "soon"}, "ANCHOR_TIMEOUT"},
		{"bad integer", map[string]string{"ANCHOR_CONFIRMATIONS": "many"}, "ANCHOR_CONFIRMATIONS"},
		{"unknown store", map[string]string{"STORE_BACKEND": "mongo"}, "STORE_BACKEND"},
		{"dynamodb without tables", map[string]string{"STORE_BACKEND": StoreDynamoDB, "DYNAMODB_INVOICES_TABLE_NAME": ""}, "DynamoDB"},
		{"http anchor without url", map[string]string{"ANCHOR_BACKEND": AnchorHTTP, "ANCHOR_URL": ""}, "ANCHOR_URL"},
		{"sqs without queue", map[string]string{"EVENTS_BACKEND": EventsSQS, "SQS_EVENTS_QUEUE_URL": ""}, "SQS_EVENTS_QUEUE_URL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := FromEnv()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
