package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/chris/invoice-funding-marketplace/pkg/config"
	"github.com/chris/invoice-funding-marketplace/pkg/events"
	"github.com/chris/invoice-funding-marketplace/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devConfig() *config.Config {
	return &config.Config{
		StoreBackend:        config.StoreMemory,
		AnchorBackend:       config.AnchorLevelDB,
		EventsBackend:       config.EventsNone,
		AnchorConfirmations: 1,
	}
}

func TestBuildDevelopmentDefaults(t *testing.T) {
	deps, err := Build(context.Background(), devConfig())
	require.NoError(t, err)
	defer deps.Close()

	assert.IsType(t, &memory.Store{}, deps.Store)
	assert.NotNil(t, deps.Chain)
	assert.Equal(t, events.NoOpPublisher{}, deps.Publisher)
	assert.Nil(t, deps.Scheduler)
	assert.NotNil(t, deps.Marketplace(devConfig()))
}

func TestBuildPersistentChain(t *testing.T) {
	cfg := devConfig()
	cfg.AnchorLevelDBPath = filepath.Join(t.TempDir(), "chain")

	deps, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, deps.Close())

	// The database lock is released on Close, so it can be reopened.
	deps, err = Build(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, deps.Close())
}

func TestBuildRedisEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := devConfig()
	cfg.EventsBackend = config.EventsRedis
	cfg.RedisAddr = mr.Addr()
	cfg.RedisStream = "events"

	deps, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer deps.Close()

	assert.IsType(t, &events.RedisStreamPublisher{}, deps.Publisher)
}

func TestBuildRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := devConfig()
	cfg.EventsBackend = config.EventsRedis
	cfg.RedisAddr = addr

	deps, err := Build(context.Background(), cfg)

	assert.Error(t, err)
	assert.Nil(t, deps)
}
