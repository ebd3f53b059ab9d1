package localchain

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/chris/invoice-funding-marketplace/pkg/anchor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChain(t *testing.T) *Chain {
	t.Helper()
	c, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAnchor(t *testing.T) {
	ctx := context.Background()

	t.Run("Appends Linked Blocks", func(t *testing.T) {
		c := newTestChain(t)

		first, err := c.Anchor(ctx, anchor.Request{ContentHash: "h1", IdempotencyKey: "k1"})
		require.NoError(t, err)
		second, err := c.Anchor(ctx, anchor.Request{ContentHash: "h2", IdempotencyKey: "k2"})
		require.NoError(t, err)

		assert.Equal(t, uint64(1), first.BlockNumber)
		assert.Equal(t, uint64(2), second.BlockNumber)
		assert.Equal(t, "h1", first.ContentHash)
		assert.NotEqual(t, first.TxHash, second.TxHash)
		assert.Contains(t, first.TokenID, "tok_")

		blk, err := c.blockAt(2)
		require.NoError(t, err)
		assert.Equal(t, first.TxHash, "0x"+blk.PrevHash)

		height, err := c.Validate(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), height)
	})

	t.Run("Replays Idempotency Key", func(t *testing.T) {
		c := newTestChain(t)

		first, err := c.Anchor(ctx, anchor.Request{ContentHash: "h1", IdempotencyKey: "inv_1:h1"})
		require.NoError(t, err)
		again, err := c.Anchor(ctx, anchor.Request{ContentHash: "h1", IdempotencyKey: "inv_1:h1"})
		require.NoError(t, err)

		assert.Equal(t, first, again)
		height, _ := c.Height()
		assert.Equal(t, uint64(1), height)
	})

	t.Run("Rejects Reused Key With Other Hash", func(t *testing.T) {
		c := newTestChain(t)

		_, err := c.Anchor(ctx, anchor.Request{ContentHash: "h1", IdempotencyKey: "k"})
		require.NoError(t, err)
		_, err = c.Anchor(ctx, anchor.Request{ContentHash: "h2", IdempotencyKey: "k"})

		assert.ErrorIs(t, err, anchor.ErrIdempotencyConflict)
	})

	t.Run("Concurrent Same Key Anchors Once", func(t *testing.T) {
		c := newTestChain(t)

		var wg sync.WaitGroup
		hashes := make(chan string, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				a, err := c.Anchor(ctx, anchor.Request{ContentHash: "h", IdempotencyKey: "k"})
				if assert.NoError(t, err) {
					hashes <- a.TxHash
				}
			}()
		}
		wg.Wait()
		close(hashes)

		seen := map[string]bool{}
		for h := range hashes {
			seen[h] = true
		}
		assert.Len(t, seen, 1)
		height, _ := c.Height()
		assert.Equal(t, uint64(1), height)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		c := newTestChain(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := c.Anchor(cctx, anchor.Request{ContentHash: "h", IdempotencyKey: "k"})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	c := newTestChain(t)

	a, err := c.Anchor(ctx, anchor.Request{ContentHash: "h1", IdempotencyKey: "k1"})
	require.NoError(t, err)

	t.Run("By Tx Hash", func(t *testing.T) {
		conf, err := c.Verify(ctx, a.TxHash)
		require.NoError(t, err)
		assert.True(t, conf.Confirmed)
		assert.Equal(t, uint64(1), conf.Confirmations)
		assert.Equal(t, "h1", conf.ContentHash)
		assert.Equal(t, a.TokenID, conf.TokenID)
	})

	t.Run("Confirmations Grow With Chain", func(t *testing.T) {
		_, err := c.Anchor(ctx, anchor.Request{ContentHash: "h2", IdempotencyKey: "k2"})
		require.NoError(t, err)

		conf, err := c.Verify(ctx, a.TokenID)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), conf.Confirmations)
		assert.Equal(t, a, conf.Proof())
	})

	t.Run("Unknown Reference", func(t *testing.T) {
		_, err := c.Verify(ctx, "0xdeadbeef")
		assert.ErrorIs(t, err, anchor.ErrNotFound)
	})
}

func TestValidateDetectsTampering(t *testing.T) {
	ctx := context.Background()
	c := newTestChain(t)

	for _, h := range []string{"h1", "h2", "h3"} {
		_, err := c.Anchor(ctx, anchor.Request{ContentHash: h, IdempotencyKey: h})
		require.NoError(t, err)
	}

	blk, err := c.blockAt(2)
	require.NoError(t, err)
	blk.ContentHash = "forged"
	data, err := json.Marshal(blk)
	require.NoError(t, err)
	require.NoError(t, c.db.Put(blockKey(2), data, nil))

	valid, err := c.Validate(ctx)

	assert.Error(t, err)
	assert.Equal(t, uint64(1), valid)
}
