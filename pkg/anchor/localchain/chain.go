// Package localchain is a single-node, hash-chained anchor backed by LevelDB.
//
// Every anchored hash becomes one block. Blocks are stored twice, by height
// ("block_<n>") and indexed by transaction hash, token ID and idempotency key,
// so lookups never scan the chain.
package localchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/anchor"
	"github.com/chris/invoice-funding-marketplace/pkg/hashing"
	"github.com/chris/invoice-funding-marketplace/pkg/id"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

const (
	keyHeight    = "height_latest"
	genesisHash  = "0000000000000000000000000000000000000000000000000000000000000000"
	prefixBlock  = "block_"
	prefixTx     = "tx_"
	prefixToken  = "token_"
	prefixIdem   = "idem_"
	txHashPrefix = "0x"
)

// Block is one anchored content hash.
type Block struct {
	Height         uint64 `json:"height"`
	PrevHash       string `json:"prev_hash"`
	Timestamp      string `json:"timestamp"`
	ContentHash    string `json:"content_hash"`
	IdempotencyKey string `json:"idempotency_key"`
	TokenID        string `json:"token_id"`
	BlockHash      string `json:"block_hash"`
}

// computeHash hashes every header field except BlockHash.
func (b *Block) computeHash() string {
	header := *b
	header.BlockHash = ""
	data, err := json.Marshal(header)
	if err != nil {
		panic(err)
	}
	return hashing.Sha256Hex(data)
}

func (b *Block) txHash() string {
	return txHashPrefix + b.BlockHash
}

func (b *Block) toAnchor() (*models.ChainAnchor, error) {
	ts, err := time.Parse(time.RFC3339Nano, b.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse block timestamp: %w", err)
	}
	return &models.ChainAnchor{
		TokenID:     b.TokenID,
		TxHash:      b.txHash(),
		BlockNumber: b.Height,
		Timestamp:   ts,
		ContentHash: b.ContentHash,
	}, nil
}

// Chain implements anchor.Client.
type Chain struct {
	mu sync.Mutex
	db *leveldb.DB
}

var _ anchor.Client = (*Chain)(nil)

// Open opens or creates a chain at path.
func Open(path string) (*Chain, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}
	slog.Info("local anchor chain opened", "path", path)
	return &Chain{db: db}, nil
}

// OpenInMemory creates a chain that lives only as long as the process.
func OpenInMemory() (*Chain, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory leveldb: %w", err)
	}
	return &Chain{db: db}, nil
}

// Close closes the underlying database.
func (c *Chain) Close() error {
	return c.db.Close()
}

// Height returns the height of the latest block, 0 for an empty chain.
func (c *Chain) Height() (uint64, error) {
	v, err := c.db.Get([]byte(keyHeight), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read chain height: %w", err)
	}
	return strconv.ParseUint(string(v), 10, 64)
}

// Anchor appends a block for req.ContentHash, or returns the block already recorded
// under req.IdempotencyKey.
func (c *Chain) Anchor(ctx context.Context, req anchor.Request) (*models.ChainAnchor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.ContentHash == "" || req.IdempotencyKey == "" {
		return nil, errors.New("content hash and idempotency key are required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.lookup(prefixIdem + req.IdempotencyKey)
	if err == nil {
		if existing.ContentHash != req.ContentHash {
			return nil, anchor.ErrIdempotencyConflict
		}
		slog.DebugContext(ctx, "anchor replayed", "idempotency_key", req.IdempotencyKey, "height", existing.Height)
		return existing.toAnchor()
	}
	if !errors.Is(err, anchor.ErrNotFound) {
		return nil, err
	}

	height, err := c.Height()
	if err != nil {
		return nil, err
	}
	prevHash := genesisHash
	if height > 0 {
		prev, err := c.blockAt(height)
		if err != nil {
			return nil, err
		}
		prevHash = prev.BlockHash
	}

	block := &Block{
		Height:         height + 1,
		PrevHash:       prevHash,
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
		ContentHash:    req.ContentHash,
		IdempotencyKey: req.IdempotencyKey,
		TokenID:        id.NewTokenID(),
	}
	block.BlockHash = block.computeHash()

	if err := c.append(block); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "block anchored", "height", block.Height, "tx_hash", block.txHash())
	return block.toAnchor()
}

// append writes the block and its indexes in one batch.
func (c *Chain) append(block *Block) error {
	data, err := json.Marshal(block)
	if err != nil {
		return fmt.Errorf("failed to marshal block: %w", err)
	}
	ptr := []byte(strconv.FormatUint(block.Height, 10))

	batch := new(leveldb.Batch)
	batch.Put(blockKey(block.Height), data)
	batch.Put([]byte(prefixTx+block.txHash()), ptr)
	batch.Put([]byte(prefixToken+block.TokenID), ptr)
	batch.Put([]byte(prefixIdem+block.IdempotencyKey), ptr)
	batch.Put([]byte(keyHeight), ptr)

	if err := c.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to write block %d: %w", block.Height, err)
	}
	return nil
}

// Verify resolves ref, a transaction hash or token ID, to its block.
func (c *Chain) Verify(ctx context.Context, ref string) (*anchor.Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := prefixToken + ref
	if strings.HasPrefix(ref, txHashPrefix) {
		key = prefixTx + ref
	}
	block, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	height, err := c.Height()
	if err != nil {
		return nil, err
	}
	a, err := block.toAnchor()
	if err != nil {
		return nil, err
	}

	return &anchor.Confirmation{
		Confirmed:     true,
		Confirmations: height - block.Height + 1,
		TokenID:       a.TokenID,
		TxHash:        a.TxHash,
		BlockNumber:   a.BlockNumber,
		Timestamp:     a.Timestamp,
		ContentHash:   a.ContentHash,
	}, nil
}

// Validate walks the chain from genesis and checks every hash link.
func (c *Chain) Validate(ctx context.Context) (uint64, error) {
	height, err := c.Height()
	if err != nil {
		return 0, err
	}
	prevHash := genesisHash
	for h := uint64(1); h <= height; h++ {
		if err := ctx.Err(); err != nil {
			return h - 1, err
		}
		block, err := c.blockAt(h)
		if err != nil {
			return h - 1, err
		}
		if block.PrevHash != prevHash {
			return h - 1, fmt.Errorf("block %d: previous hash mismatch", h)
		}
		if block.computeHash() != block.BlockHash {
			return h - 1, fmt.Errorf("block %d: hash mismatch", h)
		}
		prevHash = block.BlockHash
	}
	return height, nil
}

func blockKey(height uint64) []byte {
	return []byte(prefixBlock + strconv.FormatUint(height, 10))
}

func (c *Chain) blockAt(height uint64) (*Block, error) {
	data, err := c.db.Get(blockKey(height), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read block %d: %w", height, err)
	}
	var block Block
	if err := json.Unmarshal(data, &block); err != nil {
		return nil, fmt.Errorf("failed to unmarshal block %d: %w", height, err)
	}
	return &block, nil
}

// lookup follows an index key to its block.
func (c *Chain) lookup(indexKey string) (*Block, error) {
	ptr, err := c.db.Get([]byte(indexKey), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, anchor.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	height, err := strconv.ParseUint(string(ptr), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt index %s: %w", indexKey, err)
	}
	return c.blockAt(height)
}
