// Package dex implements the on-chain read capabilities for a V3 pool: one
// consistent pool snapshot, per-tick detail lookups, and bitmap word lookups,
// all via eth_call against the pool contract.
package dex

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"tickscope/internal/chain"
	"tickscope/internal/model"
)

// ReaderConfig controls the bounded retry applied to every pool read.
type ReaderConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

// PoolReader reads a single pool's state. Snapshot pins a block number so
// every subsequent tick and bitmap read observes the same logical state.
type PoolReader struct {
	cfg     ReaderConfig
	chain   *chain.Client
	pool    common.Address
	poolABI abi.ABI
	logger  *zap.Logger
	tokens  *TokenMetaCache

	mu    sync.RWMutex
	block *big.Int
}

// NewPoolReader builds a reader for the given pool address.
func NewPoolReader(cfg ReaderConfig, chainClient *chain.Client, pool common.Address, logger *zap.Logger) (*PoolReader, error) {
	if chainClient == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	poolABI, err := V3PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolReader{
		cfg:     cfg,
		chain:   chainClient,
		pool:    pool,
		poolABI: poolABI,
		logger:  logger,
		tokens:  NewTokenMetaCache(),
	}, nil
}

// Snapshot reads the pool's slot0, liquidity, spacing, and token metadata as
// one consistent view pinned to the latest block, and pins that block for
// later tick and bitmap reads.
func (r *PoolReader) Snapshot(ctx context.Context) (model.PoolSnapshot, error) {
	blockNumber, err := r.chain.LatestBlockNumber(ctx)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("get latest block: %w", err)
	}
	block := new(big.Int).SetUint64(blockNumber)

	chainID, err := r.chain.GetChainID(ctx)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("get chain id: %w", err)
	}

	snapshot := model.PoolSnapshot{
		ChainID:     chainID.Uint64(),
		Address:     r.pool.Hex(),
		BlockNumber: blockNumber,
	}

	values, err := r.call(ctx, "token0", block)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	token0, err := asAddress(values[0])
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("token0: %w", err)
	}

	values, err = r.call(ctx, "token1", block)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	token1, err := asAddress(values[0])
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("token1: %w", err)
	}

	values, err = r.call(ctx, "fee", block)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	feeInt, err := asBigInt(values[0])
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("fee: %w", err)
	}
	snapshot.Fee = uint32(feeInt.Uint64())

	values, err = r.call(ctx, "tickSpacing", block)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	spacingInt, err := asBigInt(values[0])
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("tick spacing: %w", err)
	}
	snapshot.TickSpacing, err = int24FromBig(spacingInt)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("tick spacing: %w", err)
	}

	values, err = r.call(ctx, "slot0", block)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	if len(values) < 2 {
		return model.PoolSnapshot{}, fmt.Errorf("unexpected slot0 values: %d", len(values))
	}
	snapshot.SqrtPriceX96, err = asBigInt(values[0])
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("sqrt price: %w", err)
	}
	tickInt, err := asBigInt(values[1])
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("current tick: %w", err)
	}
	snapshot.Tick, err = int24FromBig(tickInt)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("current tick: %w", err)
	}

	values, err = r.call(ctx, "liquidity", block)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	snapshot.Liquidity, err = asBigInt(values[0])
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("liquidity: %w", err)
	}

	snapshot.Token0 = r.tokenMeta(ctx, token0)
	snapshot.Token1 = r.tokenMeta(ctx, token1)

	r.mu.Lock()
	r.block = block
	r.mu.Unlock()

	return snapshot, nil
}

// TickRecord reads the ticks() tuple for one tick at the pinned block.
func (r *PoolReader) TickRecord(ctx context.Context, tick int32) (model.TickRecord, error) {
	values, err := r.call(ctx, "ticks", r.pinnedBlock(), big.NewInt(int64(tick)))
	if err != nil {
		return model.TickRecord{}, err
	}
	return parseTickRecord(values)
}

func parseTickRecord(values []interface{}) (model.TickRecord, error) {
	if len(values) != 8 {
		return model.TickRecord{}, fmt.Errorf("unexpected ticks values: %d", len(values))
	}

	var err error
	record := model.TickRecord{}
	if record.LiquidityGross, err = asBigInt(values[0]); err != nil {
		return model.TickRecord{}, fmt.Errorf("liquidity gross: %w", err)
	}
	if record.LiquidityNet, err = asBigInt(values[1]); err != nil {
		return model.TickRecord{}, fmt.Errorf("liquidity net: %w", err)
	}
	if record.FeeGrowthOutside0X128, err = asBigInt(values[2]); err != nil {
		return model.TickRecord{}, fmt.Errorf("fee growth outside 0: %w", err)
	}
	if record.FeeGrowthOutside1X128, err = asBigInt(values[3]); err != nil {
		return model.TickRecord{}, fmt.Errorf("fee growth outside 1: %w", err)
	}
	if record.TickCumulativeOutside, err = asBigInt(values[4]); err != nil {
		return model.TickRecord{}, fmt.Errorf("tick cumulative outside: %w", err)
	}
	if record.SecondsPerLiquidityOutsideX128, err = asBigInt(values[5]); err != nil {
		return model.TickRecord{}, fmt.Errorf("seconds per liquidity outside: %w", err)
	}
	if record.SecondsOutside, err = asUint32(values[6]); err != nil {
		return model.TickRecord{}, fmt.Errorf("seconds outside: %w", err)
	}
	if record.Initialized, err = asBool(values[7]); err != nil {
		return model.TickRecord{}, fmt.Errorf("initialized: %w", err)
	}
	return record, nil
}

// BitmapWord reads one 256-bit tick bitmap word at the pinned block.
func (r *PoolReader) BitmapWord(ctx context.Context, word int32) (*uint256.Int, error) {
	if word < math.MinInt16 || word > math.MaxInt16 {
		return nil, fmt.Errorf("word index out of int16 range: %d", word)
	}

	values, err := r.call(ctx, "tickBitmap", r.pinnedBlock(), int16(word))
	if err != nil {
		return nil, err
	}
	raw, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("bitmap word: %w", err)
	}
	value, overflow := uint256.FromBig(raw)
	if overflow {
		return nil, fmt.Errorf("bitmap word overflows 256 bits: %s", raw)
	}
	return value, nil
}

func (r *PoolReader) pinnedBlock() *big.Int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.block
}

func (r *PoolReader) call(ctx context.Context, method string, block *big.Int, args ...interface{}) ([]interface{}, error) {
	data, err := r.poolABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	msg := ethereum.CallMsg{To: &r.pool, Data: data}
	var resp []byte
	err = withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var callErr error
		resp, callErr = r.chain.CallContract(ctx, msg, block)
		if callErr != nil {
			r.logger.Warn("pool call failed", zap.String("method", method), zap.Error(callErr))
		}
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := r.poolABI.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func (r *PoolReader) tokenMeta(ctx context.Context, token common.Address) model.TokenMeta {
	if meta, ok := r.tokens.Get(token); ok {
		return meta
	}
	meta, err := FetchTokenMeta(ctx, r.chain, token, r.logger)
	if err != nil {
		r.logger.Warn("token metadata fetch failed", zap.String("token", token.Hex()), zap.Error(err))
	}
	r.tokens.Set(token, meta)
	return meta
}
