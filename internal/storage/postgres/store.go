package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tickscope/internal/model"
)

// Store provides Postgres persistence for pool snapshots and curve rows.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertSnapshot inserts or updates the pool snapshot row.
func (s *Store) UpsertSnapshot(ctx context.Context, snap model.PoolSnapshot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pool_snapshots (
			chain_id, pool_address, block_number, sqrt_price_x96, current_tick,
			tick_spacing, fee, liquidity, token0, token1, decimals0, decimals1,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now(),now())
		ON CONFLICT (chain_id, pool_address)
		DO UPDATE SET
			block_number = EXCLUDED.block_number,
			sqrt_price_x96 = EXCLUDED.sqrt_price_x96,
			current_tick = EXCLUDED.current_tick,
			tick_spacing = EXCLUDED.tick_spacing,
			fee = EXCLUDED.fee,
			liquidity = EXCLUDED.liquidity,
			token0 = EXCLUDED.token0,
			token1 = EXCLUDED.token1,
			decimals0 = EXCLUDED.decimals0,
			decimals1 = EXCLUDED.decimals1,
			updated_at = now()
	`,
		int64(snap.ChainID),
		snap.Address,
		int64(snap.BlockNumber),
		snap.SqrtPriceX96.String(),
		snap.Tick,
		snap.TickSpacing,
		snap.Fee,
		snap.Liquidity.String(),
		snap.Token0.Address,
		snap.Token1.Address,
		snap.Token0.Decimals,
		snap.Token1.Decimals,
	)
	return err
}

// UpsertCurve inserts or updates the per-tick curve rows for a pool at a
// block height.
func (s *Store) UpsertCurve(ctx context.Context, chainID uint64, poolAddress string, blockNumber uint64, points []model.CurvePoint) error {
	if len(points) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(`
			INSERT INTO pool_ticks (
				chain_id, pool_address, tick, block_number, price,
				liquidity_gross, liquidity_net, liquidity_active, initialized,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now(),now())
			ON CONFLICT (chain_id, pool_address, tick)
			DO UPDATE SET
				block_number = EXCLUDED.block_number,
				price = EXCLUDED.price,
				liquidity_gross = EXCLUDED.liquidity_gross,
				liquidity_net = EXCLUDED.liquidity_net,
				liquidity_active = EXCLUDED.liquidity_active,
				initialized = EXCLUDED.initialized,
				updated_at = now()
		`,
			int64(chainID),
			poolAddress,
			p.Tick,
			int64(blockNumber),
			p.Price,
			p.LiquidityGross,
			p.LiquidityNet,
			p.LiquidityActive,
			p.Initialized,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range points {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
