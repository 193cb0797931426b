package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"yieldDesk/internal/model"
)

// SaveTVLSnapshots inserts snapshots, ignoring exact (pool, fetched_at) repeats.
func (s *Store) SaveTVLSnapshots(ctx context.Context, snapshots []model.TVLSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		batch.Queue(`
			INSERT INTO tvl_snapshots (
				pool_id, chain_id, strategy_address, tvl, formatted, decimals, method, error, fetched_at
			) VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9)
			ON CONFLICT (pool_id, fetched_at) DO NOTHING
		`,
			snap.PoolID,
			int64(snap.ChainID),
			snap.StrategyAddress,
			snap.TVL,
			snap.Formatted,
			int16(snap.Decimals),
			snap.Method,
			snap.Error,
			snap.FetchedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert tvl snapshot: %w", err)
		}
	}
	return nil
}

// LatestTVLSnapshots returns the newest snapshot per pool id.
func (s *Store) LatestTVLSnapshots(ctx context.Context, poolIDs []string) (map[string]model.TVLSnapshot, error) {
	out := make(map[string]model.TVLSnapshot, len(poolIDs))
	if len(poolIDs) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (pool_id)
			pool_id, chain_id, strategy_address, tvl::text, formatted, decimals, method, error, fetched_at
		FROM tvl_snapshots
		WHERE pool_id = ANY($1)
		ORDER BY pool_id, fetched_at DESC
	`, poolIDs)
	if err != nil {
		return nil, fmt.Errorf("query tvl snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			snap     model.TVLSnapshot
			chainID  int64
			decimals int16
		)
		if err := rows.Scan(&snap.PoolID, &chainID, &snap.StrategyAddress, &snap.TVL, &snap.Formatted, &decimals, &snap.Method, &snap.Error, &snap.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan tvl snapshot: %w", err)
		}
		snap.ChainID = uint64(chainID)
		snap.Decimals = uint8(decimals)
		out[snap.PoolID] = snap
	}
	return out, rows.Err()
}
