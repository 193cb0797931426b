package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

const poolColumns = `id, name, chain_id, vault_address, strategy_address, token_address,
	token_symbol, token_decimals, slippage_tolerance, status, created_at, updated_at`

func scanPool(row pgx.Row) (model.Pool, error) {
	var (
		p        model.Pool
		chainID  int64
		decimals int16
		slippage int32
		status   string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &chainID, &p.VaultAddress, &p.StrategyAddress, &p.TokenAddress,
		&p.TokenSymbol, &decimals, &slippage, &status, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return model.Pool{}, err
	}
	p.ChainID = uint64(chainID)
	p.TokenDecimals = uint8(decimals)
	p.SlippageTolerance = uint32(slippage)
	p.Status = model.Status(status)
	return p, nil
}

func (s *Store) ListPools(ctx context.Context, filter storage.PoolFilter, req paging.Request) ([]model.Pool, int64, error) {
	var w where
	if filter.Status != "" {
		w.eq("status", string(filter.Status))
	}
	if filter.ChainID != 0 {
		w.eq("chain_id", int64(filter.ChainID))
	}
	w.search(filter.Search, "name", "token_symbol", "vault_address", "strategy_address", "token_address")

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM pools`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pools: %w", err)
	}

	suffix, args := w.page(req)
	rows, err := s.pool.Query(ctx, `SELECT `+poolColumns+` FROM pools`+w.String()+` ORDER BY created_at DESC, id ASC`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pools: %w", err)
	}
	defer rows.Close()

	pools := make([]model.Pool, 0, req.Limit)
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pool: %w", err)
		}
		pools = append(pools, p)
	}
	return pools, total, rows.Err()
}

func (s *Store) GetPool(ctx context.Context, id string) (model.Pool, error) {
	p, err := scanPool(s.pool.QueryRow(ctx, `SELECT `+poolColumns+` FROM pools WHERE id = $1`, id))
	if err != nil {
		return model.Pool{}, mapError(err, "pool "+id)
	}
	return p, nil
}

func (s *Store) CreatePool(ctx context.Context, pool *model.Pool) error {
	if pool.ID == "" {
		pool.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO pools (
			id, name, chain_id, vault_address, strategy_address, token_address,
			token_symbol, token_decimals, slippage_tolerance, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING created_at, updated_at
	`,
		pool.ID,
		pool.Name,
		int64(pool.ChainID),
		pool.VaultAddress,
		pool.StrategyAddress,
		pool.TokenAddress,
		pool.TokenSymbol,
		int16(pool.TokenDecimals),
		int32(pool.SlippageTolerance),
		string(pool.Status),
	)
	if err := row.Scan(&pool.CreatedAt, &pool.UpdatedAt); err != nil {
		return mapError(err, fmt.Sprintf("pool %d/%s", pool.ChainID, pool.VaultAddress))
	}
	return nil
}

func (s *Store) UpdatePool(ctx context.Context, pool *model.Pool) error {
	row := s.pool.QueryRow(ctx, `
		UPDATE pools SET
			name = $2,
			strategy_address = $3,
			token_symbol = $4,
			token_decimals = $5,
			slippage_tolerance = $6,
			updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`,
		pool.ID,
		pool.Name,
		pool.StrategyAddress,
		pool.TokenSymbol,
		int16(pool.TokenDecimals),
		int32(pool.SlippageTolerance),
	)
	if err := row.Scan(&pool.CreatedAt, &pool.UpdatedAt); err != nil {
		return mapError(err, "pool "+pool.ID)
	}
	return nil
}

func (s *Store) SetPoolStatus(ctx context.Context, id string, status model.Status) error {
	tag, err := s.pool.Exec(ctx, `UPDATE pools SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return mapError(err, "pool "+id)
	}
	return requireAffected(tag, "pool "+id)
}
