package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

const txColumns = `id, chain_id, tx_hash, user_address, pool_id, type, amount::text, block_number, status, created_at`

func lowerAddr(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func scanTransaction(row pgx.Row) (model.TransactionLog, error) {
	var (
		tx          model.TransactionLog
		chainID     int64
		blockNumber int64
		txType      string
		status      string
	)
	if err := row.Scan(&tx.ID, &chainID, &tx.TxHash, &tx.UserAddress, &tx.PoolID, &txType, &tx.Amount, &blockNumber, &status, &tx.CreatedAt); err != nil {
		return model.TransactionLog{}, err
	}
	tx.ChainID = uint64(chainID)
	tx.BlockNumber = uint64(blockNumber)
	tx.Type = model.TxType(txType)
	tx.Status = model.TxStatus(status)
	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter storage.TransactionFilter, req paging.Request) ([]model.TransactionLog, int64, error) {
	var w where
	if filter.UserAddress != "" {
		w.eq("lower(user_address)", lowerAddr(filter.UserAddress))
	}
	if filter.PoolID != "" {
		w.eq("pool_id", filter.PoolID)
	}
	if filter.Type != "" {
		w.eq("type", string(filter.Type))
	}
	if filter.ChainID != 0 {
		w.eq("chain_id", int64(filter.ChainID))
	}

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM transactions`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	suffix, args := w.page(req)
	rows, err := s.pool.Query(ctx, `SELECT `+txColumns+` FROM transactions`+w.String()+` ORDER BY created_at DESC, id ASC`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]model.TransactionLog, 0, req.Limit)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, total, rows.Err()
}

func (s *Store) GetTransaction(ctx context.Context, id string) (model.TransactionLog, error) {
	tx, err := scanTransaction(s.pool.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		return model.TransactionLog{}, mapError(err, "transaction "+id)
	}
	return tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *model.TransactionLog) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO transactions (id, chain_id, tx_hash, user_address, pool_id, type, amount, block_number, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, now())
		RETURNING created_at
	`,
		tx.ID,
		int64(tx.ChainID),
		tx.TxHash,
		tx.UserAddress,
		tx.PoolID,
		string(tx.Type),
		tx.Amount,
		int64(tx.BlockNumber),
		string(tx.Status),
	)
	if err := row.Scan(&tx.CreatedAt); err != nil {
		return mapError(err, fmt.Sprintf("transaction %d/%s", tx.ChainID, tx.TxHash))
	}
	return nil
}

func (s *Store) SetTransactionStatus(ctx context.Context, id string, status model.TxStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE transactions SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return mapError(err, "transaction "+id)
	}
	return requireAffected(tag, "transaction "+id)
}
