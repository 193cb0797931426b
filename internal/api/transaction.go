package api

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

// trigger records a transaction reported by the dApp or a keeper and applies
// deposits and withdrawals to the user's running total.
func (s *Server) trigger(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChainID     uint64 `json:"chainId"`
		TxHash      string `json:"txHash"`
		UserAddress string `json:"userAddress"`
		PoolID      string `json:"poolId"`
		Type        string `json:"type"`
		Amount      string `json:"amount"`
		BlockNumber uint64 `json:"blockNumber"`
		Status      string `json:"status"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		s.fail(w, r, err)
		return
	}

	tx := model.TransactionLog{
		ChainID:     payload.ChainID,
		TxHash:      payload.TxHash,
		UserAddress: payload.UserAddress,
		PoolID:      strings.TrimSpace(payload.PoolID),
		Type:        model.TxType(payload.Type),
		Amount:      payload.Amount,
		BlockNumber: payload.BlockNumber,
		Status:      model.TxStatus(payload.Status),
	}
	if err := tx.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if tx.PoolID != "" {
		pool, err := s.store.GetPool(r.Context(), tx.PoolID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				err = &model.ValidationError{Field: "poolId", Reason: "unknown pool " + tx.PoolID}
			}
			s.fail(w, r, err)
			return
		}
		if pool.ChainID != tx.ChainID {
			s.fail(w, r, badRequest("pool %s is on chain %d, not %d", pool.ID, pool.ChainID, tx.ChainID))
			return
		}
	}

	if err := s.store.CreateTransaction(r.Context(), &tx); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("transaction recorded",
		zap.String("tx_id", tx.ID),
		zap.Uint64("chain_id", tx.ChainID),
		zap.String("tx_hash", tx.TxHash),
		zap.String("type", string(tx.Type)),
		zap.String("amount", tx.Amount),
	)

	if err := s.applyDeposit(r.Context(), tx); err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, tx)
}

// applyDeposit adjusts totalDeposit for deposits and withdrawals that have not
// failed. Unknown users are registered on their first deposit. The total is
// kept within [0, 2^256-1].
func (s *Server) applyDeposit(ctx context.Context, tx model.TransactionLog) error {
	if tx.Status == model.TxFailed {
		return nil
	}
	if tx.Type != model.TxDeposit && tx.Type != model.TxWithdraw {
		return nil
	}

	s.depositMu.Lock()
	defer s.depositMu.Unlock()

	user, err := s.store.GetUser(ctx, tx.UserAddress)
	if errors.Is(err, storage.ErrNotFound) {
		if tx.Type == model.TxWithdraw {
			s.logger.Warn("withdrawal for unknown user", zap.String("address", tx.UserAddress), zap.String("tx_hash", tx.TxHash))
			return nil
		}
		user = model.User{Address: tx.UserAddress, TotalDeposit: tx.Amount}
		if err := user.Validate(); err != nil {
			return err
		}
		return s.registerUser(ctx, &user)
	}
	if err != nil {
		return err
	}

	total := model.MustAmount(user.TotalDeposit)
	amount := model.MustAmount(tx.Amount)
	if tx.Type == model.TxDeposit {
		total.Add(total, amount)
		if ceiling := model.MaxAmount(); total.Cmp(ceiling) > 0 {
			s.logger.Warn("deposit total exceeds uint256",
				zap.String("address", user.Address),
				zap.String("total_deposit", user.TotalDeposit),
				zap.String("amount", tx.Amount),
			)
			total = ceiling
		}
	} else {
		total.Sub(total, amount)
		if total.Sign() < 0 {
			s.logger.Warn("withdrawal exceeds recorded deposits",
				zap.String("address", user.Address),
				zap.String("total_deposit", user.TotalDeposit),
				zap.String("amount", tx.Amount),
			)
			total = new(big.Int)
		}
	}
	return s.store.UpdateUserDeposit(ctx, user.Address, total.String())
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := parsePage(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	chainID, err := chainIDFilter(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	filter := storage.TransactionFilter{
		UserAddress: strings.TrimSpace(q.Get("user")),
		PoolID:      strings.TrimSpace(q.Get("poolId")),
		ChainID:     chainID,
	}
	if raw := q.Get("type"); raw != "" {
		if filter.Type, err = model.ParseTxType(raw); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	txs, total, err := s.store.ListTransactions(r.Context(), filter, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paging.NewResult(txs, req, total))
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.store.GetTransaction(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, tx)
}

func (s *Server) setTransactionStatus(w http.ResponseWriter, r *http.Request) {
	id := pathVar(r, "id")
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		s.fail(w, r, err)
		return
	}
	status, err := model.ParseTxStatus(payload.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.SetTransactionStatus(r.Context(), id, status); err != nil {
		s.fail(w, r, err)
		return
	}
	tx, err := s.store.GetTransaction(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, tx)
}
