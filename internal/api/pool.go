package api

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
	"yieldDesk/internal/token"
)

func poolFilterFrom(r *http.Request) (storage.PoolFilter, paging.Request, error) {
	q := r.URL.Query()
	req, err := parsePage(q)
	if err != nil {
		return storage.PoolFilter{}, paging.Request{}, err
	}
	status, err := statusFilter(q)
	if err != nil {
		return storage.PoolFilter{}, paging.Request{}, err
	}
	chainID, err := chainIDFilter(q)
	if err != nil {
		return storage.PoolFilter{}, paging.Request{}, err
	}
	return storage.PoolFilter{Search: q.Get("search"), ChainID: chainID, Status: status}, req, nil
}

func (s *Server) listPools(w http.ResponseWriter, r *http.Request) {
	filter, req, err := poolFilterFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pools, total, err := s.store.ListPools(r.Context(), filter, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paging.NewResult(pools, req, total))
}

// fillTokenMeta completes symbol and decimals from the token contract when
// the pool's chain is configured. Failures leave the pool as submitted.
func (s *Server) fillTokenMeta(ctx context.Context, pool *model.Pool) {
	if pool.TokenSymbol != "" && pool.TokenDecimals != 0 {
		return
	}
	if s.chains == nil {
		return
	}
	caller, err := s.chains.Caller(pool.ChainID)
	if err != nil {
		s.logger.Debug("token metadata skipped", zap.Uint64("chain_id", pool.ChainID), zap.Error(err))
		return
	}
	meta, err := token.FetchMeta(ctx, caller, common.HexToAddress(pool.TokenAddress), s.logger)
	if err != nil {
		s.logger.Warn("token metadata unavailable",
			zap.Uint64("chain_id", pool.ChainID),
			zap.String("token", pool.TokenAddress),
			zap.Error(err),
		)
		return
	}
	if pool.TokenSymbol == "" {
		pool.TokenSymbol = meta.Symbol
	}
	if pool.TokenDecimals == 0 {
		pool.TokenDecimals = meta.Decimals
	}
}

func (s *Server) createPool(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name              string `json:"name"`
		ChainID           uint64 `json:"chainId"`
		VaultAddress      string `json:"vaultAddress"`
		StrategyAddress   string `json:"strategyAddress"`
		TokenAddress      string `json:"tokenAddress"`
		TokenSymbol       string `json:"tokenSymbol"`
		TokenDecimals     uint8  `json:"tokenDecimals"`
		SlippageTolerance uint32 `json:"slippageTolerance"`
		Status            string `json:"status"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		s.fail(w, r, err)
		return
	}

	pool := model.Pool{
		Name:              payload.Name,
		ChainID:           payload.ChainID,
		VaultAddress:      payload.VaultAddress,
		StrategyAddress:   payload.StrategyAddress,
		TokenAddress:      payload.TokenAddress,
		TokenSymbol:       payload.TokenSymbol,
		TokenDecimals:     payload.TokenDecimals,
		SlippageTolerance: payload.SlippageTolerance,
	}
	if payload.Status != "" {
		status, err := model.ParseStatus(payload.Status)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		pool.Status = status
	}
	if err := pool.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	s.fillTokenMeta(r.Context(), &pool)

	if err := s.store.CreatePool(r.Context(), &pool); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("pool created",
		zap.String("pool_id", pool.ID),
		zap.Uint64("chain_id", pool.ChainID),
		zap.String("vault", pool.VaultAddress),
	)
	writeData(w, http.StatusCreated, pool)
}

func (s *Server) getPool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.store.GetPool(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, pool)
}

func (s *Server) updatePool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.store.GetPool(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch model.PoolPatch
	if err := decodeJSON(r.Body, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := patch.Apply(&pool); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.UpdatePool(r.Context(), &pool); err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, pool)
}

func (s *Server) setPoolStatus(w http.ResponseWriter, r *http.Request) {
	pool, err := s.store.GetPool(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status, err := nextStatus(r, pool.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.SetPoolStatus(r.Context(), pool.ID, status); err != nil {
		s.fail(w, r, err)
		return
	}
	pool.Status = status
	s.logger.Info("pool status changed", zap.String("pool_id", pool.ID), zap.String("status", string(status)))
	writeData(w, http.StatusOK, pool)
}

func (s *Server) poolTVL(w http.ResponseWriter, r *http.Request) {
	pool, err := s.store.GetPool(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cached, err := cachedFlag(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snaps, err := s.readTVL(r.Context(), []model.Pool{pool}, cached)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, snaps[0])
}

// listPoolTVL reads TVL for one page of pools. Unreadable strategies report zero.
func (s *Server) listPoolTVL(w http.ResponseWriter, r *http.Request) {
	filter, req, err := poolFilterFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pools, total, err := s.store.ListPools(r.Context(), filter, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cached, err := cachedFlag(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snaps, err := s.readTVL(r.Context(), pools, cached)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paging.NewResult(snaps, req, total))
}

// readTVL reads pools live. With cached set, the latest stored snapshot is
// returned instead and only pools without one are read live.
func (s *Server) readTVL(ctx context.Context, pools []model.Pool, cached bool) ([]model.TVLSnapshot, error) {
	if !cached || len(pools) == 0 {
		return s.tvl.AllTVL(ctx, pools), nil
	}

	ids := make([]string, len(pools))
	for i, pool := range pools {
		ids[i] = pool.ID
	}
	stored, err := s.store.LatestTVLSnapshots(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.TVLSnapshot, len(pools))
	var missing []model.Pool
	var slots []int
	for i, pool := range pools {
		if snap, ok := stored[pool.ID]; ok {
			out[i] = snap
			continue
		}
		missing = append(missing, pool)
		slots = append(slots, i)
	}
	for j, snap := range s.tvl.AllTVL(ctx, missing) {
		out[slots[j]] = snap
	}
	return out, nil
}
