package tvl

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

// PoolSource lists pools page by page.
type PoolSource interface {
	ListPools(ctx context.Context, filter storage.PoolFilter, page paging.Request) ([]model.Pool, int64, error)
}

// CollectPools walks every page of pools matching filter.
func CollectPools(ctx context.Context, src PoolSource, filter storage.PoolFilter) ([]model.Pool, error) {
	var all []model.Pool
	req := paging.Request{Page: 1, Limit: paging.MaxLimit}
	for {
		pools, total, err := src.ListPools(ctx, filter, req)
		if err != nil {
			return nil, fmt.Errorf("list pools page %d: %w", req.Page, err)
		}
		all = append(all, pools...)
		if len(pools) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		req.Page++
	}
}

// Job reads TVL for every active pool and stores the snapshots.
type Job struct {
	reader *Reader
	pools  PoolSource
	sink   storage.SnapshotStore
	logger *zap.Logger
}

func NewJob(reader *Reader, pools PoolSource, sink storage.SnapshotStore, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{reader: reader, pools: pools, sink: sink, logger: logger}
}

// Run performs one snapshot pass and returns the snapshots it saved.
func (j *Job) Run(ctx context.Context) ([]model.TVLSnapshot, error) {
	start := time.Now()
	pools, err := CollectPools(ctx, j.pools, storage.PoolFilter{Status: model.StatusActive})
	if err != nil {
		return nil, err
	}
	snapshots := j.reader.AllTVL(ctx, pools)
	if err := j.sink.SaveTVLSnapshots(ctx, snapshots); err != nil {
		return nil, err
	}

	failed := 0
	for _, snap := range snapshots {
		if snap.Method == model.TVLMethodUnavailable {
			failed++
		}
	}
	j.logger.Info("tvl snapshot complete",
		zap.Int("pools", len(pools)),
		zap.Int("unavailable", failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return snapshots, nil
}
