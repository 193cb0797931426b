package tvl

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"go.uber.org/zap"

	"yieldDesk/internal/model"
	"yieldDesk/internal/storage"
	"yieldDesk/internal/storage/memory"
)

func seedPool(t *testing.T, store *memory.Store, n int, chainID uint64, status model.Status) model.Pool {
	t.Helper()
	pool := model.Pool{
		Name:            fmt.Sprintf("pool %d", n),
		ChainID:         chainID,
		VaultAddress:    fmt.Sprintf("0x%040x", n+1),
		StrategyAddress: "0x2222222222222222222222222222222222222222",
		TokenAddress:    "0x3333333333333333333333333333333333333333",
		TokenDecimals:   6,
		Status:          status,
	}
	if err := pool.Validate(); err != nil {
		t.Fatalf("validate pool: %v", err)
	}
	if err := store.CreatePool(context.Background(), &pool); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	return pool
}

func TestCollectPoolsWalksPages(t *testing.T) {
	store := memory.NewStore()
	for i := 0; i < 205; i++ {
		seedPool(t, store, i, 56, model.StatusActive)
	}
	pools, err := CollectPools(context.Background(), store, storage.PoolFilter{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(pools) != 205 {
		t.Fatalf("collected %d pools", len(pools))
	}
}

func TestJobSavesActivePools(t *testing.T) {
	store := memory.NewStore()
	live := seedPool(t, store, 1, 56, model.StatusActive)
	orphan := seedPool(t, store, 2, 1, model.StatusActive)
	paused := seedPool(t, store, 3, 56, model.StatusInactive)

	reader, err := NewReader(Config{}, fakeChains{56: &fakeCaller{value: big.NewInt(42)}}, zap.NewNop())
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	snaps, err := NewJob(reader, store, store, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d", len(snaps))
	}

	latest, err := store.LatestTVLSnapshots(context.Background(), []string{live.ID, orphan.ID, paused.ID})
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest[live.ID].TVL != "42" || latest[live.ID].Method != model.TVLMethodStrategy {
		t.Fatalf("live snapshot: %+v", latest[live.ID])
	}
	if latest[orphan.ID].TVL != "0" || latest[orphan.ID].Method != model.TVLMethodUnavailable {
		t.Fatalf("unreadable pool should store zero: %+v", latest[orphan.ID])
	}
	if _, ok := latest[paused.ID]; ok {
		t.Fatalf("inactive pool should be skipped")
	}
}
