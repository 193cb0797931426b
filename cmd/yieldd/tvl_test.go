package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"yieldDesk/internal/config"
	"yieldDesk/internal/storage/memory"
)

const poolLines = `{"id":"a","name":"bsc live","chainId":56,"vaultAddress":"0x1111111111111111111111111111111111111111","strategyAddress":"0x2222222222222222222222222222222222222222","tokenAddress":"0x3333333333333333333333333333333333333333"}
{"id":"b","name":"bsc paused","chainId":56,"vaultAddress":"0x4444444444444444444444444444444444444444","strategyAddress":"0x2222222222222222222222222222222222222222","tokenAddress":"0x3333333333333333333333333333333333333333","status":"inactive"}
{"id":"c","name":"eth live","chainId":1,"vaultAddress":"0x5555555555555555555555555555555555555555","strategyAddress":"0x2222222222222222222222222222222222222222","tokenAddress":"0x3333333333333333333333333333333333333333"}
`

func TestLoadPoolsFromFileFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.jsonl")
	if err := os.WriteFile(path, []byte(poolLines), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := []struct {
		name string
		cfg  config.TVLConfig
		want []string
	}{
		{"all", config.TVLConfig{Pools: path}, []string{"a", "b", "c"}},
		{"active", config.TVLConfig{Pools: path, ActiveOnly: true}, []string{"a", "c"}},
		{"active bsc", config.TVLConfig{Pools: path, ActiveOnly: true, ChainID: 56}, []string{"a"}},
	}
	for _, tc := range cases {
		pools, err := loadPools(context.Background(), tc.cfg, memory.NewStore())
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if len(pools) != len(tc.want) {
			t.Fatalf("%s: got %d pools", tc.name, len(pools))
		}
		for i, id := range tc.want {
			if pools[i].ID != id {
				t.Fatalf("%s: pool %d = %s, want %s", tc.name, i, pools[i].ID, id)
			}
		}
	}
}

func TestLoadPoolsFromEmptyStore(t *testing.T) {
	pools, err := loadPools(context.Background(), config.TVLConfig{ActiveOnly: true}, memory.NewStore())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(pools) != 0 {
		t.Fatalf("pools = %d", len(pools))
	}
}
