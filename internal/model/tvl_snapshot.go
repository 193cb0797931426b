package model

import "time"

const (
	TVLMethodStrategy    = "strategy_call"
	TVLMethodUnavailable = "unavailable"
)

// TVLSnapshot is one strategy TVL read for a pool.
type TVLSnapshot struct {
	PoolID          string    `json:"poolId"`
	ChainID         uint64    `json:"chainId"`
	StrategyAddress string    `json:"strategyAddress"`
	TVL             string    `json:"tvl"`
	Formatted       string    `json:"formatted"`
	Decimals        uint8     `json:"decimals"`
	Method          string    `json:"method"`
	Error           string    `json:"error,omitempty"`
	FetchedAt       time.Time `json:"fetchedAt"`
}
