package model

import (
	"strings"
	"time"
)

// MaxSlippageBps is 100% expressed in basis points.
const MaxSlippageBps = 10000

// Pool is a vault/strategy pair deployed on one chain.
type Pool struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ChainID           uint64    `json:"chainId"`
	VaultAddress      string    `json:"vaultAddress"`
	StrategyAddress   string    `json:"strategyAddress"`
	TokenAddress      string    `json:"tokenAddress"`
	TokenSymbol       string    `json:"tokenSymbol"`
	TokenDecimals     uint8     `json:"tokenDecimals"`
	SlippageTolerance uint32    `json:"slippageTolerance"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Validate normalizes addresses and checks numeric bounds.
func (p *Pool) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if p.ChainID == 0 {
		return &ValidationError{Field: "chainId", Reason: "required"}
	}

	var err error
	if p.VaultAddress, err = NormalizeAddress("vaultAddress", p.VaultAddress); err != nil {
		return err
	}
	if p.StrategyAddress, err = NormalizeAddress("strategyAddress", p.StrategyAddress); err != nil {
		return err
	}
	if p.TokenAddress, err = NormalizeAddress("tokenAddress", p.TokenAddress); err != nil {
		return err
	}

	if p.SlippageTolerance > MaxSlippageBps {
		return &ValidationError{Field: "slippageTolerance", Reason: "must be between 0 and 10000 bps"}
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !p.Status.Valid() {
		return &ValidationError{Field: "status", Reason: string(p.Status)}
	}
	return nil
}

// PoolPatch carries the optional fields accepted by a pool update.
type PoolPatch struct {
	Name              *string `json:"name"`
	StrategyAddress   *string `json:"strategyAddress"`
	TokenSymbol       *string `json:"tokenSymbol"`
	TokenDecimals     *uint8  `json:"tokenDecimals"`
	SlippageTolerance *uint32 `json:"slippageTolerance"`
}

// Apply copies set fields onto p and re-validates the result.
func (patch PoolPatch) Apply(p *Pool) error {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.StrategyAddress != nil {
		p.StrategyAddress = *patch.StrategyAddress
	}
	if patch.TokenSymbol != nil {
		p.TokenSymbol = strings.TrimSpace(*patch.TokenSymbol)
	}
	if patch.TokenDecimals != nil {
		p.TokenDecimals = *patch.TokenDecimals
	}
	if patch.SlippageTolerance != nil {
		p.SlippageTolerance = *patch.SlippageTolerance
	}
	return p.Validate()
}
