package tvl

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"yieldDesk/internal/chain"
	"yieldDesk/internal/metrics"
	"yieldDesk/internal/model"
	"yieldDesk/internal/token"
)

// Chains resolves a chain id to a contract caller.
type Chains interface {
	Caller(chainID uint64) (chain.Caller, error)
}

// Config controls strategy reads.
type Config struct {
	Method       string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Concurrency  int
}

// Reader reads pool TVL from strategy contracts.
type Reader struct {
	cfg    Config
	chains Chains
	abi    abi.ABI
	method string
	logger *zap.Logger
	now    func() time.Time
}

func NewReader(cfg Config, chains Chains, logger *zap.Logger) (*Reader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Method == "" {
		cfg.Method = DefaultMethod
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 200 * time.Millisecond
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	parsed, err := StrategyABI(cfg.Method)
	if err != nil {
		return nil, err
	}

	return &Reader{
		cfg:    cfg,
		chains: chains,
		abi:    parsed,
		method: cfg.Method,
		logger: logger,
		now:    time.Now,
	}, nil
}

// PoolTVL calls the strategy view for a pool and returns the raw uint256.
func (r *Reader) PoolTVL(ctx context.Context, pool model.Pool) (*big.Int, error) {
	if r.chains == nil {
		return nil, fmt.Errorf("chain registry is nil")
	}
	if !common.IsHexAddress(pool.StrategyAddress) {
		return nil, fmt.Errorf("invalid strategy address %q", pool.StrategyAddress)
	}
	caller, err := r.chains.Caller(pool.ChainID)
	if err != nil {
		return nil, err
	}

	data, err := r.abi.Pack(r.method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", r.method, err)
	}
	strategy := common.HexToAddress(pool.StrategyAddress)
	msg := ethereum.CallMsg{To: &strategy, Data: data}

	operation := func() (*big.Int, error) {
		callCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()

		resp, err := caller.CallContract(callCtx, msg, nil)
		if err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, fmt.Errorf("call %s: %w", r.method, err)
		}
		values, err := r.abi.Unpack(r.method, resp)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("unpack %s: %w", r.method, err))
		}
		if len(values) != 1 {
			return nil, backoff.Permanent(fmt.Errorf("%s return size %d", r.method, len(values)))
		}
		value, ok := values[0].(*big.Int)
		if !ok {
			return nil, backoff.Permanent(fmt.Errorf("%s unexpected type %T", r.method, values[0]))
		}
		return value, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.cfg.RetryBackoff
	policy.MaxInterval = r.cfg.RetryBackoff * 10

	notify := func(err error, wait time.Duration) {
		r.logger.Debug("strategy read retry",
			zap.String("pool_id", pool.ID),
			zap.Uint64("chain_id", pool.ChainID),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(r.cfg.MaxRetries+1)),
		backoff.WithNotify(notify),
	)
}

// Snapshot reads one pool and never fails: unreadable strategies yield zero.
func (r *Reader) Snapshot(ctx context.Context, pool model.Pool) model.TVLSnapshot {
	start := r.now()
	snap := model.TVLSnapshot{
		PoolID:          pool.ID,
		ChainID:         pool.ChainID,
		StrategyAddress: pool.StrategyAddress,
		Decimals:        pool.TokenDecimals,
		TVL:             "0",
		Formatted:       token.FormatAmount(nil, pool.TokenDecimals),
		Method:          model.TVLMethodUnavailable,
	}

	value, err := r.PoolTVL(ctx, pool)
	snap.FetchedAt = r.now().UTC()
	metrics.RecordTVLRead(pool.ChainID, err == nil, snap.FetchedAt.Sub(start))
	if err != nil {
		r.logger.Warn("strategy tvl unavailable",
			zap.String("pool_id", pool.ID),
			zap.String("pool", pool.Name),
			zap.Uint64("chain_id", pool.ChainID),
			zap.String("strategy", pool.StrategyAddress),
			zap.Error(err),
		)
		snap.Error = err.Error()
		return snap
	}

	snap.TVL = value.String()
	snap.Formatted = token.FormatAmount(value, pool.TokenDecimals)
	snap.Method = model.TVLMethodStrategy
	return snap
}

// AllTVL reads every pool, preserving input order. At most cfg.Concurrency
// reads are in flight.
func (r *Reader) AllTVL(ctx context.Context, pools []model.Pool) []model.TVLSnapshot {
	out := make([]model.TVLSnapshot, len(pools))
	var g errgroup.Group
	g.SetLimit(r.cfg.Concurrency)
	for i := range pools {
		i := i
		g.Go(func() error {
			out[i] = r.Snapshot(ctx, pools[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}
