package chain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ErrUnknownChain is returned for chain ids without a configured RPC.
var ErrUnknownChain = errors.New("unknown chain")

// Registry holds one Caller per chain id.
type Registry struct {
	mu      sync.RWMutex
	callers map[uint64]Caller
	closers []func()
}

func NewRegistry() *Registry {
	return &Registry{callers: make(map[uint64]Caller)}
}

// Dial connects to every configured RPC and checks the reported chain id.
func Dial(ctx context.Context, rpcURLs map[uint64]string, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := NewRegistry()

	ids := make([]uint64, 0, len(rpcURLs))
	for id := range rpcURLs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		client, err := NewClient(ctx, rpcURLs[id])
		if err != nil {
			reg.Close()
			return nil, fmt.Errorf("dial chain %d: %w", id, err)
		}
		reported, err := client.GetChainID(ctx)
		if err != nil {
			client.Close()
			reg.Close()
			return nil, fmt.Errorf("get chain id for %d: %w", id, err)
		}
		if !reported.IsUint64() || reported.Uint64() != id {
			client.Close()
			reg.Close()
			return nil, fmt.Errorf("chain %d rpc reports chain id %s", id, reported)
		}
		reg.Register(id, client)
		reg.closers = append(reg.closers, client.Close)
		logger.Info("chain connected", zap.Uint64("chain_id", id))
	}
	return reg, nil
}

// Register installs a caller for a chain id, replacing any previous one.
func (r *Registry) Register(chainID uint64, caller Caller) {
	r.mu.Lock()
	r.callers[chainID] = caller
	r.mu.Unlock()
}

// Caller returns the caller for a chain id.
func (r *Registry) Caller(chainID uint64) (Caller, error) {
	if r == nil {
		return nil, fmt.Errorf("chain %d: %w", chainID, ErrUnknownChain)
	}
	r.mu.RLock()
	caller, ok := r.callers[chainID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("chain %d: %w", chainID, ErrUnknownChain)
	}
	return caller, nil
}

// ChainIDs lists registered chains in ascending order.
func (r *Registry) ChainIDs() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uint64, 0, len(r.callers))
	for id := range r.callers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Close closes every dialed client.
func (r *Registry) Close() {
	if r == nil {
		return
	}
	for _, closeFn := range r.closers {
		closeFn()
	}
	r.closers = nil
}
