package chain

import (
	"context"
	"errors"
	"math/big"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum"
)

type stubCaller struct{}

func (stubCaller) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, nil
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register(56, stubCaller{})
	reg.Register(1, stubCaller{})

	if _, err := reg.Caller(56); err != nil {
		t.Fatalf("caller 56: %v", err)
	}
	if _, err := reg.Caller(137); !errors.Is(err, ErrUnknownChain) {
		t.Fatalf("expected ErrUnknownChain, got %v", err)
	}
	if got := reg.ChainIDs(); !reflect.DeepEqual(got, []uint64{1, 56}) {
		t.Fatalf("chain ids = %v", got)
	}
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	if _, err := reg.Caller(1); !errors.Is(err, ErrUnknownChain) {
		t.Fatalf("nil registry should report unknown chain, got %v", err)
	}
	reg.Close()
}
