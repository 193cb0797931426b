package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TxType is the kind of vault interaction a transaction log records.
type TxType string

const (
	TxDeposit   TxType = "deposit"
	TxWithdraw  TxType = "withdraw"
	TxClaim     TxType = "claim"
	TxRebalance TxType = "rebalance"
)

// ParseTxType validates a transaction type.
func ParseTxType(input string) (TxType, error) {
	t := TxType(strings.ToLower(strings.TrimSpace(input)))
	switch t {
	case TxDeposit, TxWithdraw, TxClaim, TxRebalance:
		return t, nil
	default:
		return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown transaction type %q", input)}
	}
}

// TxStatus tracks confirmation of a logged transaction.
type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
	TxFailed    TxStatus = "failed"
)

// ParseTxStatus validates a transaction status.
func ParseTxStatus(input string) (TxStatus, error) {
	s := TxStatus(strings.ToLower(strings.TrimSpace(input)))
	switch s {
	case TxPending, TxConfirmed, TxFailed:
		return s, nil
	default:
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown transaction status %q", input)}
	}
}

// TransactionLog records an on-chain interaction reported by the dApp or a keeper.
type TransactionLog struct {
	ID          string    `json:"id"`
	ChainID     uint64    `json:"chainId"`
	TxHash      string    `json:"txHash"`
	UserAddress string    `json:"userAddress"`
	PoolID      string    `json:"poolId"`
	Type        TxType    `json:"type"`
	Amount      string    `json:"amount"`
	BlockNumber uint64    `json:"blockNumber"`
	Status      TxStatus  `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate normalizes hash, address and amount fields.
func (t *TransactionLog) Validate() error {
	if t.ChainID == 0 {
		return &ValidationError{Field: "chainId", Reason: "required"}
	}
	hash := strings.TrimSpace(t.TxHash)
	raw := strings.TrimPrefix(strings.ToLower(hash), "0x")
	if len(raw) != 2*common.HashLength || !isHex(raw) {
		return &ValidationError{Field: "txHash", Reason: fmt.Sprintf("not a 32 byte hex hash: %q", t.TxHash)}
	}
	t.TxHash = common.HexToHash(hash).Hex()

	var err error
	if t.UserAddress, err = NormalizeAddress("userAddress", t.UserAddress); err != nil {
		return err
	}
	if t.Type, err = ParseTxType(string(t.Type)); err != nil {
		return err
	}
	if t.Amount, err = NormalizeAmount("amount", t.Amount); err != nil {
		return err
	}
	if t.Status == "" {
		t.Status = TxPending
	}
	if t.Status, err = ParseTxStatus(string(t.Status)); err != nil {
		return err
	}
	return nil
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
