package model

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ValidationError reports a malformed field on an incoming record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NormalizeAddress validates a hex address and returns its checksum form.
func NormalizeAddress(field, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", &ValidationError{Field: field, Reason: "required"}
	}
	if !common.IsHexAddress(input) {
		return "", &ValidationError{Field: field, Reason: fmt.Sprintf("not a hex address: %q", input)}
	}
	return common.HexToAddress(input).Hex(), nil
}

// maxAmount is the largest uint256, the widest amount any contract reports.
var maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// MaxAmount returns 2^256-1.
func MaxAmount() *big.Int {
	return new(big.Int).Set(maxAmount)
}

// NormalizeAmount validates a base-10 integer string in the uint256 range.
func NormalizeAmount(field, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "0", nil
	}
	value, ok := new(big.Int).SetString(input, 10)
	if !ok {
		return "", &ValidationError{Field: field, Reason: fmt.Sprintf("not an integer: %q", input)}
	}
	if value.Sign() < 0 {
		return "", &ValidationError{Field: field, Reason: "must not be negative"}
	}
	if value.Cmp(maxAmount) > 0 {
		return "", &ValidationError{Field: field, Reason: "exceeds uint256"}
	}
	return value.String(), nil
}

// MustAmount parses a stored amount, treating garbage as zero.
func MustAmount(input string) *big.Int {
	value, ok := new(big.Int).SetString(strings.TrimSpace(input), 10)
	if !ok {
		return new(big.Int)
	}
	return value
}
