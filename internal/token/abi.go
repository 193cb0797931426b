package token

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// metadataABI covers the ERC20 views a pool record needs.
const metadataABI = `[
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"}
]`

var (
	parsedMeta    abi.ABI
	parsedMetaErr error
	parseMetaOnce sync.Once
)

// StringABI returns the parsed ERC20 decimals/symbol ABI.
func StringABI() (abi.ABI, error) {
	parseMetaOnce.Do(func() {
		parsedMeta, parsedMetaErr = abi.JSON(strings.NewReader(metadataABI))
	})
	return parsedMeta, parsedMetaErr
}
