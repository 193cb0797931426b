package tvl

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// DefaultMethod is the strategy view used when none is configured.
const DefaultMethod = "balanceOf"

const strategyViewABIFormat = `[
  {"inputs": [], "name": %q, "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

var methodNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var (
	strategyABIs   = make(map[string]abi.ABI)
	strategyABIsMu sync.Mutex
)

// StrategyABI returns a parsed ABI exposing a single no-arg uint256 view.
// Results are memoized per method name.
func StrategyABI(method string) (abi.ABI, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		method = DefaultMethod
	}
	if !methodNamePattern.MatchString(method) {
		return abi.ABI{}, fmt.Errorf("invalid strategy method %q", method)
	}

	strategyABIsMu.Lock()
	defer strategyABIsMu.Unlock()
	if parsed, ok := strategyABIs[method]; ok {
		return parsed, nil
	}
	parsed, err := abi.JSON(strings.NewReader(fmt.Sprintf(strategyViewABIFormat, method)))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse strategy abi: %w", err)
	}
	strategyABIs[method] = parsed
	return parsed, nil
}
