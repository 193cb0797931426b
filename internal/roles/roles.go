package roles

import (
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Permission names shown in the dashboard.
const (
	PermAdminManage       = "admin:manage"
	PermPoolCreate        = "pool:create"
	PermPoolUpdate        = "pool:update"
	PermPoolStatus        = "pool:status"
	PermUserStatus        = "user:status"
	PermStrategyHarvest   = "strategy:harvest"
	PermStrategyRebalance = "strategy:rebalance"
	PermSystemPause       = "system:pause"
	PermSystemConfig      = "system:config"
)

// Role is an AccessControl role as displayed by the admin views.
// Enforcement happens on-chain.
type Role struct {
	Hash        string   `json:"hash"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Permissions []string `json:"permissions"`
}

const DefaultAdminRole = "DEFAULT_ADMIN_ROLE"

var table = buildTable([]Role{
	{
		Name:  DefaultAdminRole,
		Label: "Super Admin",
		Permissions: []string{
			PermAdminManage, PermPoolCreate, PermPoolUpdate, PermPoolStatus, PermUserStatus,
			PermStrategyHarvest, PermStrategyRebalance, PermSystemPause, PermSystemConfig,
		},
	},
	{
		Name:        "ADMIN_ROLE",
		Label:       "Admin",
		Permissions: []string{PermPoolCreate, PermPoolUpdate, PermPoolStatus, PermUserStatus, PermSystemConfig},
	},
	{
		Name:        "OPERATOR_ROLE",
		Label:       "Operator",
		Permissions: []string{PermPoolUpdate, PermPoolStatus, PermUserStatus},
	},
	{
		Name:        "STRATEGIST_ROLE",
		Label:       "Strategist",
		Permissions: []string{PermStrategyRebalance, PermPoolUpdate},
	},
	{
		Name:        "KEEPER_ROLE",
		Label:       "Keeper",
		Permissions: []string{PermStrategyHarvest},
	},
	{
		Name:        "PAUSER_ROLE",
		Label:       "Pauser",
		Permissions: []string{PermSystemPause},
	},
})

type roleTable struct {
	byHash map[common.Hash]Role
	byName map[string]Role
	all    []Role
}

func buildTable(defs []Role) roleTable {
	t := roleTable{
		byHash: make(map[common.Hash]Role, len(defs)),
		byName: make(map[string]Role, len(defs)),
		all:    make([]Role, 0, len(defs)),
	}
	for _, def := range defs {
		hash := HashOf(def.Name)
		def.Hash = hash.Hex()
		t.byHash[hash] = def
		t.byName[def.Name] = def
		t.all = append(t.all, def)
	}
	return t
}

// HashOf returns the on-chain identifier for a role name. The default admin
// role is the zero hash; every other role is keccak256(name).
func HashOf(name string) common.Hash {
	if name == DefaultAdminRole {
		return common.Hash{}
	}
	return crypto.Keccak256Hash([]byte(name))
}

// Lookup resolves a role hash in hex form.
func Lookup(hash string) (Role, bool) {
	raw := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(hash)), "0x")
	if len(raw) != 2*common.HashLength {
		return Role{}, false
	}
	role, ok := table.byHash[common.HexToHash(raw)]
	return role, ok
}

// ByName resolves a role by its constant name, case-insensitively.
func ByName(name string) (Role, bool) {
	role, ok := table.byName[strings.ToUpper(strings.TrimSpace(name))]
	return role, ok
}

// Resolve accepts either a role name or a role hash.
func Resolve(nameOrHash string) (Role, bool) {
	if role, ok := ByName(nameOrHash); ok {
		return role, true
	}
	return Lookup(nameOrHash)
}

// All returns the table sorted by name.
func All() []Role {
	out := make([]Role, len(table.all))
	copy(out, table.all)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Has reports whether role grants permission.
func (r Role) Has(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
