package roles

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func TestDefaultAdminIsZeroHash(t *testing.T) {
	role, ok := Lookup("0x0000000000000000000000000000000000000000000000000000000000000000")
	if !ok {
		t.Fatalf("zero hash not found")
	}
	if role.Name != DefaultAdminRole {
		t.Fatalf("zero hash resolved to %s", role.Name)
	}
	if !role.Has(PermAdminManage) {
		t.Fatalf("default admin should manage admins")
	}
}

func TestLookupKeccakHash(t *testing.T) {
	hash := crypto.Keccak256Hash([]byte("KEEPER_ROLE")).Hex()
	role, ok := Lookup(hash)
	if !ok {
		t.Fatalf("keeper role not found for %s", hash)
	}
	if role.Label != "Keeper" || !role.Has(PermStrategyHarvest) {
		t.Fatalf("unexpected keeper role: %+v", role)
	}
	if role.Has(PermAdminManage) {
		t.Fatalf("keeper should not manage admins")
	}
}

func TestResolve(t *testing.T) {
	byName, ok := Resolve("operator_role")
	if !ok {
		t.Fatalf("resolve by name failed")
	}
	byHash, ok := Resolve(byName.Hash)
	if !ok || byHash.Name != byName.Name {
		t.Fatalf("resolve by hash mismatch: %+v", byHash)
	}
	if _, ok := Resolve("UNKNOWN_ROLE"); ok {
		t.Fatalf("unknown role resolved")
	}
	if _, ok := Resolve("0x1234"); ok {
		t.Fatalf("short hash resolved")
	}
}

func TestAllSorted(t *testing.T) {
	all := All()
	if len(all) != 6 {
		t.Fatalf("expected 6 roles, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Fatalf("roles not sorted: %s > %s", all[i-1].Name, all[i].Name)
		}
	}
	all[0].Name = "mutated"
	if All()[0].Name == "mutated" {
		t.Fatalf("All should return a copy")
	}
}
