package model

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "active", want: StatusActive},
		{in: " Inactive ", want: StatusInactive},
		{in: "paused", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if tc.wantErr {
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("ParseStatus(%q) expected validation error, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestStatusToggle(t *testing.T) {
	if StatusActive.Toggle() != StatusInactive {
		t.Fatalf("active should toggle to inactive")
	}
	if StatusInactive.Toggle() != StatusActive {
		t.Fatalf("inactive should toggle to active")
	}
}

func TestPoolValidate(t *testing.T) {
	p := Pool{
		Name:              " USDT vault ",
		ChainID:           56,
		VaultAddress:      "0x1111111111111111111111111111111111111111",
		StrategyAddress:   "0x2222222222222222222222222222222222222222",
		TokenAddress:      "0x55d398326f99059ff775485246999027b3197955",
		SlippageTolerance: 50,
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.Name != "USDT vault" {
		t.Fatalf("name not trimmed: %q", p.Name)
	}
	if p.TokenAddress != "0x55d398326f99059fF775485246999027B3197955" {
		t.Fatalf("token address not checksummed: %s", p.TokenAddress)
	}
	if p.Status != StatusActive {
		t.Fatalf("default status = %q", p.Status)
	}

	p.SlippageTolerance = MaxSlippageBps + 1
	if err := p.Validate(); err == nil {
		t.Fatalf("expected slippage error")
	}
}

func TestPoolPatchApply(t *testing.T) {
	p := Pool{
		Name:            "A",
		ChainID:         1,
		VaultAddress:    "0x1111111111111111111111111111111111111111",
		StrategyAddress: "0x2222222222222222222222222222222222222222",
		TokenAddress:    "0x3333333333333333333333333333333333333333",
	}
	name := "B"
	bad := "nope"
	if err := (PoolPatch{Name: &name}).Apply(&p); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if p.Name != "B" {
		t.Fatalf("name = %q", p.Name)
	}
	if err := (PoolPatch{StrategyAddress: &bad}).Apply(&p); err == nil {
		t.Fatalf("expected invalid strategy address")
	}
}

func TestUserValidate(t *testing.T) {
	u := User{Address: "0x1111111111111111111111111111111111111111"}
	if err := u.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(u.ReferralCode) != 8 {
		t.Fatalf("referral code %q", u.ReferralCode)
	}
	if u.ReferralCode != ReferralCode(u.Address) {
		t.Fatalf("referral code not derived from address")
	}
	if u.TotalDeposit != "0" {
		t.Fatalf("total deposit default = %q", u.TotalDeposit)
	}

	self := User{Address: u.Address, ReferredBy: u.Address}
	if err := self.Validate(); err == nil {
		t.Fatalf("expected self referral error")
	}

	neg := User{Address: u.Address, TotalDeposit: "-1"}
	if err := neg.Validate(); err == nil {
		t.Fatalf("expected negative deposit error")
	}
}

func TestNormalizeAmountBounds(t *testing.T) {
	ceiling := MaxAmount().String()
	if got, err := NormalizeAmount("amount", " "+ceiling+" "); err != nil || got != ceiling {
		t.Fatalf("max uint256 = %q, %v", got, err)
	}
	over := new(big.Int).Add(MaxAmount(), big.NewInt(1)).String()
	for _, input := range []string{over, "1" + strings.Repeat("0", 90), "-1", "1.5", "0x10"} {
		if _, err := NormalizeAmount("amount", input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
	if got, err := NormalizeAmount("amount", "007"); err != nil || got != "7" {
		t.Fatalf("leading zeros = %q, %v", got, err)
	}
}

func TestTransactionValidate(t *testing.T) {
	tx := TransactionLog{
		ChainID:     56,
		TxHash:      "0xABCDEF0000000000000000000000000000000000000000000000000000000001",
		UserAddress: "0x1111111111111111111111111111111111111111",
		Type:        "Deposit",
		Amount:      "1000000000000000000",
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if tx.TxHash != "0xabcdef0000000000000000000000000000000000000000000000000000000001" {
		t.Fatalf("hash not normalized: %s", tx.TxHash)
	}
	if tx.Type != TxDeposit || tx.Status != TxPending {
		t.Fatalf("type/status = %q/%q", tx.Type, tx.Status)
	}

	short := tx
	short.TxHash = "0x1234"
	if err := short.Validate(); err == nil {
		t.Fatalf("expected short hash error")
	}
}

func TestAdminJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Admin{Address: "0x1", Role: "0x2", Status: StatusActive})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"address", "role", "status", "createdAt", "updatedAt"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing key %s in %s", key, data)
		}
	}
}
