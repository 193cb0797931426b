package model

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
)

// User is a depositor wallet known to the dApp.
type User struct {
	ID           string    `json:"id"`
	Address      string    `json:"address"`
	ReferralCode string    `json:"referralCode"`
	ReferredBy   string    `json:"referredBy,omitempty"`
	TotalDeposit string    `json:"totalDeposit"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ReferralCode derives the 8 character share code for an address.
func ReferralCode(address string) string {
	return DeriveReferralCode(address, 0)
}

// DeriveReferralCode is ReferralCode salted with attempt, used when the
// unsalted code already belongs to another address. Attempt 0 is unsalted.
func DeriveReferralCode(address string, attempt int) string {
	input := strings.ToLower(strings.TrimSpace(address))
	if attempt > 0 {
		input += ":" + strconv.Itoa(attempt)
	}
	sum := crypto.Keccak256([]byte(input))
	return strings.ToUpper(hex.EncodeToString(sum[:4]))
}

// Validate normalizes addresses and derives the referral code when unset.
func (u *User) Validate() error {
	addr, err := NormalizeAddress("address", u.Address)
	if err != nil {
		return err
	}
	u.Address = addr
	u.ReferralCode = strings.ToUpper(strings.TrimSpace(u.ReferralCode))
	if u.ReferralCode == "" {
		u.ReferralCode = ReferralCode(addr)
	}

	if u.ReferredBy != "" {
		ref, err := NormalizeAddress("referredBy", u.ReferredBy)
		if err != nil {
			return err
		}
		if ref == addr {
			return &ValidationError{Field: "referredBy", Reason: "cannot refer yourself"}
		}
		u.ReferredBy = ref
	}

	if u.TotalDeposit, err = NormalizeAmount("totalDeposit", u.TotalDeposit); err != nil {
		return err
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	if !u.Status.Valid() {
		return &ValidationError{Field: "status", Reason: string(u.Status)}
	}
	return nil
}

// Referral summarizes who referred an address and who it referred.
type Referral struct {
	Address      string `json:"address"`
	ReferralCode string `json:"referralCode"`
	ReferredBy   string `json:"referredBy,omitempty"`
	RefereeCount int64  `json:"refereeCount"`
}
