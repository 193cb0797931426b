package mongo

import (
	"sort"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"yieldDesk/internal/model"
)

func TestDepositKeyOrdersNumerically(t *testing.T) {
	amounts := []string{"1000", "9", "0", "115792089237316195423570985008687907853269984665640564039457584007913129639935", "10"}
	keys := make([]string, len(amounts))
	for i, a := range amounts {
		keys[i] = depositKey(a)
		if len(keys[i]) != depositWidth {
			t.Fatalf("key width for %s = %d", a, len(keys[i]))
		}
	}
	sort.Strings(keys)

	want := []string{"0", "9", "10", "1000", amounts[3]}
	for i, k := range keys {
		if got := model.MustAmount(k).String(); got != want[i] {
			t.Fatalf("position %d: got %s want %s", i, got, want[i])
		}
	}
}

func TestDepositKeyCapsOversizedAmounts(t *testing.T) {
	huge := "1" + strings.Repeat("0", 78)
	nines := strings.Repeat("9", 77)
	if depositKey(huge) < depositKey(nines) {
		t.Fatalf("oversized amount sorts below %s", nines)
	}
	if got := depositKey(huge); len(got) != depositWidth || got != depositKey(model.MaxAmount().String()) {
		t.Fatalf("oversized key = %s", got)
	}
}

func TestAddSearchQuotesTerm(t *testing.T) {
	q := bson.M{"status": "active"}
	addSearch(q, " a.b ", "name", "address")

	or, ok := q["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("unexpected $or: %#v", q["$or"])
	}
	clause := or[0].(bson.M)
	re := clause["name"].(primitive.Regex)
	if re.Pattern != `a\.b` || re.Options != "i" {
		t.Fatalf("unexpected regex: %#v", re)
	}

	empty := bson.M{}
	addSearch(empty, "  ", "name")
	if len(empty) != 0 {
		t.Fatalf("blank search should not add a clause: %#v", empty)
	}
}

func TestUserDocKeys(t *testing.T) {
	u := model.User{
		ID:           "u1",
		Address:      "0xAbCdEf0000000000000000000000000000000001",
		ReferralCode: "deadbeef",
		ReferredBy:   "0x00000000000000000000000000000000000000Aa",
		TotalDeposit: "42",
		Status:       model.StatusActive,
		CreatedAt:    time.Unix(100, 0).UTC(),
	}
	d := newUserDoc(u)
	if d.AddressKey != "0xabcdef0000000000000000000000000000000001" {
		t.Fatalf("address key: %s", d.AddressKey)
	}
	if d.ReferredByKey != "0x00000000000000000000000000000000000000aa" {
		t.Fatalf("referrer key: %s", d.ReferredByKey)
	}
	if d.ReferralCode != "DEADBEEF" {
		t.Fatalf("referral code: %s", d.ReferralCode)
	}
	back := d.model()
	if back.TotalDeposit != "42" || back.Address != u.Address || !back.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("unexpected round trip: %+v", back)
	}
}
