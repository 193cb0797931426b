package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

func newTestStore() *Store {
	s := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func address(i int) string {
	return fmt.Sprintf("0x%040x", i+1)
}

func TestListPoolsPagination(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	for i := 0; i < 23; i++ {
		pool := model.Pool{
			Name:            fmt.Sprintf("pool-%02d", i),
			ChainID:         56,
			VaultAddress:    address(i),
			StrategyAddress: address(100 + i),
			TokenAddress:    address(200),
			Status:          model.StatusActive,
		}
		if err := s.CreatePool(ctx, &pool); err != nil {
			t.Fatalf("create pool %d: %v", i, err)
		}
	}

	req := paging.Request{Page: 3, Limit: 10}
	items, total, err := s.ListPools(ctx, storage.PoolFilter{}, req)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	res := paging.NewResult(items, req, total)
	if res.Total != 23 || res.TotalPages != 3 || len(res.Items) != 3 {
		t.Fatalf("page 3 mismatch: total=%d pages=%d items=%d", res.Total, res.TotalPages, len(res.Items))
	}
	if res.Items[0].Name != "pool-02" {
		t.Fatalf("expected newest-first ordering, got %s", res.Items[0].Name)
	}

	items, total, err = s.ListPools(ctx, storage.PoolFilter{Search: "POOL-1"}, paging.Request{Page: 1, Limit: 100})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 10 || len(items) != 10 {
		t.Fatalf("search total = %d, items = %d", total, len(items))
	}

	items, _, err = s.ListPools(ctx, storage.PoolFilter{ChainID: 1}, paging.Request{Page: 1, Limit: 10})
	if err != nil || len(items) != 0 {
		t.Fatalf("chain filter: %v, %d items", err, len(items))
	}
}

func TestPoolConflictAndStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	pool := model.Pool{Name: "a", ChainID: 1, VaultAddress: address(1), Status: model.StatusActive}
	if err := s.CreatePool(ctx, &pool); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := model.Pool{Name: "b", ChainID: 1, VaultAddress: address(1)}
	if err := s.CreatePool(ctx, &dup); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if err := s.SetPoolStatus(ctx, pool.ID, model.StatusInactive); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, err := s.GetPool(ctx, pool.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.StatusInactive {
		t.Fatalf("status not persisted: %s", got.Status)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatalf("updatedAt not bumped")
	}
	if err := s.SetPoolStatus(ctx, "missing", model.StatusActive); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdminLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	admin := model.Admin{Address: "0xAbCdEf0000000000000000000000000000000001", Name: "ops", Role: "0x01", Status: model.StatusActive}
	if err := s.CreateAdmin(ctx, &admin); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateAdmin(ctx, &model.Admin{Address: "0xabcdef0000000000000000000000000000000001"}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected case-insensitive conflict, got %v", err)
	}
	if err := s.UpdateAdminRole(ctx, admin.Address, "0x02"); err != nil {
		t.Fatalf("update role: %v", err)
	}
	got, err := s.GetAdmin(ctx, "0xabcdef0000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Role != "0x02" {
		t.Fatalf("role = %s", got.Role)
	}

	items, total, err := s.ListAdmins(ctx, storage.AdminFilter{Status: model.StatusInactive}, paging.Request{Page: 1, Limit: 10})
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("inactive filter: %v total=%d", err, total)
	}
}

func TestRankUsersAndReferrals(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	deposits := []string{"100", "5000000000000000000000", "100", "7"}
	for i, dep := range deposits {
		u := model.User{Address: address(i), TotalDeposit: dep, Status: model.StatusActive}
		if i > 0 {
			u.ReferredBy = address(0)
		}
		u.ReferralCode = model.ReferralCode(u.Address)
		if err := s.CreateUser(ctx, &u); err != nil {
			t.Fatalf("create user %d: %v", i, err)
		}
	}
	if err := s.SetUserStatus(ctx, address(3), model.StatusInactive); err != nil {
		t.Fatalf("status: %v", err)
	}

	ranked, total, err := s.RankUsers(ctx, paging.Request{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if total != 3 {
		t.Fatalf("inactive users should be excluded, total = %d", total)
	}
	want := []string{address(1), address(0), address(2)}
	for i, u := range ranked {
		if u.Address != want[i] {
			t.Fatalf("rank %d = %s, want %s", i, u.Address, want[i])
		}
	}

	refs, total, err := s.ListReferrals(ctx, address(0), paging.Request{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("referrals: %v", err)
	}
	if total != 3 || len(refs) != 2 {
		t.Fatalf("referrals total = %d, page = %d", total, len(refs))
	}

	byCode, err := s.GetUserByReferralCode(ctx, model.ReferralCode(address(2)))
	if err != nil || byCode.Address != address(2) {
		t.Fatalf("by code: %v %s", err, byCode.Address)
	}
}

func TestTransactionUniqueness(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	hash := "0x" + fmt.Sprintf("%064x", 1)
	tx := model.TransactionLog{ChainID: 56, TxHash: hash, UserAddress: address(1), Type: model.TxDeposit, Amount: "1"}
	if err := s.CreateTransaction(ctx, &tx); err != nil {
		t.Fatalf("create: %v", err)
	}
	again := tx
	again.ID = ""
	if err := s.CreateTransaction(ctx, &again); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	other := tx
	other.ID = ""
	other.ChainID = 1
	if err := s.CreateTransaction(ctx, &other); err != nil {
		t.Fatalf("same hash on another chain should be allowed: %v", err)
	}

	items, total, err := s.ListTransactions(ctx, storage.TransactionFilter{ChainID: 56}, paging.Request{Page: 1, Limit: 10})
	if err != nil || total != 1 || items[0].ID != tx.ID {
		t.Fatalf("filter by chain: %v total=%d", err, total)
	}
	if err := s.SetTransactionStatus(ctx, tx.ID, model.TxConfirmed); err != nil {
		t.Fatalf("status: %v", err)
	}
	got, _ := s.GetTransaction(ctx, tx.ID)
	if got.Status != model.TxConfirmed {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestSnapshotsKeepLatest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.SaveTVLSnapshots(ctx, []model.TVLSnapshot{
		{PoolID: "a", TVL: "2", FetchedAt: t0.Add(time.Minute)},
		{PoolID: "a", TVL: "1", FetchedAt: t0},
		{PoolID: "b", TVL: "9", FetchedAt: t0},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	latest, err := s.LatestTVLSnapshots(ctx, []string{"a", "c"})
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 1 || latest["a"].TVL != "2" {
		t.Fatalf("latest = %+v", latest)
	}
}

func TestCreateUserRejectsTakenReferralCode(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	first := model.User{Address: address(0), ReferralCode: "ABCD0001", TotalDeposit: "0", Status: model.StatusActive}
	if err := s.CreateUser(ctx, &first); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := model.User{Address: address(1), ReferralCode: "abcd0001", TotalDeposit: "0", Status: model.StatusActive}
	if err := s.CreateUser(ctx, &second); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
