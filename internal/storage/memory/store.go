package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

// Store is an in-process storage.Store for tests and local runs.
type Store struct {
	mu           sync.RWMutex
	admins       map[string]model.Admin
	pools        map[string]model.Pool
	users        map[string]model.User
	transactions map[string]model.TransactionLog
	snapshots    map[string]model.TVLSnapshot
	now          func() time.Time
}

var _ storage.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		admins:       make(map[string]model.Admin),
		pools:        make(map[string]model.Pool),
		users:        make(map[string]model.User),
		transactions: make(map[string]model.TransactionLog),
		snapshots:    make(map[string]model.TVLSnapshot),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Close() {}

func key(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](items []T, req paging.Request) []T {
	start, end := paging.Window(len(items), req)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

func newerFirst(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA < idB
}

// Admins

func (s *Store) ListAdmins(_ context.Context, filter storage.AdminFilter, req paging.Request) ([]model.Admin, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Admin, 0, len(s.admins))
	for _, a := range s.admins {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !containsFold(a.Address, filter.Search) && !containsFold(a.Name, filter.Search) {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return page(matched, req), int64(len(matched)), nil
}

func (s *Store) GetAdmin(_ context.Context, address string) (model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[key(address)]
	if !ok {
		return model.Admin{}, fmt.Errorf("admin %s: %w", address, storage.ErrNotFound)
	}
	return a, nil
}

func (s *Store) CreateAdmin(_ context.Context, admin *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(admin.Address)
	if _, ok := s.admins[k]; ok {
		return fmt.Errorf("admin %s: %w", admin.Address, storage.ErrConflict)
	}
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := s.now()
	admin.CreatedAt, admin.UpdatedAt = now, now
	s.admins[k] = *admin
	return nil
}

func (s *Store) UpdateAdminRole(_ context.Context, address, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(address)
	a, ok := s.admins[k]
	if !ok {
		return fmt.Errorf("admin %s: %w", address, storage.ErrNotFound)
	}
	a.Role = role
	a.UpdatedAt = s.now()
	s.admins[k] = a
	return nil
}

func (s *Store) SetAdminStatus(_ context.Context, address string, status model.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(address)
	a, ok := s.admins[k]
	if !ok {
		return fmt.Errorf("admin %s: %w", address, storage.ErrNotFound)
	}
	a.Status = status
	a.UpdatedAt = s.now()
	s.admins[k] = a
	return nil
}

// Pools

func (s *Store) ListPools(_ context.Context, filter storage.PoolFilter, req paging.Request) ([]model.Pool, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ChainID != 0 && p.ChainID != filter.ChainID {
			continue
		}
		if filter.Search != "" &&
			!containsFold(p.Name, filter.Search) &&
			!containsFold(p.TokenSymbol, filter.Search) &&
			!containsFold(p.VaultAddress, filter.Search) &&
			!containsFold(p.StrategyAddress, filter.Search) &&
			!containsFold(p.TokenAddress, filter.Search) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return page(matched, req), int64(len(matched)), nil
}

func (s *Store) GetPool(_ context.Context, id string) (model.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pools[id]
	if !ok {
		return model.Pool{}, fmt.Errorf("pool %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (s *Store) CreatePool(_ context.Context, pool *model.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.pools {
		if existing.ChainID == pool.ChainID && key(existing.VaultAddress) == key(pool.VaultAddress) {
			return fmt.Errorf("pool %d/%s: %w", pool.ChainID, pool.VaultAddress, storage.ErrConflict)
		}
	}
	if pool.ID == "" {
		pool.ID = uuid.NewString()
	}
	now := s.now()
	pool.CreatedAt, pool.UpdatedAt = now, now
	s.pools[pool.ID] = *pool
	return nil
}

func (s *Store) UpdatePool(_ context.Context, pool *model.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.pools[pool.ID]
	if !ok {
		return fmt.Errorf("pool %s: %w", pool.ID, storage.ErrNotFound)
	}
	pool.CreatedAt = existing.CreatedAt
	pool.UpdatedAt = s.now()
	s.pools[pool.ID] = *pool
	return nil
}

func (s *Store) SetPoolStatus(_ context.Context, id string, status model.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pools[id]
	if !ok {
		return fmt.Errorf("pool %s: %w", id, storage.ErrNotFound)
	}
	p.Status = status
	p.UpdatedAt = s.now()
	s.pools[id] = p
	return nil
}

// Users

func (s *Store) ListUsers(_ context.Context, filter storage.UserFilter, req paging.Request) ([]model.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !containsFold(u.Address, filter.Search) && !containsFold(u.ReferralCode, filter.Search) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return page(matched, req), int64(len(matched)), nil
}

func (s *Store) GetUser(_ context.Context, address string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[key(address)]
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", address, storage.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUserByReferralCode(_ context.Context, code string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.ReferralCode, strings.TrimSpace(code)) {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("referral code %s: %w", code, storage.ErrNotFound)
}

func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(user.Address)
	if _, ok := s.users[k]; ok {
		return fmt.Errorf("user %s: %w", user.Address, storage.ErrConflict)
	}
	for _, u := range s.users {
		if strings.EqualFold(u.ReferralCode, user.ReferralCode) {
			return fmt.Errorf("referral code %s: %w", user.ReferralCode, storage.ErrConflict)
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[k] = *user
	return nil
}

func (s *Store) SetUserStatus(_ context.Context, address string, status model.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(address)
	u, ok := s.users[k]
	if !ok {
		return fmt.Errorf("user %s: %w", address, storage.ErrNotFound)
	}
	u.Status = status
	u.UpdatedAt = s.now()
	s.users[k] = u
	return nil
}

func (s *Store) UpdateUserDeposit(_ context.Context, address, total string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(address)
	u, ok := s.users[k]
	if !ok {
		return fmt.Errorf("user %s: %w", address, storage.ErrNotFound)
	}
	u.TotalDeposit = total
	u.UpdatedAt = s.now()
	s.users[k] = u
	return nil
}

func (s *Store) RankUsers(_ context.Context, req paging.Request) ([]model.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ranked := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		if u.Status != model.StatusActive {
			continue
		}
		ranked = append(ranked, u)
	}
	sort.Slice(ranked, func(i, j int) bool {
		cmp := model.MustAmount(ranked[i].TotalDeposit).Cmp(model.MustAmount(ranked[j].TotalDeposit))
		if cmp != 0 {
			return cmp > 0
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})
	return page(ranked, req), int64(len(ranked)), nil
}

func (s *Store) ListReferrals(_ context.Context, referrer string, req paging.Request) ([]model.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.User, 0)
	for _, u := range s.users {
		if u.ReferredBy != "" && key(u.ReferredBy) == key(referrer) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return page(matched, req), int64(len(matched)), nil
}

// Transactions

func (s *Store) ListTransactions(_ context.Context, filter storage.TransactionFilter, req paging.Request) ([]model.TransactionLog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.TransactionLog, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if filter.UserAddress != "" && key(tx.UserAddress) != key(filter.UserAddress) {
			continue
		}
		if filter.PoolID != "" && tx.PoolID != filter.PoolID {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.ChainID != 0 && tx.ChainID != filter.ChainID {
			continue
		}
		matched = append(matched, tx)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return page(matched, req), int64(len(matched)), nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (model.TransactionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[id]
	if !ok {
		return model.TransactionLog{}, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	return tx, nil
}

func (s *Store) CreateTransaction(_ context.Context, tx *model.TransactionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.transactions {
		if existing.ChainID == tx.ChainID && strings.EqualFold(existing.TxHash, tx.TxHash) {
			return fmt.Errorf("transaction %d/%s: %w", tx.ChainID, tx.TxHash, storage.ErrConflict)
		}
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.CreatedAt = s.now()
	s.transactions[tx.ID] = *tx
	return nil
}

func (s *Store) SetTransactionStatus(_ context.Context, id string, status model.TxStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	tx.Status = status
	s.transactions[id] = tx
	return nil
}

// Snapshots

func (s *Store) SaveTVLSnapshots(_ context.Context, snapshots []model.TVLSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range snapshots {
		if prev, ok := s.snapshots[snap.PoolID]; ok && prev.FetchedAt.After(snap.FetchedAt) {
			continue
		}
		s.snapshots[snap.PoolID] = snap
	}
	return nil
}

func (s *Store) LatestTVLSnapshots(_ context.Context, poolIDs []string) (map[string]model.TVLSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.TVLSnapshot, len(poolIDs))
	for _, id := range poolIDs {
		if snap, ok := s.snapshots[id]; ok {
			out[id] = snap
		}
	}
	return out, nil
}
