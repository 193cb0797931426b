package storage

import (
	"context"
	"errors"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
)

var (
	// ErrNotFound is returned when a keyed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key already exists.
	ErrConflict = errors.New("already exists")
)

// AdminFilter narrows admin listings. Search matches address or name.
type AdminFilter struct {
	Search string
	Status model.Status
}

// PoolFilter narrows pool listings. Search matches name, token symbol or any address.
type PoolFilter struct {
	Search  string
	ChainID uint64
	Status  model.Status
}

// UserFilter narrows user listings. Search matches address or referral code.
type UserFilter struct {
	Search string
	Status model.Status
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	UserAddress string
	PoolID      string
	Type        model.TxType
	ChainID     uint64
}

// AdminStore persists dashboard admins keyed by address.
type AdminStore interface {
	ListAdmins(ctx context.Context, filter AdminFilter, page paging.Request) ([]model.Admin, int64, error)
	GetAdmin(ctx context.Context, address string) (model.Admin, error)
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	UpdateAdminRole(ctx context.Context, address, role string) error
	SetAdminStatus(ctx context.Context, address string, status model.Status) error
}

// PoolStore persists pools keyed by id.
type PoolStore interface {
	ListPools(ctx context.Context, filter PoolFilter, page paging.Request) ([]model.Pool, int64, error)
	GetPool(ctx context.Context, id string) (model.Pool, error)
	CreatePool(ctx context.Context, pool *model.Pool) error
	UpdatePool(ctx context.Context, pool *model.Pool) error
	SetPoolStatus(ctx context.Context, id string, status model.Status) error
}

// UserStore persists users keyed by address.
type UserStore interface {
	ListUsers(ctx context.Context, filter UserFilter, page paging.Request) ([]model.User, int64, error)
	GetUser(ctx context.Context, address string) (model.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	SetUserStatus(ctx context.Context, address string, status model.Status) error
	UpdateUserDeposit(ctx context.Context, address, total string) error
	RankUsers(ctx context.Context, page paging.Request) ([]model.User, int64, error)
	ListReferrals(ctx context.Context, referrer string, page paging.Request) ([]model.User, int64, error)
}

// TransactionStore persists transaction logs keyed by id, unique on chain id and hash.
type TransactionStore interface {
	ListTransactions(ctx context.Context, filter TransactionFilter, page paging.Request) ([]model.TransactionLog, int64, error)
	GetTransaction(ctx context.Context, id string) (model.TransactionLog, error)
	CreateTransaction(ctx context.Context, tx *model.TransactionLog) error
	SetTransactionStatus(ctx context.Context, id string, status model.TxStatus) error
}

// SnapshotStore persists TVL reads.
type SnapshotStore interface {
	SaveTVLSnapshots(ctx context.Context, snapshots []model.TVLSnapshot) error
	LatestTVLSnapshots(ctx context.Context, poolIDs []string) (map[string]model.TVLSnapshot, error)
}

// Store is the full persistence surface of the API.
type Store interface {
	AdminStore
	PoolStore
	UserStore
	TransactionStore
	SnapshotStore
	Close()
}
