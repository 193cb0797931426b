package mongo

import (
	"strings"
	"time"

	"yieldDesk/internal/model"
)

// depositWidth fits any uint256 in base 10.
const depositWidth = 78

// depositKey left-pads an amount so lexical order equals numeric order.
// Values above uint256 sort as the maximum.
func depositKey(amount string) string {
	value := model.MustAmount(amount)
	if value.Cmp(model.MaxAmount()) > 0 {
		value = model.MaxAmount()
	}
	digits := value.String()
	return strings.Repeat("0", depositWidth-len(digits)) + digits
}

type adminDoc struct {
	ID         string    `bson:"_id"`
	Address    string    `bson:"address"`
	AddressKey string    `bson:"addressKey"`
	Name       string    `bson:"name"`
	Role       string    `bson:"role"`
	Status     string    `bson:"status"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func newAdminDoc(a model.Admin) adminDoc {
	return adminDoc{
		ID:         a.ID,
		Address:    a.Address,
		AddressKey: key(a.Address),
		Name:       a.Name,
		Role:       a.Role,
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (d adminDoc) model() model.Admin {
	return model.Admin{
		ID:        d.ID,
		Address:   d.Address,
		Name:      d.Name,
		Role:      d.Role,
		Status:    model.Status(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type poolDoc struct {
	ID                string    `bson:"_id"`
	Name              string    `bson:"name"`
	ChainID           int64     `bson:"chainId"`
	VaultAddress      string    `bson:"vaultAddress"`
	VaultKey          string    `bson:"vaultKey"`
	StrategyAddress   string    `bson:"strategyAddress"`
	TokenAddress      string    `bson:"tokenAddress"`
	TokenSymbol       string    `bson:"tokenSymbol"`
	TokenDecimals     int32     `bson:"tokenDecimals"`
	SlippageTolerance int32     `bson:"slippageTolerance"`
	Status            string    `bson:"status"`
	CreatedAt         time.Time `bson:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

func newPoolDoc(p model.Pool) poolDoc {
	return poolDoc{
		ID:                p.ID,
		Name:              p.Name,
		ChainID:           int64(p.ChainID),
		VaultAddress:      p.VaultAddress,
		VaultKey:          key(p.VaultAddress),
		StrategyAddress:   p.StrategyAddress,
		TokenAddress:      p.TokenAddress,
		TokenSymbol:       p.TokenSymbol,
		TokenDecimals:     int32(p.TokenDecimals),
		SlippageTolerance: int32(p.SlippageTolerance),
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (d poolDoc) model() model.Pool {
	return model.Pool{
		ID:                d.ID,
		Name:              d.Name,
		ChainID:           uint64(d.ChainID),
		VaultAddress:      d.VaultAddress,
		StrategyAddress:   d.StrategyAddress,
		TokenAddress:      d.TokenAddress,
		TokenSymbol:       d.TokenSymbol,
		TokenDecimals:     uint8(d.TokenDecimals),
		SlippageTolerance: uint32(d.SlippageTolerance),
		Status:            model.Status(d.Status),
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}

type userDoc struct {
	ID            string    `bson:"_id"`
	Address       string    `bson:"address"`
	AddressKey    string    `bson:"addressKey"`
	ReferralCode  string    `bson:"referralCode"`
	ReferredBy    string    `bson:"referredBy,omitempty"`
	ReferredByKey string    `bson:"referredByKey,omitempty"`
	TotalDeposit  string    `bson:"totalDeposit"`
	DepositKey    string    `bson:"depositKey"`
	Status        string    `bson:"status"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func newUserDoc(u model.User) userDoc {
	return userDoc{
		ID:            u.ID,
		Address:       u.Address,
		AddressKey:    key(u.Address),
		ReferralCode:  strings.ToUpper(u.ReferralCode),
		ReferredBy:    u.ReferredBy,
		ReferredByKey: key(u.ReferredBy),
		TotalDeposit:  u.TotalDeposit,
		DepositKey:    depositKey(u.TotalDeposit),
		Status:        string(u.Status),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (d userDoc) model() model.User {
	return model.User{
		ID:           d.ID,
		Address:      d.Address,
		ReferralCode: d.ReferralCode,
		ReferredBy:   d.ReferredBy,
		TotalDeposit: d.TotalDeposit,
		Status:       model.Status(d.Status),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type transactionDoc struct {
	ID          string    `bson:"_id"`
	ChainID     int64     `bson:"chainId"`
	TxHash      string    `bson:"txHash"`
	HashKey     string    `bson:"hashKey"`
	UserAddress string    `bson:"userAddress"`
	UserKey     string    `bson:"userKey"`
	PoolID      string    `bson:"poolId"`
	Type        string    `bson:"type"`
	Amount      string    `bson:"amount"`
	BlockNumber int64     `bson:"blockNumber"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func newTransactionDoc(t model.TransactionLog) transactionDoc {
	return transactionDoc{
		ID:          t.ID,
		ChainID:     int64(t.ChainID),
		TxHash:      t.TxHash,
		HashKey:     strings.ToLower(t.TxHash),
		UserAddress: t.UserAddress,
		UserKey:     key(t.UserAddress),
		PoolID:      t.PoolID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		BlockNumber: int64(t.BlockNumber),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
	}
}

func (d transactionDoc) model() model.TransactionLog {
	return model.TransactionLog{
		ID:          d.ID,
		ChainID:     uint64(d.ChainID),
		TxHash:      d.TxHash,
		UserAddress: d.UserAddress,
		PoolID:      d.PoolID,
		Type:        model.TxType(d.Type),
		Amount:      d.Amount,
		BlockNumber: uint64(d.BlockNumber),
		Status:      model.TxStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type snapshotDoc struct {
	PoolID          string    `bson:"poolId"`
	ChainID         int64     `bson:"chainId"`
	StrategyAddress string    `bson:"strategyAddress"`
	TVL             string    `bson:"tvl"`
	Formatted       string    `bson:"formatted"`
	Decimals        int32     `bson:"decimals"`
	Method          string    `bson:"method"`
	Error           string    `bson:"error,omitempty"`
	FetchedAt       time.Time `bson:"fetchedAt"`
}

func newSnapshotDoc(s model.TVLSnapshot) snapshotDoc {
	return snapshotDoc{
		PoolID:          s.PoolID,
		ChainID:         int64(s.ChainID),
		StrategyAddress: s.StrategyAddress,
		TVL:             s.TVL,
		Formatted:       s.Formatted,
		Decimals:        int32(s.Decimals),
		Method:          s.Method,
		Error:           s.Error,
		FetchedAt:       s.FetchedAt,
	}
}

func (d snapshotDoc) model() model.TVLSnapshot {
	return model.TVLSnapshot{
		PoolID:          d.PoolID,
		ChainID:         uint64(d.ChainID),
		StrategyAddress: d.StrategyAddress,
		TVL:             d.TVL,
		Formatted:       d.Formatted,
		Decimals:        uint8(d.Decimals),
		Method:          d.Method,
		Error:           d.Error,
		FetchedAt:       d.FetchedAt.UTC(),
	}
}
