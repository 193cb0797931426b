package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

func (s *Store) ListPools(ctx context.Context, filter storage.PoolFilter, req paging.Request) ([]model.Pool, int64, error) {
	q := bson.M{}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}
	if filter.ChainID != 0 {
		q["chainId"] = int64(filter.ChainID)
	}
	addSearch(q, filter.Search, "name", "tokenSymbol", "vaultAddress", "strategyAddress", "tokenAddress")

	docs, total, err := findPage[poolDoc](ctx, s.collection(poolsCollection), q, newestFirst, req)
	if err != nil {
		return nil, 0, err
	}
	pools := make([]model.Pool, 0, len(docs))
	for _, d := range docs {
		pools = append(pools, d.model())
	}
	return pools, total, nil
}

func (s *Store) GetPool(ctx context.Context, id string) (model.Pool, error) {
	var d poolDoc
	if err := s.collection(poolsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return model.Pool{}, mapError(err, "pool "+id)
	}
	return d.model(), nil
}

func (s *Store) CreatePool(ctx context.Context, pool *model.Pool) error {
	if pool.ID == "" {
		pool.ID = uuid.NewString()
	}
	now := s.now()
	pool.CreatedAt, pool.UpdatedAt = now, now
	if _, err := s.collection(poolsCollection).InsertOne(ctx, newPoolDoc(*pool)); err != nil {
		return mapError(err, fmt.Sprintf("pool %d/%s", pool.ChainID, pool.VaultAddress))
	}
	return nil
}

func (s *Store) UpdatePool(ctx context.Context, pool *model.Pool) error {
	existing, err := s.GetPool(ctx, pool.ID)
	if err != nil {
		return err
	}
	pool.CreatedAt = existing.CreatedAt
	pool.UpdatedAt = s.now()

	res, err := s.collection(poolsCollection).UpdateOne(ctx,
		bson.M{"_id": pool.ID},
		bson.M{"$set": bson.M{
			"name":              pool.Name,
			"strategyAddress":   pool.StrategyAddress,
			"tokenSymbol":       pool.TokenSymbol,
			"tokenDecimals":     int32(pool.TokenDecimals),
			"slippageTolerance": int32(pool.SlippageTolerance),
			"updatedAt":         pool.UpdatedAt,
		}},
	)
	if err != nil {
		return mapError(err, "pool "+pool.ID)
	}
	return requireMatched(res, "pool "+pool.ID)
}

func (s *Store) SetPoolStatus(ctx context.Context, id string, status model.Status) error {
	res, err := s.collection(poolsCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": s.now()}},
	)
	if err != nil {
		return mapError(err, "pool "+id)
	}
	return requireMatched(res, "pool "+id)
}
