package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"yieldDesk/internal/model"
)

// SaveTVLSnapshots upserts snapshots keyed by pool and fetch time.
func (s *Store) SaveTVLSnapshots(ctx context.Context, snapshots []model.TVLSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(snapshots))
	for _, snap := range snapshots {
		doc := newSnapshotDoc(snap)
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"poolId": doc.PoolID, "fetchedAt": doc.FetchedAt}).
			SetUpdate(bson.M{"$setOnInsert": doc}).
			SetUpsert(true))
	}
	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.collection(snapshotsCollection).BulkWrite(ctx, writes, opts); err != nil {
		return fmt.Errorf("insert tvl snapshots: %w", err)
	}
	return nil
}

// LatestTVLSnapshots returns the newest snapshot per pool id.
func (s *Store) LatestTVLSnapshots(ctx context.Context, poolIDs []string) (map[string]model.TVLSnapshot, error) {
	out := make(map[string]model.TVLSnapshot, len(poolIDs))
	if len(poolIDs) == 0 {
		return out, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"poolId": bson.M{"$in": poolIDs}}}},
		{{Key: "$sort", Value: bson.D{{Key: "poolId", Value: 1}, {Key: "fetchedAt", Value: -1}}}},
		{{Key: "$group", Value: bson.M{"_id": "$poolId", "latest": bson.M{"$first": "$$ROOT"}}}},
	}
	cur, err := s.collection(snapshotsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate tvl snapshots: %w", err)
	}
	var rows []struct {
		PoolID string      `bson:"_id"`
		Latest snapshotDoc `bson:"latest"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode tvl snapshots: %w", err)
	}
	for _, row := range rows {
		out[row.PoolID] = row.Latest.model()
	}
	return out, nil
}
