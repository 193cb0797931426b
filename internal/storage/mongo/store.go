package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

const (
	adminsCollection       = "admins"
	poolsCollection        = "pools"
	usersCollection        = "users"
	transactionsCollection = "transactions"
	snapshotsCollection    = "tvl_snapshots"
)

// Store provides MongoDB persistence for the API resources.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

var _ storage.Store = (*Store)(nil)

func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{
		client: client,
		db:     client.Database(database),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}, nil
}

func (s *Store) Close() {
	if s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// EnsureIndexes creates the unique and lookup indexes every collection relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}
	plain := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys}
	}

	indexes := map[string][]mongo.IndexModel{
		adminsCollection: {
			unique(bson.D{{Key: "addressKey", Value: 1}}),
		},
		poolsCollection: {
			unique(bson.D{{Key: "chainId", Value: 1}, {Key: "vaultKey", Value: 1}}),
		},
		usersCollection: {
			unique(bson.D{{Key: "addressKey", Value: 1}}),
			unique(bson.D{{Key: "referralCode", Value: 1}}),
			plain(bson.D{{Key: "referredByKey", Value: 1}}),
			plain(bson.D{{Key: "status", Value: 1}, {Key: "depositKey", Value: -1}, {Key: "createdAt", Value: 1}}),
		},
		transactionsCollection: {
			unique(bson.D{{Key: "chainId", Value: 1}, {Key: "hashKey", Value: 1}}),
			plain(bson.D{{Key: "userKey", Value: 1}}),
		},
		snapshotsCollection: {
			unique(bson.D{{Key: "poolId", Value: 1}, {Key: "fetchedAt", Value: -1}}),
		},
	}
	for name, models := range indexes {
		if _, err := s.collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", what, storage.ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func requireMatched(res *mongo.UpdateResult, what string) error {
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}

func key(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// addSearch matches term as a case-insensitive substring of any field.
func addSearch(filter bson.M, term string, fields ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: pattern})
	}
	filter["$or"] = or
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}

// findPage counts filter matches and decodes one sorted page of documents.
func findPage[D any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, req paging.Request) ([]D, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.Limit))
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	docs := make([]D, 0, req.Limit)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return docs, total, nil
}
