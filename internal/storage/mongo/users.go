package mongo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

func (s *Store) findUsers(ctx context.Context, q bson.M, sort bson.D, req paging.Request) ([]model.User, int64, error) {
	docs, total, err := findPage[userDoc](ctx, s.collection(usersCollection), q, sort, req)
	if err != nil {
		return nil, 0, err
	}
	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, total, nil
}

func (s *Store) ListUsers(ctx context.Context, filter storage.UserFilter, req paging.Request) ([]model.User, int64, error) {
	q := bson.M{}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}
	addSearch(q, filter.Search, "address", "referralCode")
	return s.findUsers(ctx, q, newestFirst, req)
}

func (s *Store) RankUsers(ctx context.Context, req paging.Request) ([]model.User, int64, error) {
	sort := bson.D{
		{Key: "depositKey", Value: -1},
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	}
	return s.findUsers(ctx, bson.M{"status": string(model.StatusActive)}, sort, req)
}

func (s *Store) ListReferrals(ctx context.Context, referrer string, req paging.Request) ([]model.User, int64, error) {
	return s.findUsers(ctx, bson.M{"referredByKey": key(referrer)}, newestFirst, req)
}

func (s *Store) GetUser(ctx context.Context, address string) (model.User, error) {
	var d userDoc
	if err := s.collection(usersCollection).FindOne(ctx, bson.M{"addressKey": key(address)}).Decode(&d); err != nil {
		return model.User{}, mapError(err, "user "+address)
	}
	return d.model(), nil
}

func (s *Store) GetUserByReferralCode(ctx context.Context, code string) (model.User, error) {
	var d userDoc
	q := bson.M{"referralCode": strings.ToUpper(strings.TrimSpace(code))}
	if err := s.collection(usersCollection).FindOne(ctx, q).Decode(&d); err != nil {
		return model.User{}, mapError(err, "referral code "+code)
	}
	return d.model(), nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	if _, err := s.collection(usersCollection).InsertOne(ctx, newUserDoc(*user)); err != nil {
		return mapError(err, "user "+user.Address)
	}
	return nil
}

func (s *Store) SetUserStatus(ctx context.Context, address string, status model.Status) error {
	res, err := s.collection(usersCollection).UpdateOne(ctx,
		bson.M{"addressKey": key(address)},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": s.now()}},
	)
	if err != nil {
		return mapError(err, "user "+address)
	}
	return requireMatched(res, "user "+address)
}

func (s *Store) UpdateUserDeposit(ctx context.Context, address, total string) error {
	res, err := s.collection(usersCollection).UpdateOne(ctx,
		bson.M{"addressKey": key(address)},
		bson.M{"$set": bson.M{
			"totalDeposit": total,
			"depositKey":   depositKey(total),
			"updatedAt":    s.now(),
		}},
	)
	if err != nil {
		return mapError(err, "user "+address)
	}
	return requireMatched(res, "user "+address)
}
