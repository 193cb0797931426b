package mongo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"yieldDesk/internal/model"
	"yieldDesk/internal/paging"
	"yieldDesk/internal/storage"
)

func (s *Store) ListAdmins(ctx context.Context, filter storage.AdminFilter, req paging.Request) ([]model.Admin, int64, error) {
	q := bson.M{}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}
	addSearch(q, filter.Search, "address", "name")

	docs, total, err := findPage[adminDoc](ctx, s.collection(adminsCollection), q, newestFirst, req)
	if err != nil {
		return nil, 0, err
	}
	admins := make([]model.Admin, 0, len(docs))
	for _, d := range docs {
		admins = append(admins, d.model())
	}
	return admins, total, nil
}

func (s *Store) GetAdmin(ctx context.Context, address string) (model.Admin, error) {
	var d adminDoc
	if err := s.collection(adminsCollection).FindOne(ctx, bson.M{"addressKey": key(address)}).Decode(&d); err != nil {
		return model.Admin{}, mapError(err, "admin "+address)
	}
	return d.model(), nil
}

func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := s.now()
	admin.CreatedAt, admin.UpdatedAt = now, now
	if _, err := s.collection(adminsCollection).InsertOne(ctx, newAdminDoc(*admin)); err != nil {
		return mapError(err, "admin "+admin.Address)
	}
	return nil
}

func (s *Store) UpdateAdminRole(ctx context.Context, address, role string) error {
	res, err := s.collection(adminsCollection).UpdateOne(ctx,
		bson.M{"addressKey": key(address)},
		bson.M{"$set": bson.M{"role": role, "updatedAt": s.now()}},
	)
	if err != nil {
		return mapError(err, "admin "+address)
	}
	return requireMatched(res, "admin "+address)
}

func (s *Store) SetAdminStatus(ctx context.Context, address string, status model.Status) error {
	res, err := s.collection(adminsCollection).UpdateOne(ctx,
		bson.M{"addressKey": key(address)},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": s.now()}},
	)
	if err != nil {
		return mapError(err, "admin "+address)
	}
	return requireMatched(res, "admin "+address)
}
