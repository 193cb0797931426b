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

func (s *Store) ListTransactions(ctx context.Context, filter storage.TransactionFilter, req paging.Request) ([]model.TransactionLog, int64, error) {
	q := bson.M{}
	if filter.UserAddress != "" {
		q["userKey"] = key(filter.UserAddress)
	}
	if filter.PoolID != "" {
		q["poolId"] = filter.PoolID
	}
	if filter.Type != "" {
		q["type"] = string(filter.Type)
	}
	if filter.ChainID != 0 {
		q["chainId"] = int64(filter.ChainID)
	}

	docs, total, err := findPage[transactionDoc](ctx, s.collection(transactionsCollection), q, newestFirst, req)
	if err != nil {
		return nil, 0, err
	}
	txs := make([]model.TransactionLog, 0, len(docs))
	for _, d := range docs {
		txs = append(txs, d.model())
	}
	return txs, total, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (model.TransactionLog, error) {
	var d transactionDoc
	if err := s.collection(transactionsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return model.TransactionLog{}, mapError(err, "transaction "+id)
	}
	return d.model(), nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *model.TransactionLog) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.CreatedAt = s.now()
	if _, err := s.collection(transactionsCollection).InsertOne(ctx, newTransactionDoc(*tx)); err != nil {
		return mapError(err, fmt.Sprintf("transaction %d/%s", tx.ChainID, tx.TxHash))
	}
	return nil
}

func (s *Store) SetTransactionStatus(ctx context.Context, id string, status model.TxStatus) error {
	res, err := s.collection(transactionsCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status)}},
	)
	if err != nil {
		return mapError(err, "transaction "+id)
	}
	return requireMatched(res, "transaction "+id)
}
