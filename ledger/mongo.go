package ledger

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"papertrader/models"
)

// MongoStore keeps the ledger in three collections: balances, holdings and
// transactions. InTransaction wraps all writes of one trade execution in a
// session transaction; the driver retries transient commit errors itself.
type MongoStore struct {
	client       *mongo.Client
	balances     *mongo.Collection
	holdings     *mongo.Collection
	transactions *mongo.Collection
	seedBalance  float64
}

func NewMongoStore(ctx context.Context, client *mongo.Client, database *mongo.Database, seedBalance float64) (*MongoStore, error) {
	s := &MongoStore{
		client:       client,
		balances:     database.Collection("balances"),
		holdings:     database.Collection("holdings"),
		transactions: database.Collection("transactions"),
		seedBalance:  seedBalance,
	}

	_, err := s.balances.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"userId": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create balances index: %w", err)
	}

	_, err = s.holdings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "symbol", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create holdings index: %w", err)
	}

	_, err = s.transactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("create transactions index: %w", err)
	}

	return s, nil
}

func (s *MongoStore) Balances() Balances         { return &mongoBalances{s} }
func (s *MongoStore) Holdings() Holdings         { return &mongoHoldings{s} }
func (s *MongoStore) Transactions() Transactions { return &mongoTransactions{s} }

func (s *MongoStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

type mongoBalances struct{ s *MongoStore }

func (r *mongoBalances) GetOrCreate(ctx context.Context, userID string) (*models.Balance, error) {
	var balance models.Balance
	err := r.s.balances.FindOne(ctx, bson.M{"userId": userID}).Decode(&balance)
	if err == nil {
		return &balance, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}

	balance = models.Balance{UserID: userID, Amount: r.s.seedBalance}
	if _, err := r.s.balances.InsertOne(ctx, balance); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the creation race outside the engine's lock; the winner's
			// document is authoritative.
			if ferr := r.s.balances.FindOne(ctx, bson.M{"userId": userID}).Decode(&balance); ferr == nil {
				return &balance, nil
			}
		}
		return nil, fmt.Errorf("create balance: %w", err)
	}
	return &balance, nil
}

func (r *mongoBalances) Save(ctx context.Context, balance *models.Balance) error {
	_, err := r.s.balances.ReplaceOne(ctx, bson.M{"userId": balance.UserID}, balance)
	if err != nil {
		return fmt.Errorf("save balance: %w", err)
	}
	return nil
}

type mongoHoldings struct{ s *MongoStore }

func (r *mongoHoldings) Find(ctx context.Context, userID, symbol string) (*models.Holding, error) {
	var holding models.Holding
	err := r.s.holdings.FindOne(ctx, bson.M{"userId": userID, "symbol": symbol}).Decode(&holding)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch holding: %w", err)
	}
	return &holding, nil
}

func (r *mongoHoldings) Upsert(ctx context.Context, holding *models.Holding) error {
	filter := bson.M{"userId": holding.UserID, "symbol": holding.Symbol}
	_, err := r.s.holdings.ReplaceOne(ctx, filter, holding, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save holding: %w", err)
	}
	return nil
}

func (r *mongoHoldings) Delete(ctx context.Context, userID, symbol string) error {
	_, err := r.s.holdings.DeleteOne(ctx, bson.M{"userId": userID, "symbol": symbol})
	if err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	return nil
}

func (r *mongoHoldings) ListByUser(ctx context.Context, userID string) ([]models.Holding, error) {
	cursor, err := r.s.holdings.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"symbol": 1}))
	if err != nil {
		return nil, fmt.Errorf("fetch holdings: %w", err)
	}
	defer cursor.Close(ctx)

	var holdings []models.Holding
	for cursor.Next(ctx) {
		var h models.Holding
		if err := cursor.Decode(&h); err != nil {
			return nil, fmt.Errorf("decode holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, cursor.Err()
}

type mongoTransactions struct{ s *MongoStore }

func (r *mongoTransactions) Append(ctx context.Context, txn *models.Transaction) (string, error) {
	// ObjectIDs are time-prefixed; with per-user commits serialized by the
	// engine's lock they give a strict per-user ordering for history reads.
	txn.ID = primitive.NewObjectID()
	if _, err := r.s.transactions.InsertOne(ctx, txn); err != nil {
		return "", fmt.Errorf("append transaction: %w", err)
	}
	return txn.ID.Hex(), nil
}

func (r *mongoTransactions) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transaction, error) {
	cursor, err := r.s.transactions.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"_id": -1}).SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txns []models.Transaction
	for cursor.Next(ctx) {
		var t models.Transaction
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, cursor.Err()
}
