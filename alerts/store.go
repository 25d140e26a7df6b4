package alerts

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"papertrader/models"
)

// Store persists price alerts. Alerts live outside the ledger's consistency
// domain; nothing here touches balances or holdings.
type Store interface {
	Create(ctx context.Context, alert *models.Alert) error
	ListByUser(ctx context.Context, userID string) ([]models.Alert, error)
	ListActive(ctx context.Context) ([]models.Alert, error)
	MarkTriggered(ctx context.Context, id string, price float64, at time.Time) error
	Delete(ctx context.Context, userID, id string) error
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(ctx context.Context, database *mongo.Database) (*MongoStore, error) {
	coll := database.Collection("alerts")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("create alerts index: %w", err)
	}
	return &MongoStore{coll: coll}, nil
}

func (s *MongoStore) Create(ctx context.Context, alert *models.Alert) error {
	if _, err := s.coll.InsertOne(ctx, alert); err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Alert, error) {
	return s.list(ctx, bson.M{"userId": userID})
}

func (s *MongoStore) ListActive(ctx context.Context) ([]models.Alert, error) {
	return s.list(ctx, bson.M{"triggered": false})
}

func (s *MongoStore) list(ctx context.Context, filter bson.M) ([]models.Alert, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, fmt.Errorf("fetch alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var alerts []models.Alert
	for cursor.Next(ctx) {
		var a models.Alert
		if err := cursor.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, cursor.Err()
}

func (s *MongoStore) MarkTriggered(ctx context.Context, id string, price float64, at time.Time) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"triggered": true, "triggeredPrice": price, "triggeredAt": at},
	})
	if err != nil {
		return fmt.Errorf("mark alert triggered: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, userID, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return nil
}

// MemoryStore backs tests and local runs without a MongoDB.
type MemoryStore struct {
	mu     sync.Mutex
	alerts map[string]models.Alert
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{alerts: make(map[string]models.Alert)}
}

func (s *MemoryStore) Create(_ context.Context, alert *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[alert.ID] = *alert
	return nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Alert
	for _, a := range s.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ListActive(_ context.Context) ([]models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Alert
	for _, a := range s.alerts {
		if !a.Triggered {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkTriggered(_ context.Context, id string, price float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return fmt.Errorf("alert %s not found", id)
	}
	a.Triggered = true
	a.TriggeredPrice = price
	a.TriggeredAt = &at
	s.alerts[id] = a
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.alerts[id]; ok && a.UserID == userID {
		delete(s.alerts, id)
	}
	return nil
}
