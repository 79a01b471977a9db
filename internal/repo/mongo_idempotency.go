package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// idempotencyDoc is the stored shape of one Idempotency-Key outcome.
type idempotencyDoc struct {
	Key           string    `bson:"key"`
	AppointmentID string    `bson:"appointmentId"`
	Status        int       `bson:"status"`
	CreatedAt     time.Time `bson:"createdAt"`
	ExpiresAt     time.Time `bson:"expiresAt"`
}

// MongoIdempotency is the replay store used when appointments live in
// MongoDB and Redis is not configured. Expired documents are removed by a
// TTL index; reads also filter on expiresAt because the TTL monitor lags.
type MongoIdempotency struct {
	coll *mongo.Collection
}

// NewMongoIdempotency wraps an idempotency_keys collection.
func NewMongoIdempotency(coll *mongo.Collection) *MongoIdempotency {
	return &MongoIdempotency{coll: coll}
}

// EnsureIndexes creates the unique key index and the expiry TTL index.
func (s *MongoIdempotency) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetName("ux_idempotency_key").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("ttl_idempotency_expires").SetExpireAfterSeconds(0),
		},
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create idempotency indexes: %w", err)
	}
	return nil
}

// Lookup reports the appointment recorded for key, if still valid at now.
func (s *MongoIdempotency) Lookup(ctx context.Context, key string, now time.Time) (string, int, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", 0, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var doc idempotencyDoc
	filter := bson.M{"key": key, "expiresAt": bson.M{"$gt": now.UTC()}}
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	return doc.AppointmentID, doc.Status, true, nil
}

// Save records the outcome for key. A live record for the same key wins and
// the call returns nil; an expired one the TTL monitor has not yet removed is
// overwritten.
func (s *MongoIdempotency) Save(ctx context.Context, key, appointmentID string, status int, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := idempotencyDoc{
		Key:           key,
		AppointmentID: appointmentID,
		Status:        status,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}
	// Matches only an expired record; with none, the upsert inserts and a live
	// record surfaces as a duplicate key on the unique index.
	filter := bson.M{"key": key, "expiresAt": bson.M{"$lte": now}}
	opts := options.Update().SetUpsert(true)
	_, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}
