package repo

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const idemNS = "test.idempotency_keys"

func TestMongoIdempotency(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	now := time.Now().UTC()

	mt.Run("indexes", func(mt *mtest.T) {
		s := NewMongoIdempotency(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		if err := s.EnsureIndexes(ctx); err != nil {
			t.Fatalf("EnsureIndexes: %v", err)
		}
	})

	mt.Run("lookup found", func(mt *mtest.T) {
		s := NewMongoIdempotency(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, idemNS, mtest.FirstBatch, bson.D{
			{Key: "key", Value: "k1"},
			{Key: "appointmentId", Value: "a1"},
			{Key: "status", Value: int32(http.StatusCreated)},
			{Key: "expiresAt", Value: now.Add(time.Hour)},
		}))
		id, status, found, err := s.Lookup(ctx, "k1", now)
		if err != nil || !found || id != "a1" || status != http.StatusCreated {
			t.Fatalf("Lookup = %q, %d, %v, %v", id, status, found, err)
		}
	})

	mt.Run("lookup missing", func(mt *mtest.T) {
		s := NewMongoIdempotency(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, idemNS, mtest.FirstBatch))
		_, _, found, err := s.Lookup(ctx, "k1", now)
		if err != nil || found {
			t.Fatalf("Lookup found=%v err=%v", found, err)
		}
	})

	mt.Run("lookup blank key", func(mt *mtest.T) {
		s := NewMongoIdempotency(mt.Coll)
		_, _, found, err := s.Lookup(ctx, "  ", now)
		if err != nil || found {
			t.Fatalf("Lookup found=%v err=%v", found, err)
		}
	})

	mt.Run("lookup error", func(mt *mtest.T) {
		s := NewMongoIdempotency(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))
		if _, _, _, err := s.Lookup(ctx, "k1", now); err == nil {
			t.Fatal("expected error")
		}
	})

	mt.Run("save", func(mt *mtest.T) {
		s := NewMongoIdempotency(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		if err := s.Save(ctx, "k1", "a1", http.StatusCreated, time.Hour); err != nil {
			t.Fatalf("Save: %v", err)
		}
	})

	mt.Run("save keeps first writer", func(mt *mtest.T) {
		s := NewMongoIdempotency(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.idempotency_keys index: ux_idempotency_key dup key",
		}))
		if err := s.Save(ctx, "k1", "a2", http.StatusCreated, time.Hour); err != nil {
			t.Fatalf("duplicate Save should be nil, got %v", err)
		}
	})

	mt.Run("save error", func(mt *mtest.T) {
		s := NewMongoIdempotency(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))
		if err := s.Save(ctx, "k1", "a1", http.StatusCreated, time.Hour); err == nil {
			t.Fatal("expected error")
		}
	})
}
