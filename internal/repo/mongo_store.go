package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tbourn/go-booking-backend/internal/domain"
)

const mongoOpTimeout = 5 * time.Second

// ConnectMongo dials uri and pings the primary before returning.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// MongoStore keeps appointments as documents in a single collection. It
// satisfies the same contract as GormStore.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore wraps an appointments collection.
func NewMongoStore(coll *mongo.Collection) *MongoStore { return &MongoStore{coll: coll} }

// EnsureIndexes creates lookup indexes for the mobile and slot checks. With
// strict set, both are unique and the insert arbitrates concurrent bookings.
func (s *MongoStore) EnsureIndexes(ctx context.Context, strict bool) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mobile := options.Index().SetName("idx_appointments_mobile")
	slot := options.Index().SetName("idx_appointments_slot")
	if strict {
		mobile = options.Index().SetName(uxMobile).SetUnique(true)
		slot = options.Index().SetName(uxSlot).SetUnique(true)
	}

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{Keys: bson.D{{Key: "mobile", Value: 1}}, Options: mobile},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}, Options: slot},
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	cur, err := s.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := []domain.Appointment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every appointment ordered by date, then time label.
func (s *MongoStore) List(ctx context.Context) ([]domain.Appointment, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}))
}

// ListAll returns every appointment in natural order.
func (s *MongoStore) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	return s.find(ctx, bson.M{})
}

// ListByDate returns the appointments booked on date.
func (s *MongoStore) ListByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	return s.find(ctx, bson.M{"date": date}, options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var a domain.Appointment
	if err := s.coll.FindOne(ctx, filter).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Get returns the appointment with id, or ErrNotFound.
func (s *MongoStore) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	a, err := s.findOne(ctx, bson.M{"id": id})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	return a, err
}

// FindByMobile returns the appointment holding mobile, or (nil, nil).
func (s *MongoStore) FindByMobile(ctx context.Context, mobile string) (*domain.Appointment, error) {
	a, err := s.findOne(ctx, bson.M{"mobile": mobile})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	return a, err
}

// FindBySlot returns the appointment at (date, time), or (nil, nil).
func (s *MongoStore) FindBySlot(ctx context.Context, date, time string) (*domain.Appointment, error) {
	a, err := s.findOne(ctx, bson.M{"date": date, "time": time})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	return a, err
}

// Insert stores a with a fresh UUID and UTC timestamps.
func (s *MongoStore) Insert(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.coll.InsertOne(ctx, a); err != nil {
		a.ID = ""
		return classifyMongoDuplicate(err)
	}
	return nil
}

// Update applies patch with $set and returns the document after the change.
func (s *MongoStore) Update(ctx context.Context, id string, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range patch.Fields() {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a domain.Appointment
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classifyMongoDuplicate(err)
	}
	return &a, nil
}

// Delete removes the appointment with id; a missing id is not an error.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	_, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	return err
}

// Summary counts appointments before, on and after today.
func (s *MongoStore) Summary(ctx context.Context, today string) (domain.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var (
		sum domain.Summary
		err error
	)
	if sum.Total, err = s.coll.CountDocuments(ctx, bson.M{}); err != nil {
		return domain.Summary{}, err
	}
	if sum.Total == 0 {
		return sum, nil
	}
	if sum.Today, err = s.coll.CountDocuments(ctx, bson.M{"date": today}); err != nil {
		return domain.Summary{}, err
	}
	if sum.Past, err = s.coll.CountDocuments(ctx, bson.M{"date": bson.M{"$lt": today}}); err != nil {
		return domain.Summary{}, err
	}
	if sum.Upcoming, err = s.coll.CountDocuments(ctx, bson.M{"date": bson.M{"$gt": today}}); err != nil {
		return domain.Summary{}, err
	}
	return sum, nil
}

// Ping checks the connection behind the collection.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// classifyMongoDuplicate maps E11000 errors on the strict indexes to the
// shared sentinels.
func classifyMongoDuplicate(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, uxMobile):
		return ErrMobileTaken
	case strings.Contains(msg, uxSlot):
		return ErrSlotTaken
	}
	return err
}
