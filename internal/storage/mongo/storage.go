package mongostorage

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventdesk/eventdesk/internal/storage"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrConnectionFailed = errors.New("failed to connect")

type Config struct {
	URI      string
	Database string
}

type Storage struct {
	uri      string
	database string
	client   *mongo.Client
	db       *mongo.Database
}

type eventDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	DateISO       string             `bson:"date_iso"`
	Location      string             `bson:"location"`
	CoverImageURL string             `bson:"cover_image_url"`
}

type rsvpDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	EventID  string             `bson:"event_id"`
	UserID   string             `bson:"user_id"`
	Status   string             `bson:"status"`
	UserName string             `bson:"user_name"`
}

func New(config Config) *Storage {
	return &Storage{uri: config.URI, database: config.Database}
}

func (s *Storage) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		log.Errorf("failed to connect: %v", err)
		return ErrConnectionFailed
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Errorf("failed to ping: %v", err)
		return ErrConnectionFailed
	}
	s.client = client
	s.db = client.Database(s.database)
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Storage) AddEvent(ctx context.Context, e *storage.Event) error {
	res, err := s.db.Collection(storage.CollectionEvents).InsertOne(ctx, eventDoc{
		Title:         e.Title,
		Description:   e.Description,
		DateISO:       e.DateISO,
		Location:      e.Location,
		CoverImageURL: e.CoverImageURL,
	})
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	e.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (storage.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.Event{}, fmt.Errorf("%q: %w", id, storage.ErrInvalidEventID)
	}

	var doc eventDoc
	err = s.db.Collection(storage.CollectionEvents).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.Event{}, fmt.Errorf("id %q: %w", id, storage.ErrEventNotFound)
	}
	if err != nil {
		return storage.Event{}, fmt.Errorf("failed to get event: %w", err)
	}
	return storage.Event{
		ID:            doc.ID.Hex(),
		Title:         doc.Title,
		Description:   doc.Description,
		DateISO:       doc.DateISO,
		Location:      doc.Location,
		CoverImageURL: doc.CoverImageURL,
	}, nil
}

// SetRsvp upserts in a single FindOneAndUpdate round-trip. A separate
// find-then-insert would let two concurrent submissions for the same pair
// both miss and create two documents.
func (s *Storage) SetRsvp(ctx context.Context, r *storage.Rsvp) error {
	filter := bson.M{"event_id": r.EventID, "user_id": r.UserID}
	update := bson.M{"$set": bson.M{
		"event_id":  r.EventID,
		"user_id":   r.UserID,
		"status":    r.Status,
		"user_name": r.UserName,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc rsvpDoc
	err := s.db.Collection(storage.CollectionRsvps).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		return fmt.Errorf("failed to upsert rsvp: %w", err)
	}
	r.ID = doc.ID.Hex()
	return nil
}

func (s *Storage) GetRsvp(ctx context.Context, eventID string, userID string) (storage.Rsvp, error) {
	var doc rsvpDoc
	filter := bson.M{"event_id": eventID, "user_id": userID}
	err := s.db.Collection(storage.CollectionRsvps).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.Rsvp{}, fmt.Errorf("event %q user %q: %w", eventID, userID, storage.ErrRsvpNotFound)
	}
	if err != nil {
		return storage.Rsvp{}, fmt.Errorf("failed to get rsvp: %w", err)
	}
	return storage.Rsvp{
		ID:       doc.ID.Hex(),
		EventID:  doc.EventID,
		UserID:   doc.UserID,
		Status:   doc.Status,
		UserName: doc.UserName,
	}, nil
}

func (s *Storage) CountRsvps(ctx context.Context, eventID string) (storage.Counts, error) {
	coll := s.db.Collection(storage.CollectionRsvps)
	going, err := coll.CountDocuments(ctx, bson.M{"event_id": eventID, "status": storage.StatusGoing})
	if err != nil {
		return storage.Counts{}, fmt.Errorf("failed to count rsvps: %w", err)
	}
	notGoing, err := coll.CountDocuments(ctx, bson.M{"event_id": eventID, "status": storage.StatusNotGoing})
	if err != nil {
		return storage.Counts{}, fmt.Errorf("failed to count rsvps: %w", err)
	}
	return storage.Counts{Going: going, NotGoing: notGoing}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Storage) Collections(ctx context.Context) ([]string, error) {
	return s.db.ListCollectionNames(ctx, bson.D{})
}

// Drop removes the whole database. Used by integration tests only.
func (s *Storage) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}
