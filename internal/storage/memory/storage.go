package memorystorage

import (
	"context"
	"fmt"
	"sync"

	"github.com/eventdesk/eventdesk/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type rsvpKey struct {
	eventID string
	userID  string
}

// Storage keeps both collections in process memory. Ids use the same hex
// format as the mongo backend so id parsing behaves identically.
type Storage struct {
	mu     sync.RWMutex
	events map[string]storage.Event
	rsvps  map[rsvpKey]storage.Rsvp
}

func New() *Storage {
	return &Storage{
		events: make(map[string]storage.Event),
		rsvps:  make(map[rsvpKey]storage.Rsvp),
	}
}

func (s *Storage) Connect(_ context.Context) error {
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	return nil
}

func (s *Storage) AddEvent(_ context.Context, e *storage.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = primitive.NewObjectID().Hex()
	}
	s.events[e.ID] = *e
	return nil
}

func (s *Storage) GetEvent(_ context.Context, id string) (storage.Event, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return storage.Event{}, fmt.Errorf("%q: %w", id, storage.ErrInvalidEventID)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return storage.Event{}, fmt.Errorf("id %q: %w", id, storage.ErrEventNotFound)
	}
	return e, nil
}

// SetRsvp holds the lock across lookup and write, so concurrent submissions
// for the same pair cannot create two documents.
func (s *Storage) SetRsvp(_ context.Context, r *storage.Rsvp) error {
	key := rsvpKey{eventID: r.EventID, userID: r.UserID}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.rsvps[key]; ok {
		r.ID = existing.ID
	} else {
		r.ID = primitive.NewObjectID().Hex()
	}
	s.rsvps[key] = *r
	return nil
}

func (s *Storage) GetRsvp(_ context.Context, eventID string, userID string) (storage.Rsvp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rsvps[rsvpKey{eventID: eventID, userID: userID}]
	if !ok {
		return storage.Rsvp{}, fmt.Errorf("event %q user %q: %w", eventID, userID, storage.ErrRsvpNotFound)
	}
	return r, nil
}

func (s *Storage) CountRsvps(_ context.Context, eventID string) (storage.Counts, error) {
	counts := storage.Counts{}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rsvps {
		if r.EventID != eventID {
			continue
		}
		switch r.Status {
		case storage.StatusGoing:
			counts.Going++
		case storage.StatusNotGoing:
			counts.NotGoing++
		}
	}
	return counts, nil
}

func (s *Storage) Ping(_ context.Context) error {
	return nil
}

func (s *Storage) Collections(_ context.Context) ([]string, error) {
	return []string{storage.CollectionEvents, storage.CollectionRsvps}, nil
}
