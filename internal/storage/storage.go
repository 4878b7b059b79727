package storage

import (
	"context"
	"errors"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrRsvpNotFound   = errors.New("rsvp not found")
	ErrInvalidEventID = errors.New("invalid event id")
)

// Counts holds the two RSVP tallies for one event. The values come from two
// independent reads and are not a consistent snapshot pair.
type Counts struct {
	Going    int64 `json:"going"`
	NotGoing int64 `json:"not_going"`
}

type Storage interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	AddEvent(ctx context.Context, e *Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	// SetRsvp upserts atomically by (EventID, UserID) and fills in the
	// resulting document id.
	SetRsvp(ctx context.Context, r *Rsvp) error
	GetRsvp(ctx context.Context, eventID string, userID string) (Rsvp, error)
	CountRsvps(ctx context.Context, eventID string) (Counts, error)
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
}
