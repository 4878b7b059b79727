package storage

const CollectionRsvps = "rsvp"

const (
	StatusGoing    = "going"
	StatusNotGoing = "not_going"
)

// Rsvp is a user's response to an event. At most one document exists per
// (EventID, UserID) pair. EventID is not checked against the event collection,
// an RSVP may reference an event that no longer exists.
type Rsvp struct {
	ID       string `json:"id" db:"id"`
	EventID  string `json:"event_id" db:"event_id"`
	UserID   string `json:"user_id" db:"user_id"`
	Status   string `json:"status" db:"status"`
	UserName string `json:"user_name" db:"user_name"`
}
