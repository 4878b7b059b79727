package sqlstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eventdesk/eventdesk/internal/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

var ErrConnectionFailed = errors.New("failed to connect")

const dbErrUniqueViolation = "23505"

type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type Storage struct {
	host     string
	port     int
	database string
	username string
	password string
	db       *sqlx.DB
}

func New(config Config) *Storage {
	return &Storage{
		host:     config.Host,
		port:     config.Port,
		database: config.Database,
		username: config.Username,
		password: config.Password,
	}
}

func (s *Storage) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(
		ctx,
		"postgres",
		fmt.Sprintf(
			"sslmode=disable host=%s port=%d dbname=%s user=%s password=%s",
			s.host, s.port, s.database, s.username, s.password),
	)
	if err != nil {
		log.Errorf("failed to connect: %v", err)
		return ErrConnectionFailed
	}
	s.db = db
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Storage) AddEvent(ctx context.Context, e *storage.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(
		ctx,
		"INSERT INTO events(id, title, description, date_iso, location, cover_image_url) "+
			"VALUES($1, $2, $3, $4, $5, $6)",
		e.ID, e.Title, e.Description, e.DateISO, e.Location, e.CoverImageURL)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == dbErrUniqueViolation {
		return fmt.Errorf("duplicate event ID %q: %w", e.ID, err)
	}
	return err
}

func (s *Storage) GetEvent(ctx context.Context, id string) (storage.Event, error) {
	var e storage.Event
	err := s.db.GetContext(
		ctx,
		&e,
		"SELECT id, title, description, date_iso, location, cover_image_url FROM events WHERE id=$1",
		id)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Event{}, fmt.Errorf("id %q: %w", id, storage.ErrEventNotFound)
	}
	return e, err
}

// SetRsvp relies on the unique index over (event_id, user_id); ON CONFLICT
// makes the upsert a single atomic statement.
func (s *Storage) SetRsvp(ctx context.Context, r *storage.Rsvp) error {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	err := s.db.GetContext(
		ctx,
		&r.ID,
		"INSERT INTO rsvps(id, event_id, user_id, status, user_name) VALUES($1, $2, $3, $4, $5) "+
			"ON CONFLICT (event_id, user_id) DO UPDATE SET status=EXCLUDED.status, user_name=EXCLUDED.user_name "+
			"RETURNING id",
		id, r.EventID, r.UserID, r.Status, r.UserName)
	if err != nil {
		return fmt.Errorf("failed to upsert rsvp: %w", err)
	}
	return nil
}

func (s *Storage) GetRsvp(ctx context.Context, eventID string, userID string) (storage.Rsvp, error) {
	var r storage.Rsvp
	err := s.db.GetContext(
		ctx,
		&r,
		"SELECT id, event_id, user_id, status, user_name FROM rsvps WHERE event_id=$1 AND user_id=$2",
		eventID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Rsvp{}, fmt.Errorf("event %q user %q: %w", eventID, userID, storage.ErrRsvpNotFound)
	}
	return r, err
}

func (s *Storage) CountRsvps(ctx context.Context, eventID string) (storage.Counts, error) {
	counts := storage.Counts{}
	err := s.db.GetContext(
		ctx,
		&counts.Going,
		"SELECT COUNT(*) FROM rsvps WHERE event_id=$1 AND status=$2",
		eventID, storage.StatusGoing)
	if err != nil {
		return storage.Counts{}, fmt.Errorf("failed to count rsvps: %w", err)
	}
	err = s.db.GetContext(
		ctx,
		&counts.NotGoing,
		"SELECT COUNT(*) FROM rsvps WHERE event_id=$1 AND status=$2",
		eventID, storage.StatusNotGoing)
	if err != nil {
		return storage.Counts{}, fmt.Errorf("failed to count rsvps: %w", err)
	}
	return counts, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Collections(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.SelectContext(
		ctx,
		&names,
		"SELECT table_name FROM information_schema.tables WHERE table_schema='public' ORDER BY table_name")
	return names, err
}
