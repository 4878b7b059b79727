package app

import (
	"context"
	"encoding/json"

	"github.com/eventdesk/eventdesk/internal/rabbit"
	"github.com/eventdesk/eventdesk/internal/storage"
	log "github.com/sirupsen/logrus"
)

// Notifier publishes RSVP change messages. Publishing is best effort, a
// failed publish never fails the request that triggered it.
type Notifier interface {
	Publish(body []byte) error
}

type App struct {
	Storage  storage.Storage
	notifier Notifier
}

// New builds the application. notifier may be nil to disable notifications.
func New(stor storage.Storage, notifier Notifier) *App {
	return &App{Storage: stor, notifier: notifier}
}

func (a *App) CreateEvent(ctx context.Context, e storage.Event) (string, error) {
	if err := a.Storage.AddEvent(ctx, &e); err != nil {
		return "", err
	}
	return e.ID, nil
}

func (a *App) GetEvent(ctx context.Context, id string) (storage.Event, error) {
	return a.Storage.GetEvent(ctx, id)
}

func (a *App) SetRsvp(ctx context.Context, r storage.Rsvp) (storage.Rsvp, error) {
	if err := a.Storage.SetRsvp(ctx, &r); err != nil {
		return storage.Rsvp{}, err
	}
	a.notifyRsvp(r)
	return r, nil
}

func (a *App) GetRsvp(ctx context.Context, eventID string, userID string) (storage.Rsvp, error) {
	return a.Storage.GetRsvp(ctx, eventID, userID)
}

func (a *App) GetRsvpCounts(ctx context.Context, eventID string) (storage.Counts, error) {
	return a.Storage.CountRsvps(ctx, eventID)
}

func (a *App) notifyRsvp(r storage.Rsvp) {
	if a.notifier == nil {
		return
	}
	body, err := json.Marshal(rabbit.Message{
		EventID:  r.EventID,
		UserID:   r.UserID,
		Status:   r.Status,
		UserName: r.UserName,
	})
	if err != nil {
		log.Errorf("failed to marshal rsvp notification: %v", err)
		return
	}
	if err := a.notifier.Publish(body); err != nil {
		log.Warnf("failed to publish rsvp notification: %v", err)
	}
}
