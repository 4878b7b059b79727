package memorystorage_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/eventdesk/eventdesk/internal/storage"
	memorystorage "github.com/eventdesk/eventdesk/internal/storage/memory"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEvents(t *testing.T) {
	t.Run("add and get event", func(t *testing.T) {
		s := memorystorage.New()
		e := storage.Event{
			Title:         "launch party",
			Description:   "office rooftop",
			DateISO:       "2026-09-01T19:00:00Z",
			Location:      "HQ",
			CoverImageURL: "https://example.com/cover.png",
		}

		require.NoError(t, s.AddEvent(context.Background(), &e))
		require.NotEmpty(t, e.ID)

		got, err := s.GetEvent(context.Background(), e.ID)
		require.NoError(t, err)
		require.Equal(t, e, got)
	})

	t.Run("get event with invalid id", func(t *testing.T) {
		s := memorystorage.New()

		_, err := s.GetEvent(context.Background(), "not-a-hex-id")
		require.ErrorIs(t, err, storage.ErrInvalidEventID)
	})

	t.Run("get missing event", func(t *testing.T) {
		s := memorystorage.New()

		_, err := s.GetEvent(context.Background(), primitive.NewObjectID().Hex())
		require.ErrorIs(t, err, storage.ErrEventNotFound)
	})
}

func TestRsvps(t *testing.T) {
	t.Run("set creates rsvp", func(t *testing.T) {
		s := memorystorage.New()
		r := storage.Rsvp{EventID: "e1", UserID: "u1", Status: storage.StatusGoing, UserName: "Alice"}

		require.NoError(t, s.SetRsvp(context.Background(), &r))
		require.NotEmpty(t, r.ID)

		got, err := s.GetRsvp(context.Background(), "e1", "u1")
		require.NoError(t, err)
		require.Equal(t, r, got)
	})

	t.Run("set overwrites same pair in place", func(t *testing.T) {
		s := memorystorage.New()
		first := storage.Rsvp{EventID: "e1", UserID: "u1", Status: storage.StatusGoing, UserName: "Alice"}
		require.NoError(t, s.SetRsvp(context.Background(), &first))

		second := storage.Rsvp{EventID: "e1", UserID: "u1", Status: storage.StatusNotGoing, UserName: "Alice B."}
		require.NoError(t, s.SetRsvp(context.Background(), &second))
		require.Equal(t, first.ID, second.ID)

		got, err := s.GetRsvp(context.Background(), "e1", "u1")
		require.NoError(t, err)
		require.Equal(t, storage.StatusNotGoing, got.Status)
		require.Equal(t, "Alice B.", got.UserName)

		counts, err := s.CountRsvps(context.Background(), "e1")
		require.NoError(t, err)
		require.Equal(t, storage.Counts{Going: 0, NotGoing: 1}, counts)
	})

	t.Run("get missing rsvp", func(t *testing.T) {
		s := memorystorage.New()

		_, err := s.GetRsvp(context.Background(), "e1", "u1")
		require.ErrorIs(t, err, storage.ErrRsvpNotFound)
	})

	t.Run("counts by status and event", func(t *testing.T) {
		s := memorystorage.New()
		for i := 0; i < 3; i++ {
			r := storage.Rsvp{EventID: "e1", UserID: fmt.Sprintf("going-%d", i), Status: storage.StatusGoing}
			require.NoError(t, s.SetRsvp(context.Background(), &r))
		}
		for i := 0; i < 2; i++ {
			r := storage.Rsvp{EventID: "e1", UserID: fmt.Sprintf("not-going-%d", i), Status: storage.StatusNotGoing}
			require.NoError(t, s.SetRsvp(context.Background(), &r))
		}
		other := storage.Rsvp{EventID: "e2", UserID: "going-0", Status: storage.StatusGoing}
		require.NoError(t, s.SetRsvp(context.Background(), &other))

		counts, err := s.CountRsvps(context.Background(), "e1")
		require.NoError(t, err)
		require.Equal(t, storage.Counts{Going: 3, NotGoing: 2}, counts)
	})

	t.Run("concurrent sets keep one document per pair", func(t *testing.T) {
		s := memorystorage.New()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r := storage.Rsvp{EventID: "e1", UserID: "u1", Status: storage.StatusGoing}
				require.NoError(t, s.SetRsvp(context.Background(), &r))
			}()
		}
		wg.Wait()

		counts, err := s.CountRsvps(context.Background(), "e1")
		require.NoError(t, err)
		require.Equal(t, storage.Counts{Going: 1, NotGoing: 0}, counts)
	})
}
