package internalhttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventdesk/eventdesk/internal/app"
	internalhttp "github.com/eventdesk/eventdesk/internal/server/http"
	"github.com/eventdesk/eventdesk/internal/storage"
	memorystorage "github.com/eventdesk/eventdesk/internal/storage/memory"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestServer(t *testing.T) (*httptest.Server, *memorystorage.Storage) {
	t.Helper()
	stor := memorystorage.New()
	server := internalhttp.NewServer(internalhttp.Config{}, app.New(stor, nil))
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts, stor
}

func doJSON(t *testing.T, method string, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	decoded := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func createEvent(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/events", map[string]string{
		"title":    "team offsite",
		"date_iso": "2026-10-05T10:00:00Z",
		"location": "mountain lodge",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestBannerEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/", "/api/hello"} {
		resp, body := doJSON(t, http.MethodGet, ts.URL+path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotEmpty(t, body["message"])
	}
}

func TestCreateAndGetEvent(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/events", map[string]string{
		"title":           "team offsite",
		"description":     "two days",
		"date_iso":        "2026-10-05T10:00:00Z",
		"location":        "mountain lodge",
		"cover_image_url": "https://example.com/lodge.png",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/events/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, id, body["id"])
	require.Equal(t, "team offsite", body["title"])
	require.Equal(t, "two days", body["description"])
	require.Equal(t, "2026-10-05T10:00:00Z", body["date_iso"])
	require.Equal(t, "mountain lodge", body["location"])
	require.Equal(t, "https://example.com/lodge.png", body["cover_image_url"])
}

func TestCreateEventRejectsMissingFields(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/events", map[string]string{
		"title": "no date, no location",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotEmpty(t, body["detail"])
}

func TestGetEventErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	t.Run("invalid id", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/events/not-a-valid-id", nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotEmpty(t, body["detail"])
	})

	t.Run("missing event", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/events/"+primitive.NewObjectID().Hex(), nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotEmpty(t, body["detail"])
	})
}

func TestSetRsvpUpsertsInPlace(t *testing.T) {
	ts, _ := newTestServer(t)
	eventID := createEvent(t, ts)

	resp, first := doJSON(t, http.MethodPost, ts.URL+"/api/events/"+eventID+"/rsvp", map[string]string{
		"status":    "going",
		"user_id":   "u1",
		"user_name": "Alice",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, first["id"])
	require.Equal(t, eventID, first["event_id"])
	require.Equal(t, "going", first["status"])

	resp, second := doJSON(t, http.MethodPost, ts.URL+"/api/events/"+eventID+"/rsvp", map[string]string{
		"status":  "not_going",
		"user_id": "u1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, first["id"], second["id"])
	require.Equal(t, "not_going", second["status"])

	resp, counts := doJSON(t, http.MethodGet, ts.URL+"/api/events/"+eventID+"/counts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(0), counts["going"])
	require.Equal(t, float64(1), counts["not_going"])
}

func TestRsvpValidation(t *testing.T) {
	ts, stor := newTestServer(t)
	eventID := createEvent(t, ts)

	cases := []map[string]string{
		{"status": "maybe", "user_id": "u1"},
		{"status": "", "user_id": "u1"},
		{"status": "going"},
	}
	for i, body := range cases {
		t.Run(fmt.Sprintf("case %d", i), func(t *testing.T) {
			resp, payload := doJSON(t, http.MethodPost, ts.URL+"/api/events/"+eventID+"/rsvp", body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.NotEmpty(t, payload["detail"])
		})
	}

	// rejected requests must never reach storage
	counts, err := stor.CountRsvps(context.Background(), eventID)
	require.NoError(t, err)
	require.Equal(t, storage.Counts{}, counts)
}

func TestGetMyRsvp(t *testing.T) {
	ts, _ := newTestServer(t)
	eventID := createEvent(t, ts)

	t.Run("not found", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/events/"+eventID+"/rsvp/u1", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.NotEmpty(t, body["detail"])
	})

	t.Run("found after submit", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/events/"+eventID+"/rsvp", map[string]string{
			"status":    "going",
			"user_id":   "u1",
			"user_name": "Alice",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/events/"+eventID+"/rsvp/u1", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, eventID, body["event_id"])
		require.Equal(t, "u1", body["user_id"])
		require.Equal(t, "going", body["status"])
		require.Equal(t, "Alice", body["user_name"])
	})
}

func TestCounts(t *testing.T) {
	ts, _ := newTestServer(t)
	eventID := createEvent(t, ts)

	for i := 0; i < 3; i++ {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/events/"+eventID+"/rsvp", map[string]string{
			"status":  "going",
			"user_id": fmt.Sprintf("going-%d", i),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/events/"+eventID+"/rsvp", map[string]string{
			"status":  "not_going",
			"user_id": fmt.Sprintf("not-going-%d", i),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, counts := doJSON(t, http.MethodGet, ts.URL+"/api/events/"+eventID+"/counts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(3), counts["going"])
	require.Equal(t, float64(2), counts["not_going"])
}

func TestDiagnostics(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/test", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "✅ Running", body["backend"])
	require.Equal(t, "✅ Connected & Working", body["database"])
	require.Equal(t, "Connected", body["connection_status"])
	require.ElementsMatch(t, []interface{}{"event", "rsvp"}, body["collections"])
}
