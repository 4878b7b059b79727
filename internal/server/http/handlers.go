package internalhttp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eventdesk/eventdesk/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New()

type eventRequest struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description"`
	DateISO       string `json:"date_iso" validate:"required"`
	Location      string `json:"location" validate:"required"`
	CoverImageURL string `json:"cover_image_url"`
}

type rsvpRequest struct {
	Status   string `json:"status" validate:"required,oneof=going not_going"`
	UserID   string `json:"user_id" validate:"required"`
	UserName string `json:"user_name"`
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello from the eventdesk backend!"})
}

func (s *Server) hello(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello from the backend API!"})
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := s.app.CreateEvent(r.Context(), storage.Event{
		Title:         req.Title,
		Description:   req.Description,
		DateISO:       req.DateISO,
		Location:      req.Location,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.app.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if errors.Is(err, storage.ErrInvalidEventID) || errors.Is(err, storage.ErrEventNotFound) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) setRsvp(w http.ResponseWriter, r *http.Request) {
	var req rsvpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rsvp, err := s.app.SetRsvp(r.Context(), storage.Rsvp{
		EventID:  chi.URLParam(r, "eventID"),
		UserID:   req.UserID,
		Status:   req.Status,
		UserName: req.UserName,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvp)
}

func (s *Server) getMyRsvp(w http.ResponseWriter, r *http.Request) {
	rsvp, err := s.app.GetRsvp(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "userID"))
	if errors.Is(err, storage.ErrRsvpNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvp)
}

func (s *Server) getCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.app.GetRsvpCounts(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// decodeBody parses and validates a JSON request body. On failure it answers
// 400 and reports false; the handler must not touch storage in that case.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
