package internalhttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/corentintrosseille/doctolib-test/internal/storage"
	log "github.com/sirupsen/logrus"
)

const (
	errInvalidBody      = "invalid request body"
	errInvalidDate      = "invalid date"
	errInvalidDays      = "invalid days"
	errEventNotFound    = "event not found"
	errDuplicateEventID = "event with same ID exists"
	errInternalError    = "internal server error"
)

const dateLayout = "2006-01-02"

type dayAvailabilityResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Errors storage.ValidationErrors `json:"errors"`
}

func (s *Server) getAvailabilities(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var searchStart, searchEnd time.Time
	var err error
	if v := r.URL.Query().Get("start"); v != "" {
		if searchStart, err = parseInstant(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{errInvalidDate})
			return
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if searchEnd, err = parseInstant(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{errInvalidDate})
			return
		}
	}

	availabilities, err := s.app.Availabilities(r.Context(), searchStart, searchEnd)
	if err != nil {
		log.Errorf("failed to compute availabilities: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{errInternalError})
		return
	}

	response := make([]dayAvailabilityResponse, 0, len(availabilities))
	for _, availability := range availabilities {
		response = append(response, dayAvailabilityResponse{
			Date:  availability.Date.Format(dateLayout),
			Slots: availability.Slots,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) getRecurringOpenings(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var days []time.Weekday
	if v := r.URL.Query().Get("days"); v != "" {
		for _, field := range strings.Split(v, ",") {
			day, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil || day < 0 || day > 6 {
				writeJSON(w, http.StatusBadRequest, errorResponse{errInvalidDays})
				return
			}
			days = append(days, time.Weekday(day))
		}
	}

	groups, err := s.app.RecurringOpenings(r.Context(), days)
	if err != nil {
		log.Errorf("failed to group recurring openings: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{errInternalError})
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) postEvent(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var e storage.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{errInvalidBody})
		return
	}

	id, err := s.app.CreateEvent(r.Context(), e)
	if err != nil {
		writeEventError(w, err)
		return
	}
	created, err := s.app.GetEvent(r.Context(), id)
	if err != nil {
		log.Errorf("failed to load created event: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{errInternalError})
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) putEvent(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	var e storage.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{errInvalidBody})
		return
	}

	id := pathParams["id"]
	if err := s.app.UpdateEvent(r.Context(), id, e); err != nil {
		writeEventError(w, err)
		return
	}
	updated, err := s.app.GetEvent(r.Context(), id)
	if err != nil {
		log.Errorf("failed to load updated event: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{errInternalError})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	if err := s.app.RemoveEvent(r.Context(), pathParams["id"]); err != nil {
		writeEventError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	e, err := s.app.GetEvent(r.Context(), pathParams["id"])
	if err != nil {
		writeEventError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func writeEventError(w http.ResponseWriter, err error) {
	var validationErrs storage.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{validationErrs})
	case errors.Is(err, storage.ErrNotFoundEvent):
		writeJSON(w, http.StatusNotFound, errorResponse{errEventNotFound})
	case errors.Is(err, storage.ErrDuplicateEventID):
		writeJSON(w, http.StatusConflict, errorResponse{errDuplicateEventID})
	default:
		log.Errorf("failed to process event: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{errInternalError})
	}
}

// parseInstant accepts a full RFC3339 instant or a bare calendar date.
func parseInstant(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, value)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}
