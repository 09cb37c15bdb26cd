package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daydeskapp/daydesk-server/internal/http/response"
	"github.com/daydeskapp/daydesk-server/internal/service"
)

// parseDateParam accepts either a full RFC 3339 timestamp or a bare
// date like 2026-03-02. The zero time signals an absent parameter.
func parseDateParam(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	q := r.URL.Query()

	start, ok := parseDateParam(q.Get("start"))
	if !ok {
		response.BadRequest(w, "Invalid start date", s.logger)
		return
	}
	end, ok := parseDateParam(q.Get("end"))
	if !ok {
		response.BadRequest(w, "Invalid end date", s.logger)
		return
	}

	events, err := s.calendarService.ListEvents(r.Context(), identity.UserID, service.EventRange{
		Start: start,
		End:   end,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", events, s.logger)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	event, err := s.calendarService.CreateEvent(r.Context(), identity.UserID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, "Event created successfully", event, s.logger)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	event, err := s.calendarService.GetEvent(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", event, s.logger)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.UpdateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	event, err := s.calendarService.UpdateEvent(r.Context(), identity.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Event updated successfully", event, s.logger)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	if err := s.calendarService.DeleteEvent(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Event deleted successfully", nil, s.logger)
}

func (s *Server) handleSuggestSlots(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.SuggestSlotsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	slots, err := s.calendarService.SuggestSlots(r.Context(), identity.UserID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", slots, s.logger)
}

// handleSuggestSlotsQuery serves the same computation from query
// parameters (startDate, endDate, duration) for clients that fetch
// rather than post.
func (s *Server) handleSuggestSlotsQuery(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	q := r.URL.Query()

	start, ok := parseDateParam(q.Get("startDate"))
	if !ok {
		response.BadRequest(w, "Invalid start date", s.logger)
		return
	}
	end, ok := parseDateParam(q.Get("endDate"))
	if !ok {
		response.BadRequest(w, "Invalid end date", s.logger)
		return
	}

	req := service.SuggestSlotsRequest{StartDate: start, EndDate: end}
	if raw := q.Get("duration"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid duration", s.logger)
			return
		}
		req.DurationMinutes = n
	}

	slots, err := s.calendarService.SuggestSlots(r.Context(), identity.UserID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", slots, s.logger)
}
