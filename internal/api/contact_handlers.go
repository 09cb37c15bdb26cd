package api

import (
	"net/http"

	"github.com/daydeskapp/daydesk-server/internal/http/response"
	"github.com/daydeskapp/daydesk-server/internal/service"
)

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req service.ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	msg, err := s.contactService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, "Thank you for contacting us! We will get back to you soon.", map[string]string{
		"id": msg.ID,
	}, s.logger)
}
