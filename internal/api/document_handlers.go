package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daydeskapp/daydesk-server/internal/http/response"
	"github.com/daydeskapp/daydesk-server/internal/service"
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	q := r.URL.Query()

	docs, err := s.documentService.ListDocuments(r.Context(), identity.UserID, service.DocumentListQuery{
		Tab:         q.Get("tab"),
		Type:        q.Get("type"),
		Category:    q.Get("category"),
		Search:      q.Get("search"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
		CallerEmail: identity.Email,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", docs, s.logger)
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.CreateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	doc, err := s.documentService.CreateDocument(r.Context(), identity.UserID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, "Document created successfully", doc, s.logger)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	doc, err := s.documentService.GetDocument(r.Context(), identity.UserID, identity.Email, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", doc, s.logger)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.UpdateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	doc, err := s.documentService.UpdateDocument(r.Context(), identity.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Document updated successfully", doc, s.logger)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	if err := s.documentService.DeleteDocument(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Document deleted successfully", nil, s.logger)
}

func (s *Server) handleToggleStar(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	doc, err := s.documentService.ToggleStar(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Document updated successfully", doc, s.logger)
}

func (s *Server) handleShareDocument(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.ShareDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	doc, err := s.documentService.ShareDocument(r.Context(), identity.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Document shared successfully", doc, s.logger)
}

func (s *Server) handleBulkDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.BulkDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.documentService.BulkDeleteDocuments(r.Context(), identity.UserID, req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Documents deleted successfully", nil, s.logger)
}

func (s *Server) handleStorageInsights(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	insights, err := s.documentService.StorageInsights(r.Context(), identity.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", insights, s.logger)
}
