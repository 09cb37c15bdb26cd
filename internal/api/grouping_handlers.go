package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daydeskapp/daydesk-server/internal/http/response"
	"github.com/daydeskapp/daydesk-server/internal/service"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	projects, err := s.groupingService.ListProjects(r.Context(), identity.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", projects, s.logger)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.CreateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	project, err := s.groupingService.CreateProject(r.Context(), identity.UserID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, "Project created successfully", project, s.logger)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	if err := s.groupingService.DeleteProject(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Project deleted successfully", nil, s.logger)
}

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	workspaces, err := s.groupingService.ListWorkspaces(r.Context(), identity.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", workspaces, s.logger)
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.CreateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	workspace, err := s.groupingService.CreateWorkspace(r.Context(), identity.UserID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, "Workspace created successfully", workspace, s.logger)
}

func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	if err := s.groupingService.DeleteWorkspace(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Workspace deleted successfully", nil, s.logger)
}
