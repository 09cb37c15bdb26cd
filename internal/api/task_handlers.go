package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daydeskapp/daydesk-server/internal/http/response"
	"github.com/daydeskapp/daydesk-server/internal/service"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	q := r.URL.Query()

	tasks, err := s.taskService.ListTasks(r.Context(), identity.UserID, service.TaskListQuery{
		Status:      q.Get("status"),
		Priority:    q.Get("priority"),
		Category:    q.Get("category"),
		ProjectID:   q.Get("projectId"),
		WorkspaceID: q.Get("workspaceId"),
		Search:      q.Get("search"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", tasks, s.logger)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	task, err := s.taskService.CreateTask(r.Context(), identity.UserID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, "Task created successfully", task, s.logger)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	task, err := s.taskService.GetTask(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", task, s.logger)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	task, err := s.taskService.UpdateTask(r.Context(), identity.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Task updated successfully", task, s.logger)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	if err := s.taskService.DeleteTask(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Task deleted successfully", nil, s.logger)
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	stats, err := s.taskService.TaskStats(r.Context(), identity.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", stats, s.logger)
}
