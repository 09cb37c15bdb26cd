package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
	"github.com/daydeskapp/daydesk-server/internal/id"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

// GroupingService manages projects and workspaces. Both are plain
// grouping labels; deleting one leaves the tasks that referenced it
// untouched.
type GroupingService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewGroupingService creates a new grouping service.
func NewGroupingService(store *store.Store, logger *slog.Logger) *GroupingService {
	return &GroupingService{
		store:  store,
		logger: logger,
	}
}

// CreateGroupRequest contains a new project or workspace name.
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ListProjects returns the owner's projects, newest first.
func (s *GroupingService) ListProjects(ctx context.Context, ownerID string) ([]*domain.Project, error) {
	projects := make([]*domain.Project, 0)
	for project, err := range s.store.Projects.ListScoped(ctx, "owner", ownerID) {
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		projects = append(projects, project)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

// CreateProject creates a project for the owner.
func (s *GroupingService) CreateProject(ctx context.Context, ownerID string, req CreateGroupRequest) (*domain.Project, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	projectID, err := id.Generate("proj")
	if err != nil {
		return nil, fmt.Errorf("generate project ID: %w", err)
	}

	project := &domain.Project{
		Record: domain.Record{
			ID: projectID,
		},
		Name:    req.Name,
		OwnerID: ownerID,
	}
	project.InitTimestamps()

	if err := s.store.Projects.Create(ctx, project.ID, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info("Project created", "project_id", project.ID, "owner_id", ownerID)
	return project, nil
}

// DeleteProject removes one of the owner's projects.
func (s *GroupingService) DeleteProject(ctx context.Context, ownerID, projectID string) error {
	project, err := s.store.Projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("project not found")
		}
		return fmt.Errorf("get project: %w", err)
	}
	if project.OwnerID != ownerID {
		return domainerrors.Forbidden("you do not have access to this project")
	}
	if err := s.store.Projects.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.logger.Info("Project deleted", "project_id", projectID, "owner_id", ownerID)
	return nil
}

// ListWorkspaces returns the owner's workspaces, newest first.
func (s *GroupingService) ListWorkspaces(ctx context.Context, ownerID string) ([]*domain.Workspace, error) {
	workspaces := make([]*domain.Workspace, 0)
	for workspace, err := range s.store.Workspaces.ListScoped(ctx, "owner", ownerID) {
		if err != nil {
			return nil, fmt.Errorf("list workspaces: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}
	sort.SliceStable(workspaces, func(i, j int) bool {
		return workspaces[i].CreatedAt.After(workspaces[j].CreatedAt)
	})
	return workspaces, nil
}

// CreateWorkspace creates a workspace for the owner.
func (s *GroupingService) CreateWorkspace(ctx context.Context, ownerID string, req CreateGroupRequest) (*domain.Workspace, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	workspaceID, err := id.Generate("ws")
	if err != nil {
		return nil, fmt.Errorf("generate workspace ID: %w", err)
	}

	workspace := &domain.Workspace{
		Record: domain.Record{
			ID: workspaceID,
		},
		Name:    req.Name,
		OwnerID: ownerID,
	}
	workspace.InitTimestamps()

	if err := s.store.Workspaces.Create(ctx, workspace.ID, workspace); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	s.logger.Info("Workspace created", "workspace_id", workspace.ID, "owner_id", ownerID)
	return workspace, nil
}

// DeleteWorkspace removes one of the owner's workspaces.
func (s *GroupingService) DeleteWorkspace(ctx context.Context, ownerID, workspaceID string) error {
	workspace, err := s.store.Workspaces.Get(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("workspace not found")
		}
		return fmt.Errorf("get workspace: %w", err)
	}
	if workspace.OwnerID != ownerID {
		return domainerrors.Forbidden("you do not have access to this workspace")
	}
	if err := s.store.Workspaces.Delete(ctx, workspaceID); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	s.logger.Info("Workspace deleted", "workspace_id", workspaceID, "owner_id", ownerID)
	return nil
}
