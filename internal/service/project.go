package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loopinhq/loopin-go/internal/models"
)

// defaultTimelineLimit bounds the shared feed when the caller gives no limit.
const defaultTimelineLimit = 50

// ProjectService handles project lifecycle operations.
type ProjectService struct {
	store  Store
	logger *slog.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(store Store, logger *slog.Logger) *ProjectService {
	return &ProjectService{store: store, logger: logger}
}

// Create creates a draft project for a user.
func (s *ProjectService) Create(ctx context.Context, input models.ProjectInput) (*models.Project, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("user id required")
	}
	if input.AIPersonality != "" && !input.AIPersonality.Valid() {
		return nil, fmt.Errorf("unknown persona: %s", input.AIPersonality)
	}
	if input.Title == "" {
		input.Title = fallbackTitle
	}

	project, err := s.store.CreateProject(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created", "project_id", models.MustRecordIDString(project.ID), "user_id", input.UserID)
	return project, nil
}

// Get retrieves one project.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.store.GetProject(ctx, id)
}

// List returns a user's own projects, newest first.
func (s *ProjectService) List(ctx context.Context, userID string) ([]models.Project, error) {
	return s.store.ListProjects(ctx, userID)
}

// Publish moves a project to the shared timeline.
func (s *ProjectService) Publish(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.store.PublishProject(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("project published", "project_id", id, "title", project.Title)
	return project, nil
}

// Timeline returns recently published projects for the shared feed.
func (s *ProjectService) Timeline(ctx context.Context, limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = defaultTimelineLimit
	}
	return s.store.ListPublishedProjects(ctx, limit)
}

// Transcript returns a project's full conversation, oldest first.
func (s *ProjectService) Transcript(ctx context.Context, projectID string) ([]models.ChatMessage, error) {
	return s.store.ListMessages(ctx, projectID, 0)
}
