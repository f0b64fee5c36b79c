// Package service implements the chat orchestration, plan extraction, and
// plan scoring pipelines.
package service

import (
	"context"
	"errors"

	"github.com/loopinhq/loopin-go/internal/models"
)

// Store is the persistence surface the pipelines need. *db.Client satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, input models.ProjectInput) (*models.Project, error)
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
	ListPublishedProjects(ctx context.Context, limit int) ([]models.Project, error)
	PublishProject(ctx context.Context, id string) (*models.Project, error)
	UpdatePlanData(ctx context.Context, id string, plan models.PlanData, title string) error
	UpdateScores(ctx context.Context, id string, scores models.AnalysisScores) error

	AppendMessage(ctx context.Context, projectID string, sender models.Sender, content string) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, projectID string, limit int) ([]models.ChatMessage, error)
}

// Precondition and parse failures surfaced to callers. Handlers map these to
// 4xx/5xx responses.
var (
	ErrEmptyTranscript = errors.New("project has no chat messages")
	ErrNoPlanData      = errors.New("project has no plan data")
	ErrExtractionParse = errors.New("model output did not contain a valid plan")
	ErrScoringParse    = errors.New("model output did not contain a valid analysis")
)
