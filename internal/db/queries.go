package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/loopinhq/loopin-go/internal/models"
)

// CreateProject creates a new draft project owned by the given user.
func (c *Client) CreateProject(ctx context.Context, input models.ProjectInput) (*models.Project, error) {
	defer c.recordTiming(time.Now())

	persona := input.AIPersonality
	if persona == "" {
		persona = models.PersonaLogical
	}

	// attributes is option<object>; omit the field entirely when absent
	attrClause := ""
	vars := map[string]any{
		"id":      uuid.NewString(),
		"user_id": input.UserID,
		"title":   input.Title,
		"persona": persona,
	}
	if input.Attributes != nil {
		attrClause = ", attributes: $attributes"
		vars["attributes"] = input.Attributes
	}

	sql := fmt.Sprintf(`
		CREATE type::record("project", $id) CONTENT {
			user_id: $user_id,
			title: $title,
			status: 'draft',
			ai_personality: $persona%s
		}
	`, attrClause)

	results, err := surrealdb.Query[[]models.Project](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create project: empty result")
	}
	return &(*results)[0].Result[0], nil
}

// GetProject retrieves a project by ID. Returns ErrNotFound if it does not exist.
func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	defer c.recordTiming(time.Now())

	results, err := surrealdb.Query[[]models.Project](ctx, c.db, `
		SELECT * FROM type::record("project", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, ErrNotFound
	}
	return &(*results)[0].Result[0], nil
}

// ListProjects returns all projects owned by a user, newest first.
func (c *Client) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	defer c.recordTiming(time.Now())

	results, err := surrealdb.Query[[]models.Project](ctx, c.db, `
		SELECT * FROM project WHERE user_id = $user_id ORDER BY created_at DESC
	`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.Project{}, nil
}

// ListPublishedProjects returns published projects for the shared timeline,
// newest first. A limit of 0 means no limit.
func (c *Client) ListPublishedProjects(ctx context.Context, limit int) ([]models.Project, error) {
	defer c.recordTiming(time.Now())

	limitClause := ""
	vars := map[string]any{}
	if limit > 0 {
		limitClause = "LIMIT $limit"
		vars["limit"] = limit
	}

	sql := fmt.Sprintf(`
		SELECT * FROM project WHERE status = 'published' ORDER BY updated_at DESC %s
	`, limitClause)

	results, err := surrealdb.Query[[]models.Project](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("list published projects: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.Project{}, nil
}

// UpdatePlanData replaces a project's plan wholesale and sets its title.
func (c *Client) UpdatePlanData(ctx context.Context, id string, plan models.PlanData, title string) error {
	defer c.recordTiming(time.Now())

	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("project", $id) SET
			plan_data = $plan,
			title = $title,
			updated_at = time::now()
	`, map[string]any{"id": id, "plan": plan, "title": title})
	if err != nil {
		return fmt.Errorf("update plan data: %w", err)
	}
	return nil
}

// UpdateScores replaces a project's analysis scores wholesale.
func (c *Client) UpdateScores(ctx context.Context, id string, scores models.AnalysisScores) error {
	defer c.recordTiming(time.Now())

	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("project", $id) SET
			analysis_scores = $scores,
			updated_at = time::now()
	`, map[string]any{"id": id, "scores": scores})
	if err != nil {
		return fmt.Errorf("update scores: %w", err)
	}
	return nil
}

// PublishProject moves a project from draft to the published timeline.
func (c *Client) PublishProject(ctx context.Context, id string) (*models.Project, error) {
	defer c.recordTiming(time.Now())

	results, err := surrealdb.Query[[]models.Project](ctx, c.db, `
		UPDATE type::record("project", $id) SET
			status = 'published',
			updated_at = time::now()
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("publish project: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, ErrNotFound
	}
	return &(*results)[0].Result[0], nil
}

// AppendMessage appends one immutable turn to a project's transcript.
func (c *Client) AppendMessage(ctx context.Context, projectID string, sender models.Sender, content string) (*models.ChatMessage, error) {
	defer c.recordTiming(time.Now())

	results, err := surrealdb.Query[[]models.ChatMessage](ctx, c.db, `
		CREATE type::record("chat_message", $id) CONTENT {
			project: type::record("project", $project_id),
			sender: $sender,
			content: $content
		}
	`, map[string]any{
		"id":         uuid.NewString(),
		"project_id": projectID,
		"sender":     sender,
		"content":    content,
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("append message: empty result")
	}
	return &(*results)[0].Result[0], nil
}

// ListMessages returns a project's transcript oldest-first. If limit > 0,
// only the most recent limit turns are returned, still in chronological order.
func (c *Client) ListMessages(ctx context.Context, projectID string, limit int) ([]models.ChatMessage, error) {
	defer c.recordTiming(time.Now())

	if limit <= 0 {
		results, err := surrealdb.Query[[]models.ChatMessage](ctx, c.db, `
			SELECT * FROM chat_message
			WHERE project = type::record("project", $project_id)
			ORDER BY created_at ASC
		`, map[string]any{"project_id": projectID})
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}
		if results != nil && len(*results) > 0 {
			return (*results)[0].Result, nil
		}
		return []models.ChatMessage{}, nil
	}

	// Most recent N: select newest-first, then reverse back to chronological
	results, err := surrealdb.Query[[]models.ChatMessage](ctx, c.db, `
		SELECT * FROM chat_message
		WHERE project = type::record("project", $project_id)
		ORDER BY created_at DESC
		LIMIT $limit
	`, map[string]any{"project_id": projectID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var recent []models.ChatMessage
	if results != nil && len(*results) > 0 {
		recent = (*results)[0].Result
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}
