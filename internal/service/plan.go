package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/loopinhq/loopin-go/internal/llm"
	"github.com/loopinhq/loopin-go/internal/models"
	"github.com/loopinhq/loopin-go/internal/prompt"
)

const (
	extractTemperature = 0.3
	extractMaxTokens   = 1500

	// fallbackTitle is used when the conversation never named the service.
	fallbackTitle = "新しいプロジェクト"
)

// PlanService derives a structured business plan from a chat transcript.
type PlanService struct {
	store  Store
	model  *llm.Model
	logger *slog.Logger
}

// NewPlanService creates a new plan extraction service.
func NewPlanService(store Store, model *llm.Model, logger *slog.Logger) *PlanService {
	return &PlanService{store: store, model: model, logger: logger}
}

// Extract runs the autofill pipeline: render the full transcript, ask the
// model for the seven plan fields as strict JSON, and persist the result.
// The new plan replaces any previous one wholesale; there is no field merge.
func (s *PlanService) Extract(ctx context.Context, projectID string) (*models.PlanData, error) {
	messages, err := s.store.ListMessages(ctx, projectID, 0)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("extract plan for %s: %w", projectID, ErrEmptyTranscript)
	}

	transcript := prompt.RenderTranscript(messages)

	request := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt.BuildAutofillPrompt(transcript)),
	}

	response, err := s.model.Complete(ctx, request, extractTemperature, extractMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("extract plan: %w", err)
	}

	raw, ok := llm.ExtractJSONObject(response)
	if !ok {
		s.logger.Error("no JSON object in extraction response", "project_id", projectID, "raw", response)
		return nil, fmt.Errorf("extract plan: %w", ErrExtractionParse)
	}

	// Missing keys coerce to empty string via the zero value
	var plan models.PlanData
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		s.logger.Error("failed to parse extraction response", "project_id", projectID, "raw", response, "error", err)
		return nil, fmt.Errorf("extract plan: %w", ErrExtractionParse)
	}

	title := plan.ServiceName
	if title == "" {
		title = fallbackTitle
	}

	if err := s.store.UpdatePlanData(ctx, projectID, plan, title); err != nil {
		return nil, err
	}

	s.logger.Info("plan extracted", "project_id", projectID, "title", title, "turns", len(messages))
	return &plan, nil
}
