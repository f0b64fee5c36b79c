package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/tmc/langchaingo/llms"

	"github.com/loopinhq/loopin-go/internal/llm"
	"github.com/loopinhq/loopin-go/internal/models"
	"github.com/loopinhq/loopin-go/internal/prompt"
)

const (
	scoreTemperature = 0.3
	scoreMaxTokens   = 1000

	// defaultScore stands in for any dimension the model left out.
	defaultScore = 50
)

// AnalysisResult is the scoring output: the six persisted dimensions plus
// narrative commentary. The narratives are returned to the caller only and
// are not persisted.
type AnalysisResult struct {
	Scores          models.AnalysisScores `json:"scores"`
	Summary         string                `json:"summary"`
	Strengths       []string              `json:"strengths"`
	Weaknesses      []string              `json:"weaknesses"`
	Recommendations []string              `json:"recommendations"`
}

// ScoreService evaluates a persisted plan along six dimensions.
type ScoreService struct {
	store  Store
	model  *llm.Model
	logger *slog.Logger
}

// NewScoreService creates a new scoring service.
func NewScoreService(store Store, model *llm.Model, logger *slog.Logger) *ScoreService {
	return &ScoreService{store: store, model: model, logger: logger}
}

// Analyze scores a project's plan. Requires a previously extracted plan; the
// model is never called without one. Scores are clamped to [0,100] and
// persisted wholesale, replacing any prior scores.
func (s *ScoreService) Analyze(ctx context.Context, projectID string) (*AnalysisResult, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.PlanData == nil {
		return nil, fmt.Errorf("analyze %s: %w", projectID, ErrNoPlanData)
	}

	request := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompt.AnalysisSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt.BuildAnalysisContext(*project.PlanData, project.Attributes)),
	}

	response, err := s.model.Complete(ctx, request, scoreTemperature, scoreMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	raw, ok := llm.ExtractJSONObject(response)
	if !ok {
		s.logger.Error("no JSON object in analysis response", "project_id", projectID, "raw", response)
		return nil, fmt.Errorf("analyze: %w", ErrScoringParse)
	}

	// The model's output is untrusted; pointer fields distinguish a missing
	// dimension from a zero score
	var parsed struct {
		Feasibility     *float64 `json:"feasibility"`
		MarketSize      *float64 `json:"marketSize"`
		Innovation      *float64 `json:"innovation"`
		Profitability   *float64 `json:"profitability"`
		Scalability     *float64 `json:"scalability"`
		TeamFit         *float64 `json:"teamFit"`
		Summary         string   `json:"summary"`
		Strengths       []string `json:"strengths"`
		Weaknesses      []string `json:"weaknesses"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.logger.Error("failed to parse analysis response", "project_id", projectID, "raw", response, "error", err)
		return nil, fmt.Errorf("analyze: %w", ErrScoringParse)
	}

	scores := models.AnalysisScores{
		Feasibility:   scoreOrDefault(parsed.Feasibility),
		MarketSize:    scoreOrDefault(parsed.MarketSize),
		Innovation:    scoreOrDefault(parsed.Innovation),
		Profitability: scoreOrDefault(parsed.Profitability),
		Scalability:   scoreOrDefault(parsed.Scalability),
		TeamFit:       scoreOrDefault(parsed.TeamFit),
	}

	if err := s.store.UpdateScores(ctx, projectID, scores); err != nil {
		return nil, err
	}

	s.logger.Info("plan analyzed", "project_id", projectID, "feasibility", scores.Feasibility, "market_size", scores.MarketSize)

	return &AnalysisResult{
		Scores:          scores,
		Summary:         parsed.Summary,
		Strengths:       parsed.Strengths,
		Weaknesses:      parsed.Weaknesses,
		Recommendations: parsed.Recommendations,
	}, nil
}

// scoreOrDefault substitutes 50 for a missing dimension and clamps the rest
// to [0,100].
func scoreOrDefault(v *float64) int {
	if v == nil {
		return defaultScore
	}
	n := int(math.Round(*v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
