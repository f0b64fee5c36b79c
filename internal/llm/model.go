// Package llm wraps langchaingo models and the Whisper transcription API.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/loopinhq/loopin-go/internal/config"
	"github.com/loopinhq/loopin-go/internal/metrics"
)

// Model wraps a langchaingo LLM for chat completion and text generation.
type Model struct {
	llm       llms.Model
	modelName string
	metrics   *metrics.Collector
}

// NewModel creates an LLM model based on configuration.
func NewModel(cfg config.Config, mc *metrics.Collector) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
		metrics:   mc,
	}, nil
}

// NewModelFromLLM wraps an existing llms.Model (used by tests with stubs).
func NewModelFromLLM(model llms.Model, name string) *Model {
	return &Model{llm: model, modelName: name}
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// Complete generates a single non-streaming completion for the given messages.
func (m *Model) Complete(ctx context.Context, messages []llms.MessageContent, temperature float64, maxTokens int) (string, error) {
	start := time.Now()

	response, err := m.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if m.metrics != nil {
		m.metrics.RecordTiming(metrics.OpLLMGenerate, time.Since(start))
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return response.Choices[0].Content, nil
}

// Stream generates a streaming completion, invoking onDelta for every text
// fragment in arrival order. Returns the full concatenated text. If onDelta
// returns an error, the stream is aborted and that error is returned.
func (m *Model) Stream(ctx context.Context, messages []llms.MessageContent, temperature float64, maxTokens int, onDelta func(string) error) (string, error) {
	start := time.Now()

	var full []byte
	_, err := m.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			full = append(full, chunk...)
			return onDelta(string(chunk))
		}),
	)
	if err != nil {
		return string(full), fmt.Errorf("stream: %w", err)
	}

	if m.metrics != nil {
		m.metrics.RecordTiming(metrics.OpLLMStream, time.Since(start))
	}

	return string(full), nil
}
