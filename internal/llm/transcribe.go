package llm

import (
	"context"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/loopinhq/loopin-go/internal/config"
	"github.com/loopinhq/loopin-go/internal/metrics"
)

// Transcriber converts recorded audio to text via the Whisper API.
// langchaingo has no audio surface, so this goes through go-openai directly.
type Transcriber struct {
	client   *openai.Client
	model    string
	language string
	metrics  *metrics.Collector
}

// NewTranscriber creates a Whisper transcriber from configuration.
func NewTranscriber(cfg config.Config, mc *metrics.Collector) (*Transcriber, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OpenAI API key required for transcription")
	}

	return &Transcriber{
		client:   openai.NewClient(cfg.OpenAIAPIKey),
		model:    cfg.TranscribeModel,
		language: cfg.TranscribeLanguage,
		metrics:  mc,
	}, nil
}

// Transcribe sends one audio file to Whisper and returns the recognized text.
// filename is only used to hint the container format to the API.
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	start := time.Now()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		Reader:   audio,
		FilePath: filename,
		Language: t.language,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	if t.metrics != nil {
		t.metrics.RecordTiming(metrics.OpTranscribe, time.Since(start))
	}

	return resp.Text, nil
}
