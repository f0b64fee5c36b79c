package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/llms"

	"github.com/loopinhq/loopin-go/internal/llm"
	"github.com/loopinhq/loopin-go/internal/models"
	"github.com/loopinhq/loopin-go/internal/prompt"
)

const (
	// historyLimit caps how many prior turns are sent to the model.
	historyLimit = 20

	// historyTokenBudget bounds the history portion of the request. Turns
	// are dropped oldest-first once the budget is exceeded.
	historyTokenBudget = 3000

	chatTemperature = 0.7
	chatMaxTokens   = 1000
)

// StreamEvent is one event from a streaming chat turn. Exactly one terminal
// event (Done or Err) closes every stream.
type StreamEvent struct {
	Content string
	Done    bool
	Err     error
}

// ChatService orchestrates one user turn: persist it, call the model with
// persona prompt plus capped history, relay deltas, persist the reply.
type ChatService struct {
	store  Store
	model  *llm.Model
	logger *slog.Logger
	locks  *keyedMutex

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// NewChatService creates a new chat service.
func NewChatService(store Store, model *llm.Model, logger *slog.Logger) *ChatService {
	return &ChatService{
		store:  store,
		model:  model,
		logger: logger,
		locks:  newKeyedMutex(),
	}
}

// HandleUserTurn runs one chat turn for a project. The user's message is
// persisted before the model call, so a model failure still leaves it
// recorded. Returned events carry text deltas in order, terminated by a
// single Done or Err event. On mid-stream failure the partial assistant
// output is discarded, never persisted.
//
// Turns against the same project are serialized; the transcript order of
// appends is therefore well-defined even under concurrent callers.
func (s *ChatService) HandleUserTurn(ctx context.Context, projectID, userText string) (<-chan StreamEvent, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	systemPrompt := prompt.BuildSystemPrompt(project.AIPersonality, project.Attributes)

	unlock := s.locks.Lock(projectID)

	history, err := s.store.ListMessages(ctx, projectID, historyLimit)
	if err != nil {
		unlock()
		return nil, err
	}

	if _, err := s.store.AppendMessage(ctx, projectID, models.SenderUser, userText); err != nil {
		unlock()
		return nil, err
	}

	messages := s.buildMessages(systemPrompt, history, userText)

	events := make(chan StreamEvent, 8)

	go func() {
		defer close(events)
		defer unlock()

		full, err := s.model.Stream(ctx, messages, chatTemperature, chatMaxTokens, func(delta string) error {
			select {
			case events <- StreamEvent{Content: delta}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			s.logger.Error("chat stream failed", "project_id", projectID, "error", err)
			s.send(ctx, events, StreamEvent{Err: err})
			return
		}

		if _, err := s.store.AppendMessage(ctx, projectID, models.SenderAI, full); err != nil {
			s.logger.Error("failed to persist assistant turn", "project_id", projectID, "error", err)
			s.send(ctx, events, StreamEvent{Err: err})
			return
		}

		s.send(ctx, events, StreamEvent{Done: true})
	}()

	return events, nil
}

// send delivers a terminal event unless the caller has gone away.
func (s *ChatService) send(ctx context.Context, events chan<- StreamEvent, ev StreamEvent) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// buildMessages assembles the ordered request: system prompt, historical
// turns under the token budget, then the new user turn.
func (s *ChatService) buildMessages(systemPrompt string, history []models.ChatMessage, userText string) []llms.MessageContent {
	history = s.trimToBudget(history)

	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))

	for _, m := range history {
		role := llms.ChatMessageTypeAI
		if m.Sender == models.SenderUser {
			role = llms.ChatMessageTypeHuman
		}
		messages = append(messages, llms.TextParts(role, m.Content))
	}

	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userText))
	return messages
}

// trimToBudget drops the oldest turns until the history fits the token budget.
func (s *ChatService) trimToBudget(history []models.ChatMessage) []models.ChatMessage {
	// Cheap size estimate first; only tokenize when the history is anywhere
	// near the budget. 200-character replies keep most conversations far below it.
	size := 0
	for _, m := range history {
		size += len(m.Content)
	}
	if size/3 <= historyTokenBudget {
		return history
	}

	total := 0
	for _, m := range history {
		total += s.countTokens(m.Content)
	}
	for len(history) > 0 && total > historyTokenBudget {
		total -= s.countTokens(history[0].Content)
		history = history[1:]
	}
	return history
}

// countTokens counts tokens with the cl100k_base encoding. The encoder needs
// its BPE data on first use; if that fails we fall back to a bytes/4
// estimate rather than refusing the turn.
func (s *ChatService) countTokens(text string) int {
	s.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err != nil {
			s.logger.Warn("tiktoken unavailable, estimating token counts", "error", err)
			return
		}
		s.enc = enc
	})

	if s.enc == nil {
		return len(text)/4 + 1
	}
	return len(s.enc.Encode(text, nil, nil))
}
