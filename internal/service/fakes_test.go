package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/tmc/langchaingo/llms"

	"github.com/loopinhq/loopin-go/internal/db"
	"github.com/loopinhq/loopin-go/internal/models"
)

// stubLLM is a scripted llms.Model. If chunks is set, streaming calls replay
// them in order; otherwise the whole response is delivered as one chunk.
type stubLLM struct {
	mu           sync.Mutex
	response     string
	chunks       []string
	err          error
	errAfter     int // with chunks: fail after this many chunks (0 = fail immediately)
	failMid      bool
	calls        int
	lastMessages []llms.MessageContent
}

func (s *stubLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	s.mu.Lock()
	s.calls++
	s.lastMessages = messages
	s.mu.Unlock()

	opts := llms.CallOptions{}
	for _, o := range options {
		o(&opts)
	}

	if s.err != nil && !s.failMid {
		return nil, s.err
	}

	if opts.StreamingFunc != nil {
		chunks := s.chunks
		if chunks == nil {
			chunks = []string{s.response}
		}
		for i, c := range chunks {
			if s.failMid && i == s.errAfter {
				return nil, s.err
			}
			if err := opts.StreamingFunc(ctx, []byte(c)); err != nil {
				return nil, err
			}
		}
		if s.failMid && s.errAfter >= len(chunks) {
			return nil, s.err
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: s.response}},
	}, nil
}

func (s *stubLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu         sync.Mutex
	projects   map[string]*models.Project
	messages   map[string][]models.ChatMessage
	failAppend bool
	appends    []models.Sender // append order, for assertions
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: make(map[string]*models.Project),
		messages: make(map[string][]models.ChatMessage),
	}
}

func (f *fakeStore) addProject(id string, persona models.Persona, plan *models.PlanData) {
	f.projects[id] = &models.Project{
		ID:            surrealmodels.RecordID{Table: "project", ID: id},
		UserID:        "user-1",
		Title:         "test",
		Status:        models.StatusDraft,
		AIPersonality: persona,
		PlanData:      plan,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func (f *fakeStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CreateProject(ctx context.Context, input models.ProjectInput) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.NewString()
	p := &models.Project{
		ID:            surrealmodels.RecordID{Table: "project", ID: id},
		UserID:        input.UserID,
		Title:         input.Title,
		Status:        models.StatusDraft,
		AIPersonality: input.AIPersonality,
		Attributes:    input.Attributes,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.projects[id] = p
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPublishedProjects(ctx context.Context, limit int) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.projects {
		if p.Status == models.StatusPublished {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) PublishProject(ctx context.Context, id string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	p.Status = models.StatusPublished
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpdatePlanData(ctx context.Context, id string, plan models.PlanData, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return db.ErrNotFound
	}
	p.PlanData = &plan
	p.Title = title
	return nil
}

func (f *fakeStore) UpdateScores(ctx context.Context, id string, scores models.AnalysisScores) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return db.ErrNotFound
	}
	p.Scores = &scores
	return nil
}

func (f *fakeStore) AppendMessage(ctx context.Context, projectID string, sender models.Sender, content string) (*models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppend {
		return nil, fmt.Errorf("store unavailable")
	}
	m := models.ChatMessage{
		ID:        surrealmodels.RecordID{Table: "chat_message", ID: uuid.NewString()},
		Project:   surrealmodels.RecordID{Table: "project", ID: projectID},
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.messages[projectID] = append(f.messages[projectID], m)
	f.appends = append(f.appends, sender)
	return &m, nil
}

func (f *fakeStore) ListMessages(ctx context.Context, projectID string, limit int) ([]models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.messages[projectID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]models.ChatMessage, len(all))
	copy(out, all)
	return out, nil
}

func (f *fakeStore) lastMessage(projectID string) *models.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[projectID]
	if len(msgs) == 0 {
		return nil
	}
	m := msgs[len(msgs)-1]
	return &m
}

func (f *fakeStore) messageCount(projectID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages[projectID])
}
