package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/loopinhq/loopin-go/internal/db"
	"github.com/loopinhq/loopin-go/internal/llm"
	"github.com/loopinhq/loopin-go/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func collect(t *testing.T, events <-chan StreamEvent) (string, error) {
	t.Helper()
	var b strings.Builder
	for ev := range events {
		if ev.Err != nil {
			return b.String(), ev.Err
		}
		if ev.Done {
			return b.String(), nil
		}
		b.WriteString(ev.Content)
	}
	t.Fatal("stream closed without a terminal event")
	return "", nil
}

func TestHandleUserTurnStreamsAndPersists(t *testing.T) {
	store := newFakeStore()
	store.addProject("p1", models.PersonaLogical, nil)

	stub := &stubLLM{
		response: "こんにちは、起業の相談ですね。",
		chunks:   []string{"こんにちは、", "起業の相談", "ですね。"},
	}
	chat := NewChatService(store, llm.NewModelFromLLM(stub, "stub"), testLogger())

	events, err := chat.HandleUserTurn(context.Background(), "p1", "アプリのアイデアがあります")
	if err != nil {
		t.Fatalf("HandleUserTurn: %v", err)
	}

	streamed, err := collect(t, events)
	if err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if streamed != "こんにちは、起業の相談ですね。" {
		t.Errorf("streamed %q, want full reply", streamed)
	}

	if got := store.messageCount("p1"); got != 2 {
		t.Fatalf("message count = %d, want 2", got)
	}
	last := store.lastMessage("p1")
	if last.Sender != models.SenderAI {
		t.Errorf("last sender = %q, want ai", last.Sender)
	}
	// Persisted assistant text must equal the concatenation of the deltas.
	if last.Content != streamed {
		t.Errorf("persisted %q, streamed %q", last.Content, streamed)
	}
}

func TestHandleUserTurnUnknownProject(t *testing.T) {
	store := newFakeStore()
	chat := NewChatService(store, llm.NewModelFromLLM(&stubLLM{}, "stub"), testLogger())

	_, err := chat.HandleUserTurn(context.Background(), "missing", "hello")
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if store.messageCount("missing") != 0 {
		t.Error("message persisted for unknown project")
	}
}

func TestHandleUserTurnModelFailureKeepsUserTurn(t *testing.T) {
	store := newFakeStore()
	store.addProject("p1", models.PersonaMentor, nil)

	stub := &stubLLM{err: errors.New("upstream unavailable")}
	chat := NewChatService(store, llm.NewModelFromLLM(stub, "stub"), testLogger())

	events, err := chat.HandleUserTurn(context.Background(), "p1", "壁打ちしたい")
	if err != nil {
		t.Fatalf("HandleUserTurn: %v", err)
	}

	if _, err := collect(t, events); err == nil {
		t.Fatal("expected terminal error event")
	}

	// The user's turn survives the failure; no assistant turn is recorded.
	if got := store.messageCount("p1"); got != 1 {
		t.Fatalf("message count = %d, want 1", got)
	}
	if last := store.lastMessage("p1"); last.Sender != models.SenderUser {
		t.Errorf("last sender = %q, want user", last.Sender)
	}
}

func TestHandleUserTurnMidStreamFailureDiscardsPartial(t *testing.T) {
	store := newFakeStore()
	store.addProject("p1", models.PersonaChallenger, nil)

	stub := &stubLLM{
		chunks:   []string{"それは", "本当に"},
		err:      errors.New("connection reset"),
		failMid:  true,
		errAfter: 2,
	}
	chat := NewChatService(store, llm.NewModelFromLLM(stub, "stub"), testLogger())

	events, err := chat.HandleUserTurn(context.Background(), "p1", "この案どう思う？")
	if err != nil {
		t.Fatalf("HandleUserTurn: %v", err)
	}

	streamed, err := collect(t, events)
	if err == nil {
		t.Fatal("expected terminal error event")
	}
	if streamed != "それは本当に" {
		t.Errorf("streamed %q before failure", streamed)
	}

	// Partial assistant output is discarded, not persisted.
	if got := store.messageCount("p1"); got != 1 {
		t.Fatalf("message count = %d, want 1 (user turn only)", got)
	}
}

func TestHandleUserTurnAppendsUserBeforeModelCall(t *testing.T) {
	store := newFakeStore()
	store.addProject("p1", models.PersonaFriend, nil)

	stub := &stubLLM{response: "いいね！"}
	chat := NewChatService(store, llm.NewModelFromLLM(stub, "stub"), testLogger())

	events, err := chat.HandleUserTurn(context.Background(), "p1", "進捗あったよ")
	if err != nil {
		t.Fatalf("HandleUserTurn: %v", err)
	}
	if _, err := collect(t, events); err != nil {
		t.Fatalf("stream error: %v", err)
	}

	want := []models.Sender{models.SenderUser, models.SenderAI}
	if len(store.appends) != len(want) {
		t.Fatalf("appends = %v, want %v", store.appends, want)
	}
	for i, s := range want {
		if store.appends[i] != s {
			t.Errorf("append %d = %q, want %q", i, store.appends[i], s)
		}
	}
}

func TestConcurrentTurnsSameProjectSerialize(t *testing.T) {
	store := newFakeStore()
	store.addProject("p1", models.PersonaLogical, nil)

	stub := &stubLLM{response: "了解です。"}
	chat := NewChatService(store, llm.NewModelFromLLM(stub, "stub"), testLogger())

	const turns = 8
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			events, err := chat.HandleUserTurn(context.Background(), "p1", "質問です")
			if err != nil {
				t.Errorf("HandleUserTurn: %v", err)
				return
			}
			for range events {
			}
		}()
	}
	wg.Wait()

	if got := store.messageCount("p1"); got != turns*2 {
		t.Fatalf("message count = %d, want %d", got, turns*2)
	}
	// Serialized turns alternate user/ai strictly.
	for i, s := range store.appends {
		want := models.SenderUser
		if i%2 == 1 {
			want = models.SenderAI
		}
		if s != want {
			t.Fatalf("append %d = %q, want %q (appends: %v)", i, s, want, store.appends)
		}
	}
}

func TestBuildMessagesOrderAndRoles(t *testing.T) {
	chat := NewChatService(newFakeStore(), llm.NewModelFromLLM(&stubLLM{}, "stub"), testLogger())

	history := []models.ChatMessage{
		{Sender: models.SenderUser, Content: "first"},
		{Sender: models.SenderAI, Content: "second"},
	}
	messages := chat.buildMessages("system text", history, "third")

	if len(messages) != 4 {
		t.Fatalf("len = %d, want 4", len(messages))
	}
	wantRoles := []string{"system", "human", "ai", "human"}
	for i, m := range messages {
		if string(m.Role) != wantRoles[i] {
			t.Errorf("role %d = %q, want %q", i, m.Role, wantRoles[i])
		}
	}
}

func TestTrimToBudgetDropsOldest(t *testing.T) {
	chat := NewChatService(newFakeStore(), llm.NewModelFromLLM(&stubLLM{}, "stub"), testLogger())

	long := strings.Repeat("a", 8000)
	history := []models.ChatMessage{
		{Sender: models.SenderUser, Content: long},
		{Sender: models.SenderAI, Content: long},
		{Sender: models.SenderUser, Content: "keep me"},
	}

	trimmed := chat.trimToBudget(history)
	if len(trimmed) == 0 {
		t.Fatal("everything trimmed")
	}
	if got := trimmed[len(trimmed)-1].Content; got != "keep me" {
		t.Errorf("newest message dropped, last = %q", got)
	}
	if len(trimmed) >= len(history) {
		t.Errorf("nothing trimmed from %d oversized turns", len(history))
	}
}

func TestTrimToBudgetLeavesSmallHistoryAlone(t *testing.T) {
	chat := NewChatService(newFakeStore(), llm.NewModelFromLLM(&stubLLM{}, "stub"), testLogger())

	history := []models.ChatMessage{
		{Sender: models.SenderUser, Content: "short"},
		{Sender: models.SenderAI, Content: "reply"},
	}
	if got := chat.trimToBudget(history); len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}
