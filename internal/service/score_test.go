package service

import (
	"context"
	"errors"
	"testing"

	"github.com/loopinhq/loopin-go/internal/llm"
	"github.com/loopinhq/loopin-go/internal/models"
)

var testPlan = models.PlanData{
	ServiceName:      "TestApp",
	Overview:         "学習管理アプリ",
	TargetMarket:     "大学生",
	ValueProposition: "スキマ時間学習",
	RevenueModel:     "月額課金",
}

func TestAnalyzePersistsScores(t *testing.T) {
	store := newFakeStore()
	store.addProject("p1", models.PersonaLogical, &testPlan)

	stub := &stubLLM{response: `{
		"feasibility": 72, "marketSize": 65, "innovation": 58,
		"profitability": 61, "scalability": 70, "teamFit": 55,
		"summary": "堅実な構想です。",
		"strengths": ["明確なターゲット"],
		"weaknesses": ["競合が多い"],
		"recommendations": ["早期にMVPを出す"]
	}`}
	svc := NewScoreService(store, llm.NewModelFromLLM(stub, "stub"), testLogger())

	result, err := svc.Analyze(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	want := models.AnalysisScores{Feasibility: 72, MarketSize: 65, Innovation: 58, Profitability: 61, Scalability: 70, TeamFit: 55}
	if result.Scores != want {
		t.Errorf("scores = %+v, want %+v", result.Scores, want)
	}
	if result.Summary != "堅実な構想です。" {
		t.Errorf("summary = %q", result.Summary)
	}
	if len(result.Strengths) != 1 || len(result.Recommendations) != 1 {
		t.Errorf("narratives missing: %+v", result)
	}

	stored, _ := store.GetProject(context.Background(), "p1")
	if stored.Scores == nil || *stored.Scores != want {
		t.Errorf("persisted scores = %+v, want %+v", stored.Scores, want)
	}
}

func TestAnalyzeWithoutPlanNeverCallsModel(t *testing.T) {
	store := newFakeStore()
	store.addProject("p1", models.PersonaLogical, nil)

	stub := &stubLLM{response: `{"feasibility": 80}`}
	svc := NewScoreService(store, llm.NewModelFromLLM(stub, "stub"), testLogger())

	_, err := svc.Analyze(context.Background(), "p1")
	if !errors.Is(err, ErrNoPlanData) {
		t.Fatalf("err = %v, want ErrNoPlanData", err)
	}
	if stub.callCount() != 0 {
		t.Error("model called without a plan")
	}
}

func TestAnalyzeMissingDimensionsDefault(t *testing.T) {
	store := newFakeStore()
	store.addProject("p1", models.PersonaMentor, &testPlan)

	stub := &stubLLM{response: `{"feasibility": 90, "marketSize": 0}`}
	svc := NewScoreService(store, llm.NewModelFromLLM(stub, "stub"), testLogger())

	result, err := svc.Analyze(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.Scores.Feasibility != 90 {
		t.Errorf("feasibility = %d, want 90", result.Scores.Feasibility)
	}
	// An explicit zero is kept; absent dimensions default to 50.
	if result.Scores.MarketSize != 0 {
		t.Errorf("marketSize = %d, want 0", result.Scores.MarketSize)
	}
	for name, got := range map[string]int{
		"innovation":    result.Scores.Innovation,
		"profitability": result.Scores.Profitability,
		"scalability":   result.Scores.Scalability,
		"teamFit":       result.Scores.TeamFit,
	} {
		if got != defaultScore {
			t.Errorf("%s = %d, want %d", name, got, defaultScore)
		}
	}
}

func TestAnalyzeClampsOutOfRangeScores(t *testing.T) {
	store := newFakeStore()
	store.addProject("p1", models.PersonaChallenger, &testPlan)

	stub := &stubLLM{response: `{
		"feasibility": 140, "marketSize": -20, "innovation": 99.6,
		"profitability": 50, "scalability": 50, "teamFit": 50
	}`}
	svc := NewScoreService(store, llm.NewModelFromLLM(stub, "stub"), testLogger())

	result, err := svc.Analyze(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.Scores.Feasibility != 100 {
		t.Errorf("feasibility = %d, want 100", result.Scores.Feasibility)
	}
	if result.Scores.MarketSize != 0 {
		t.Errorf("marketSize = %d, want 0", result.Scores.MarketSize)
	}
	if result.Scores.Innovation != 100 {
		t.Errorf("innovation = %d, want 100 (rounded)", result.Scores.Innovation)
	}
}

func TestAnalyzeUnparseableResponse(t *testing.T) {
	store := newFakeStore()
	store.addProject("p1", models.PersonaLogical, &testPlan)

	stub := &stubLLM{response: "評価できませんでした。"}
	svc := NewScoreService(store, llm.NewModelFromLLM(stub, "stub"), testLogger())

	_, err := svc.Analyze(context.Background(), "p1")
	if !errors.Is(err, ErrScoringParse) {
		t.Fatalf("err = %v, want ErrScoringParse", err)
	}

	stored, _ := store.GetProject(context.Background(), "p1")
	if stored.Scores != nil {
		t.Error("scores persisted from unparseable response")
	}
}

func TestAnalyzeUnknownProject(t *testing.T) {
	store := newFakeStore()
	svc := NewScoreService(store, llm.NewModelFromLLM(&stubLLM{}, "stub"), testLogger())

	if _, err := svc.Analyze(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown project")
	}
}
