package prompt

import (
	"strings"
	"testing"

	"github.com/loopinhq/loopin-go/internal/models"
)

func TestBuildSystemPromptIsDeterministic(t *testing.T) {
	attrs := &models.Attributes{
		Genre:         "EdTech",
		BusinessModel: "SaaS",
		Strengths:     []string{"開発力", "教育現場の知見"},
		DecisionStyle: "intuition",
	}

	for _, persona := range models.Personas {
		a := BuildSystemPrompt(persona, attrs)
		b := BuildSystemPrompt(persona, attrs)
		if a != b {
			t.Errorf("persona %s: repeated builds differ", persona)
		}
	}
}

func TestBuildSystemPromptPersonaBlocks(t *testing.T) {
	markers := map[models.Persona]string{
		models.PersonaLogical:    "ロジカル型",
		models.PersonaChallenger: "チャレンジ型",
		models.PersonaMentor:     "メンター型",
		models.PersonaFriend:     "フレンド型",
	}

	seen := make(map[string]models.Persona)
	for persona, marker := range markers {
		p := BuildSystemPrompt(persona, nil)
		if !strings.Contains(p, marker) {
			t.Errorf("persona %s: missing marker %q", persona, marker)
		}
		if !strings.Contains(p, "壁打ち") {
			t.Errorf("persona %s: missing base rules", persona)
		}
		if prev, dup := seen[p]; dup {
			t.Errorf("personas %s and %s produce identical prompts", prev, persona)
		}
		seen[p] = persona
	}
}

func TestBuildSystemPromptAttributes(t *testing.T) {
	attrs := &models.Attributes{
		Genre:         "フードデリバリー",
		RevenueGoal:   "月商100万円",
		Strengths:     []string{"飲食店ネットワーク", "物流経験"},
		DecisionStyle: "intuition",
	}

	p := BuildSystemPrompt(models.PersonaLogical, attrs)
	for _, want := range []string{
		"【ユーザーのプロジェクト情報】",
		"フードデリバリー",
		"月商100万円",
		"飲食店ネットワーク, 物流経験",
		"直感重視",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Anything other than intuition reads as logic-driven.
	p = BuildSystemPrompt(models.PersonaLogical, &models.Attributes{DecisionStyle: "logic"})
	if !strings.Contains(p, "論理重視") {
		t.Error("prompt missing 論理重視 for logic decision style")
	}
}

func TestBuildSystemPromptWithoutAttributes(t *testing.T) {
	p := BuildSystemPrompt(models.PersonaMentor, nil)
	if strings.Contains(p, "【ユーザーのプロジェクト情報】") {
		t.Error("attributes block rendered without attributes")
	}
	if !strings.Contains(p, "自己紹介") {
		t.Error("missing opening instruction")
	}
}
