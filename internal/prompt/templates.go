package prompt

import (
	"fmt"
	"strings"

	"github.com/loopinhq/loopin-go/internal/models"
)

// placeholder substitutes for any plan or attribute field the user has not filled in.
const placeholder = "未設定"

// BuildAutofillPrompt renders the extraction instruction for a transcript.
// The model must answer with a strict JSON object carrying exactly the seven
// plan keys, empty string for anything the conversation did not cover.
func BuildAutofillPrompt(transcript string) string {
	return fmt.Sprintf(`以下のチャット会話を分析し、事業計画に必要な情報を抽出してJSONで出力してください。
情報が会話に含まれていない場合は空文字列を設定してください。

【出力フォーマット】
{
  "serviceName": "サービス名",
  "overview": "サービス概要（100文字程度）",
  "targetMarket": "ターゲット市場・顧客",
  "valueProposition": "提供価値・ユーザーが使う理由",
  "competitors": "競合・差別化ポイント",
  "revenueModel": "収益モデル",
  "milestones": "実現に向けたマイルストーン"
}

【会話履歴】
%s

【注意】
- JSONのみを出力し、他のテキストは含めないでください
- 日本語で回答してください`, transcript)
}

// AnalysisSystemPrompt enumerates the six scoring dimensions and the expected
// JSON shape for plan evaluation.
const AnalysisSystemPrompt = `以下の事業計画を分析し、各項目を0-100点で評価してください。

【評価項目】
1. feasibility (実現可能性): 技術的・リソース的に実現可能か
2. marketSize (市場規模): ターゲット市場の大きさと成長性
3. innovation (革新性): 既存ソリューションとの差別化度
4. profitability (収益性): 収益モデルの持続可能性
5. scalability (成長性): スケールの可能性
6. teamFit (チーム適合): チームの強みとの整合性

【出力フォーマット】JSONのみで出力してください。
{
  "feasibility": 75,
  "marketSize": 80,
  "innovation": 65,
  "profitability": 70,
  "scalability": 85,
  "teamFit": 72,
  "summary": "事業の総評（100文字程度）",
  "strengths": ["強み1", "強み2"],
  "weaknesses": ["課題1", "課題2"],
  "recommendations": ["改善提案1", "改善提案2"]
}`

// BuildAnalysisContext renders the plan and team attributes as the user
// message for scoring. Missing values become the 未設定 placeholder.
func BuildAnalysisContext(plan models.PlanData, attrs *models.Attributes) string {
	var genre, businessModel, revenueGoal, strengths string
	if attrs != nil {
		genre = attrs.Genre
		businessModel = attrs.BusinessModel
		revenueGoal = attrs.RevenueGoal
		strengths = strings.Join(attrs.Strengths, ", ")
	}

	return fmt.Sprintf(`
【事業計画】
- サービス名: %s
- 概要: %s
- ターゲット市場: %s
- 提供価値: %s
- 競合・差別化: %s
- 収益モデル: %s
- マイルストーン: %s

【チーム情報】
- ビジネスジャンル: %s
- ビジネスモデル: %s
- 売上目標: %s
- チームの強み: %s
`,
		orPlaceholder(plan.ServiceName),
		orPlaceholder(plan.Overview),
		orPlaceholder(plan.TargetMarket),
		orPlaceholder(plan.ValueProposition),
		orPlaceholder(plan.Competitors),
		orPlaceholder(plan.RevenueModel),
		orPlaceholder(plan.Milestones),
		orPlaceholder(genre),
		orPlaceholder(businessModel),
		orPlaceholder(revenueGoal),
		orPlaceholder(strengths),
	)
}

// RenderTranscript formats messages as speaker-labeled lines for the
// extraction prompt.
func RenderTranscript(messages []models.ChatMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		speaker := "AI"
		if m.Sender == models.SenderUser {
			speaker = "ユーザー"
		}
		lines = append(lines, speaker+": "+m.Content)
	}
	return strings.Join(lines, "\n\n")
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
