package coach

import (
	"encoding/json"
	"strings"

	"github.com/de-tools/relationship-roi/pkg/adapters"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

var systemPrompt = strings.Join([]string{
	"너는 “인간관계 손익계산서(Relationship ROI)” 앱의 유료 코치다.",
	"목표: 사용자가 감정 과열 상태에서도 “결정”을 내릴 수 있게 짧고 단호하게 정리한다.",
	"규칙:",
	"- 의료/치료/진단처럼 말하지 마라. (상담/치료 권유는 가능하지만, 진단명/치료지시는 금지)",
	"- 폭력/불법/자해 관련 조언은 금지. (안전하고 합법적인 대안만)",
	"- 1) 요약판결 1문장, 2) 진단(상황 구조) 2~3문장, 3) 복붙 문장 3개, 4) 다음 행동 4개.",
	"- “독하게” 말하되, 모욕/혐오 표현은 금지.",
	"- 출력은 반드시 JSON 한 덩어리로만. 코드펜스 금지.",
	"",
	"JSON 스키마:",
	`{"title":string,"diagnosis":string,"scripts":[{"title":string,"text":string}*3],"next":[string*4],"disclaimer":string}`,
}, "\n")

func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt renders the tone, the truncated situation and the report summary.
func UserPrompt(p domain.CoachPayload) string {
	report, _ := json.Marshal(adapters.MapDomainReportSummaryToAPI(p.Report))
	return strings.Join([]string{
		"톤: " + string(SanitizeTone(string(p.Tone))),
		"",
		"상황(사용자 입력):",
		truncateRunes(p.Situation, MaxSituationRunes),
		"",
		"이번 달 리포트 요약:",
		string(report),
	}, "\n")
}
