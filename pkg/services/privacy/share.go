package privacy

import (
	"fmt"
	"strings"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

// ShareChecklist lists what the user confirms before sharing. Items with Must set are
// never pre-checked.
var ShareChecklist = []domain.ChecklistItem{
	{ID: "no_realname", Label: "실명/회사/학교 없음", Must: true},
	{ID: "no_contact", Label: "연락처(전화/이메일/ID) 없음", Must: true},
	{ID: "no_ids", Label: "식별정보(주민번호/계좌) 없음", Must: true},
	{ID: "no_address", Label: "주소/위치 없음", Must: false},
	{ID: "no_links", Label: "링크/URL 없음", Must: false},
	{ID: "mask_people", Label: "상대 익명화(A/B/C)", Must: false},
}

var summaries = map[domain.RiskLevel]string{
	domain.RiskDanger: "위험. 지금 공유하면 “식별/연락”으로 이어질 확률이 큼.",
	domain.RiskWarn:   "주의. 일부 식별정보가 섞였을 수 있음. 마스킹 확인.",
	domain.RiskSafe:   "안전. 그래도 마지막으로 한 번만 확인.",
}

// BuildShareSafetyReport scans the non-empty sources joined by newlines.
func BuildShareSafetyReport(sources []string) domain.ShareSafetyReport {
	nonEmpty := make([]string, 0, len(sources))
	for _, s := range sources {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}

	findings := Scan(strings.Join(nonEmpty, "\n"))
	score := RiskScore(findings)
	level := LevelFor(score)
	return domain.ShareSafetyReport{
		Findings: findings,
		Score:    score,
		Level:    level,
		Summary:  summaries[level],
	}
}

var findingLabels = map[domain.PiiType]string{
	domain.PiiEmail:   "이메일",
	domain.PiiPhone:   "전화번호",
	domain.PiiURL:     "링크",
	domain.PiiRRN:     "주민번호(의심)",
	domain.PiiCard:    "카드번호(의심)",
	domain.PiiAccount: "계좌(의심)",
	domain.PiiAddress: "주소(의심)",
	domain.PiiHandle:  "아이디(@)",
	domain.PiiKakao:   "메신저/오픈채팅",
}

func FormatFinding(f domain.PiiFinding) string {
	label, ok := findingLabels[f.Type]
	if !ok {
		label = string(f.Type)
	}
	return fmt.Sprintf("%s: %s", label, f.Match)
}
