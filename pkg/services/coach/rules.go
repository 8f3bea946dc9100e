package coach

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/report"
)

const verdictDisclaimer = "본 판결은 자기관리 보조 목적이며, 법적 효력이 없습니다. 무료 모드는 로컬 규칙 기반입니다."

var gradeLabels = map[domain.VerdictGrade]string{
	domain.GradeGuilty:    "유죄 (즉시 손절)",
	domain.GradeWarning:   "경고 (비중 축소)",
	domain.GradeProbation: "집행유예 (관찰)",
	domain.GradeInnocent:  "무죄 (유지)",
}

// Grade ranks a relationship by its net loss and ROI.
func Grade(netLossWon, roiPct int64) domain.VerdictGrade {
	switch {
	case netLossWon >= 100000 || roiPct <= -50:
		return domain.GradeGuilty
	case netLossWon >= 30000 || roiPct <= -20:
		return domain.GradeWarning
	case netLossWon > 0:
		return domain.GradeProbation
	default:
		return domain.GradeInnocent
	}
}

// toned picks the sentence for a tone; blunt and unknown tones use the cold text.
type toned struct {
	polite, humor, cold string
}

func (t toned) For(tone domain.CoachTone) string {
	switch ClientTone(tone) {
	case domain.TonePolite:
		return t.polite
	case domain.ToneHumor:
		return t.humor
	default:
		return t.cold
	}
}

type labeled struct {
	label string
	text  toned
}

var personalSentences = []labeled{
	{"손절 선언", toned{
		polite: "앞으로는 서로 부담되지 않는 선에서만 연락하면 좋겠습니다.",
		humor:  `나 지금부터 "셀프 구조조정" 들어갑니다. 관계 포트폴리오에서 비중 축소요 😅`,
		cold:   "이 관계는 여기서 정리합니다. 더 이상의 시간/감정 투자는 없습니다.",
	}},
	{"경계 설정", toned{
		polite: "제 사정상 이 범위를 넘는 부탁은 어렵습니다. 양해 부탁드립니다.",
		humor:  `내 "도움 API" 호출 한도가 이번 달 초과됐어요. 다음 달 리셋되면 연락줘요.`,
		cold:   "선을 넘는 요청은 거절합니다. 예외 없습니다.",
	}},
	{"거래 종료", toned{
		polite: "지금까지 감사했습니다. 앞으로는 각자의 길을 가는 게 좋겠습니다.",
		humor:  `우리 관계 "서비스 종료" 안내드립니다. 그동안 이용해주셔서 감사했습니다 🙏`,
		cold:   "끝입니다. 연락하지 마세요.",
	}},
}

var clientSentences = []labeled{
	{"단가 인상 통보", toned{
		polite: "프로젝트 범위와 투입 시간을 고려하여, 다음 프로젝트부터 단가 조정이 필요합니다.",
		humor:  `저희 서비스에 "프리미엄 요금제"가 신설되었습니다. 기존 고객 할인 적용해드릴게요 😇`,
		cold:   "현재 단가로는 수익성 확보가 불가합니다. 단가 인상 또는 거래 종료 중 선택해주세요.",
	}},
	{"업무 범위 명시", toned{
		polite: "계약 범위 외 요청은 별도 견적이 필요합니다. 사전에 조율 부탁드립니다.",
		humor:  `그건 "확장팩" 범위예요. 기본 패키지에 미포함입니다 📦`,
		cold:   "계약 외 업무는 추가 비용이 발생합니다. 무료 서비스가 아닙니다.",
	}},
	{"거래 종료 통보", toned{
		polite: "내부 검토 결과, 해당 프로젝트는 더 이상 진행이 어렵습니다. 양해 부탁드립니다.",
		humor:  `저희 회사 "블랙리스트 시스템" 업데이트로 해당 건은 처리가 어렵습니다 🚫`,
		cold:   "거래 종료합니다. 미수금 정산 후 연락 끊겠습니다.",
	}},
}

var personalActions = []string{
	`1) 해당 인물의 연락에 "즉답 금지" → 최소 30분 후 답변.`,
	`2) 다음 요청 시 "이번엔 어렵다"로 첫 거절 연습.`,
	"3) 2주간 접촉 빈도 50% 감소 시행.",
	`4) 손실이 반복되면 "음소거/차단"으로 전환.`,
}

var clientActions = []string{
	"1) 다음 견적부터 최소 20% 할증 적용.",
	`2) 추가 요청은 모두 "별도 견적" 처리.`,
	"3) 결제 조건을 선불 또는 착수금 50%로 변경.",
	`4) 3회 연속 손실 시 "거래처 블랙리스트" 등록.`,
}

var reasoningAdditions = []string{
	"이는 명백한 자원 낭비이며, 즉각적인 시정 조치가 필요하다.",
	"계속 방치 시 손실이 누적될 것으로 예상된다.",
	"합리적인 경영/생활 판단으로는 수용 불가한 수준이다.",
	"관계 비용이 관계 혜택을 현저히 초과한 상태이다.",
}

// Rules is the local coach. Pick chooses one of n phrasings and defaults to random.
type Rules struct {
	Pick func(n int) int
	Now  func() time.Time
}

func (r Rules) pick(options []string) string {
	pick := rand.IntN
	if r.Pick != nil {
		pick = r.Pick
	}
	return options[pick(len(options))]
}

func (r Rules) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Judge writes a verdict from the report summary alone.
func (r Rules) Judge(summary domain.ReportSummary, tone domain.CoachTone, ctx domain.CoachContext) domain.CoachVerdict {
	loss := summary.Totals.NetLossWon
	roi := summary.Totals.RoiPct
	grade := Grade(loss, roi)
	gradeLabel := gradeLabels[grade]
	person := summary.TopPersonLabel
	cause := summary.TopCauseLabel
	won := report.FormatWon(loss)

	v := domain.CoachVerdict{
		Grade:      grade,
		Disclaimer: verdictDisclaimer,
	}

	ms := strconv.FormatInt(r.now().UnixMilli(), 10)
	v.Title = fmt.Sprintf("판결문 제%s호", ms[max(0, len(ms)-6):])

	var sentences []labeled
	var base string
	if ctx == domain.ContextClient {
		v.Verdict = r.pick([]string{
			fmt.Sprintf(`클라이언트 %s은(는) 프로젝트 수익성을 저해하여 총 ₩%s 손실을 야기하였으므로, "%s" 판정한다.`, person, won, gradeLabel),
			fmt.Sprintf("해당 거래처는 ROI %d%%로 수익성 기준 미달. %s 권고.", roi, gradeLabel),
			fmt.Sprintf("B2B 감사 결과: 해당 클라이언트는 비용 센터로 분류됨. %s.", gradeLabel),
		})
		base = fmt.Sprintf(`본 클라이언트와의 거래에서 주요 손실 원인은 "%s"로 확인됨. 투입 시간 대비 수익률이 저조하며, 지속적인 추가 요청이 원가 상승을 초래함.`, cause)
		sentences = clientSentences
		v.Actions = append([]string{}, clientActions...)
	} else {
		v.Verdict = r.pick([]string{
			fmt.Sprintf(`피고 %s은(는) 원고에게 총 ₩%s의 손해를 입혔으므로, "%s" 판결을 선고한다.`, person, won, gradeLabel),
			fmt.Sprintf("본 건의 피고는 원고의 시간/멘탈 자원을 부당하게 소진하였으므로, %s 판정한다.", gradeLabel),
			fmt.Sprintf(`심리 결과, 해당 관계는 "투자 대비 손실" 상태로 확인됨. %s.`, gradeLabel),
		})
		base = fmt.Sprintf(`본 관계에서 주요 손실 원인은 "%s"로 확인됨. 원고의 시간/감정 자원이 일방적으로 소진되었으며, 상호성이 부재함.`, cause)
		sentences = personalSentences
		v.Actions = append([]string{}, personalActions...)
	}
	v.Reasoning = base + " " + r.pick(reasoningAdditions)

	for _, s := range sentences {
		v.Sentences = append(v.Sentences, domain.VerdictSentence{Label: s.label, Text: s.text.For(tone)})
	}
	return v
}
