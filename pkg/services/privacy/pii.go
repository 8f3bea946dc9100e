// Package privacy finds and masks personally identifying text before it is shared.
package privacy

import (
	"regexp"
	"sort"
	"strings"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

type pattern struct {
	typ         domain.PiiType
	re          *regexp.Regexp
	severity    int
	replaceWith string
}

// Korean-led patterns carry no leading \b: word boundaries are ASCII only and would never
// match before a Hangul syllable.
var patterns = []pattern{
	{domain.PiiEmail, regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`), 5, "[이메일]"},
	{domain.PiiURL, regexp.MustCompile(`(?i)\bhttps?://[^\s]+`), 4, "[링크]"},
	{domain.PiiURL, regexp.MustCompile(`(?i)\bwww\.[^\s]+`), 4, "[링크]"},

	{domain.PiiPhone, regexp.MustCompile(`\b(?:\+?82[- ]?)?0(?:10|11|16|17|18|19)[- ]?\d{3,4}[- ]?\d{4}\b`), 5, "[전화번호]"},
	{domain.PiiPhone, regexp.MustCompile(`\b0(?:2|3[1-3]|4[1-4]|5[1-5]|6[1-4]|70)[- ]?\d{3,4}[- ]?\d{4}\b`), 4, "[전화번호]"},

	{domain.PiiRRN, regexp.MustCompile(`\b\d{6}[- ]?[1-4]\d{6}\b`), 5, "[주민번호]"},
	{domain.PiiCard, regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`), 4, "[카드번호]"},
	{domain.PiiAccount, regexp.MustCompile(`\b\d{2,4}[- ]?\d{2,4}[- ]?\d{2,8}\b`), 3, "[계좌]"},

	{domain.PiiHandle, regexp.MustCompile(`(^|\s)@[a-zA-Z0-9_.]{3,30}\b`), 2, "[아이디]"},
	{domain.PiiKakao, regexp.MustCompile(`(?i)\bopen\.kakao\.com/[^\s]+`), 4, "[오픈채팅링크]"},
	{domain.PiiKakao, regexp.MustCompile(`(?i)\bkakaotalk\b|카톡|카카오톡`), 2, "[메신저]"},

	{
		domain.PiiAddress,
		regexp.MustCompile(`(서울|부산|대구|인천|광주|대전|울산|세종|경기|강원|충북|충남|전북|전남|경북|경남|제주)[^\n]{0,20}(시|군|구|읍|면|동|로|길)[^\n]{0,20}\d{1,4}\b`),
		4,
		"[주소]",
	},
	{domain.PiiAddress, regexp.MustCompile(`(로|길)\s?\d{1,4}\b`), 2, "[주소]"},
}

var handleToken = regexp.MustCompile(`@[a-zA-Z0-9_.]{3,30}`)

// Scan returns unique findings ordered by severity, highest first. Findings with equal
// severity keep pattern table order.
func Scan(text string) []domain.PiiFinding {
	if text == "" {
		return nil
	}

	seen := map[string]struct{}{}
	var findings []domain.PiiFinding
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			match := strings.TrimSpace(text[loc[0]:loc[1]])
			if match == "" {
				continue
			}
			key := string(p.typ) + ":" + match
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			findings = append(findings, domain.PiiFinding{
				Type:     p.typ,
				Match:    match,
				Index:    loc[0],
				Severity: p.severity,
			})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity > findings[j].Severity
	})
	return findings
}

// Mask replaces every match with its category placeholder, pattern by pattern. Handle
// matches keep the whitespace captured before the @.
func Mask(text string) string {
	out := text
	for _, p := range patterns {
		if p.typ == domain.PiiHandle {
			out = p.re.ReplaceAllStringFunc(out, func(s string) string {
				loc := handleToken.FindStringIndex(s)
				if loc == nil {
					return s
				}
				return s[:loc[0]] + p.replaceWith + s[loc[1]:]
			})
			continue
		}
		out = p.re.ReplaceAllLiteralString(out, p.replaceWith)
	}
	return out
}

// RiskScore is ten points per severity unit, capped at 100.
func RiskScore(findings []domain.PiiFinding) int {
	raw := 0
	for _, f := range findings {
		raw += f.Severity * 10
	}
	return min(100, raw)
}

func LevelFor(score int) domain.RiskLevel {
	switch {
	case score >= 60:
		return domain.RiskDanger
	case score >= 20:
		return domain.RiskWarn
	default:
		return domain.RiskSafe
	}
}
