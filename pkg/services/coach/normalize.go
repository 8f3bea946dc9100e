package coach

import (
	"encoding/json"
	"strconv"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

const (
	DefaultTitle      = "코치 결과"
	DefaultDisclaimer = "본 결과는 자기관리 보조이며 의료/치료 목적이 아닙니다."
	paddingTitle      = "문장"
)

// rawAdvice accepts any JSON value per field; models do not always respect the schema.
type rawAdvice struct {
	Title      any `json:"title"`
	Diagnosis  any `json:"diagnosis"`
	Scripts    any `json:"scripts"`
	Next       any `json:"next"`
	Disclaimer any `json:"disclaimer"`
}

// DecodeAdvice parses model output into advice with exactly three scripts and four next
// steps. Output that is not a JSON object becomes the diagnosis.
func DecodeAdvice(content string) domain.CoachAdvice {
	var raw rawAdvice
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		raw = rawAdvice{Title: DefaultTitle, Diagnosis: content}
	}
	return normalize(raw)
}

func normalize(raw rawAdvice) domain.CoachAdvice {
	advice := domain.CoachAdvice{
		Title:      orDefault(raw.Title, DefaultTitle),
		Diagnosis:  orDefault(raw.Diagnosis, ""),
		Disclaimer: orDefault(raw.Disclaimer, DefaultDisclaimer),
	}

	scripts, _ := raw.Scripts.([]any)
	for _, s := range scripts {
		if len(advice.Scripts) == domain.AdviceScripts {
			break
		}
		obj, _ := s.(map[string]any)
		advice.Scripts = append(advice.Scripts, domain.CoachScript{
			Title: orDefault(obj["title"], ""),
			Text:  orDefault(obj["text"], ""),
		})
	}
	for len(advice.Scripts) < domain.AdviceScripts {
		advice.Scripts = append(advice.Scripts, domain.CoachScript{Title: paddingTitle})
	}

	next, _ := raw.Next.([]any)
	for _, n := range next {
		if len(advice.Next) == domain.AdviceNextSteps {
			break
		}
		advice.Next = append(advice.Next, stringify(n))
	}
	for len(advice.Next) < domain.AdviceNextSteps {
		advice.Next = append(advice.Next, "")
	}
	return advice
}

// orDefault treats falsy JSON values (null, false, 0, "") as missing.
func orDefault(v any, def string) string {
	switch t := v.(type) {
	case nil:
		return def
	case string:
		if t == "" {
			return def
		}
	case bool:
		if !t {
			return def
		}
	case float64:
		if t == 0 {
			return def
		}
	}
	return stringify(v)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
