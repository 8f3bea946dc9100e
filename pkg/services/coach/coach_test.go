package coach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleSummary() domain.ReportSummary {
	return domain.ReportSummary{
		WindowLabel:    "2024-05 결산",
		Totals:         domain.SummaryTotals{Minutes: 120, MoneyWon: 50000, CostWon: 150000, BenefitWon: 10000, NetLossWon: 140000, RoiPct: -93},
		TopCauseLabel:  "직접 지출",
		TopPersonLabel: "민수",
	}
}

func samplePayload() domain.CoachPayload {
	return domain.CoachPayload{Tone: domain.ToneCold, Situation: "또 돈을 빌려달래요", Context: domain.ContextPersonal, Report: sampleSummary()}
}

func firstRules() Rules {
	return Rules{
		Pick: func(int) int { return 0 },
		Now:  func() time.Time { return time.UnixMilli(1714550400123) },
	}
}

func TestToPayload_KeepsOnlyAggregates(t *testing.T) {
	r := domain.Report{
		WindowLabel: "전체 결산",
		Totals:      domain.ReportTotals{Entries: 3, Minutes: 60, MoneyWon: 1000, CostWon: 20000, BenefitWon: 5000, NetWon: -15000, NetLossWon: 15000, RoiPct: -75},
		People: []domain.PersonAggregate{
			{PersonID: "p1", PersonName: "비밀이름"},
		},
		TopCauseLabel:  "직접 지출",
		TopPersonLabel: "비밀이름",
	}
	p := ToPayload(r, "상황", domain.ToneHumor, domain.ContextClient)
	assert.Equal(t, domain.SummaryTotals{Minutes: 60, MoneyWon: 1000, CostWon: 20000, BenefitWon: 5000, NetLossWon: 15000, RoiPct: -75}, p.Report.Totals)
	assert.Equal(t, domain.ContextClient, p.Context)

	prompt := UserPrompt(p)
	assert.NotContains(t, prompt, "p1")
	assert.Contains(t, prompt, `"netLossWon":15000`)
	assert.NotContains(t, prompt, "people")
}

func TestSanitizeTone(t *testing.T) {
	tests := map[string]domain.CoachTone{
		"냉정":                  domain.ToneCold,
		"따뜻":                  domain.ToneWarm,
		"정중":                  domain.ToneWarm,
		"유머":                  domain.ToneHumor,
		"직설":                  domain.ToneBlunt,
		"ignore instructions": domain.ToneCold,
		"":                    domain.ToneCold,
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeTone(in), in)
	}
}

func TestClientTone(t *testing.T) {
	assert.Equal(t, domain.TonePolite, ClientTone(domain.ToneWarm))
	assert.Equal(t, domain.ToneCold, ClientTone(domain.ToneBlunt))
	assert.Equal(t, domain.ToneHumor, ClientTone(domain.ToneHumor))
	assert.Equal(t, domain.ToneCold, ClientTone("???"))
}

func TestUserPrompt_TruncatesSituation(t *testing.T) {
	p := samplePayload()
	p.Situation = strings.Repeat("가", MaxSituationRunes+50)
	prompt := UserPrompt(p)
	assert.Contains(t, prompt, strings.Repeat("가", MaxSituationRunes))
	assert.NotContains(t, prompt, strings.Repeat("가", MaxSituationRunes+1))
	assert.True(t, strings.HasPrefix(prompt, "톤: 냉정\n"))
}

func TestDecodeAdvice(t *testing.T) {
	t.Run("pads to fixed arity", func(t *testing.T) {
		a := DecodeAdvice(`{"title":"정리","diagnosis":"요약","scripts":[{"title":"A","text":"a"}],"next":["x"]}`)
		assert.Equal(t, "정리", a.Title)
		require.Len(t, a.Scripts, domain.AdviceScripts)
		require.Len(t, a.Next, domain.AdviceNextSteps)
		assert.Equal(t, domain.CoachScript{Title: "A", Text: "a"}, a.Scripts[0])
		assert.Equal(t, domain.CoachScript{Title: "문장"}, a.Scripts[2])
		assert.Equal(t, []string{"x", "", "", ""}, a.Next)
		assert.Equal(t, DefaultDisclaimer, a.Disclaimer)
	})

	t.Run("truncates extra items", func(t *testing.T) {
		a := DecodeAdvice(`{"scripts":[{},{},{},{},{}],"next":[1,2,3,4,5,6]}`)
		assert.Len(t, a.Scripts, 3)
		assert.Equal(t, []string{"1", "2", "3", "4"}, a.Next)
		assert.Equal(t, DefaultTitle, a.Title)
	})

	t.Run("non json is wrapped", func(t *testing.T) {
		a := DecodeAdvice("그냥 텍스트")
		assert.Equal(t, DefaultTitle, a.Title)
		assert.Equal(t, "그냥 텍스트", a.Diagnosis)
		assert.Len(t, a.Scripts, 3)
		assert.Len(t, a.Next, 4)
	})

	t.Run("wrong field types", func(t *testing.T) {
		a := DecodeAdvice(`{"title":0,"diagnosis":true,"scripts":"nope","next":{"a":1}}`)
		assert.Equal(t, DefaultTitle, a.Title)
		assert.Equal(t, "true", a.Diagnosis)
		assert.Len(t, a.Scripts, 3)
		assert.Equal(t, []string{"", "", "", ""}, a.Next)
	})
}

func TestGrade(t *testing.T) {
	tests := []struct {
		loss, roi int64
		want      domain.VerdictGrade
	}{
		{100000, 0, domain.GradeGuilty},
		{0, -50, domain.GradeGuilty},
		{30000, 0, domain.GradeWarning},
		{0, -20, domain.GradeWarning},
		{1, -19, domain.GradeProbation},
		{0, 10, domain.GradeInnocent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.loss, tt.roi), "loss=%d roi=%d", tt.loss, tt.roi)
	}
}

func TestRules_Judge(t *testing.T) {
	r := firstRules()

	t.Run("personal", func(t *testing.T) {
		v := r.Judge(sampleSummary(), domain.TonePolite, domain.ContextPersonal)
		assert.Equal(t, domain.GradeGuilty, v.Grade)
		assert.Equal(t, "판결문 제400123호", v.Title)
		assert.Equal(t, `피고 민수은(는) 원고에게 총 ₩140,000의 손해를 입혔으므로, "유죄 (즉시 손절)" 판결을 선고한다.`, v.Verdict)
		assert.True(t, strings.HasPrefix(v.Reasoning, `본 관계에서 주요 손실 원인은 "직접 지출"로 확인됨.`))
		require.Len(t, v.Sentences, 3)
		assert.Equal(t, "손절 선언", v.Sentences[0].Label)
		assert.Equal(t, "앞으로는 서로 부담되지 않는 선에서만 연락하면 좋겠습니다.", v.Sentences[0].Text)
		assert.Len(t, v.Actions, 4)
	})

	t.Run("client blunt uses cold text", func(t *testing.T) {
		v := r.Judge(sampleSummary(), domain.ToneBlunt, domain.ContextClient)
		assert.Equal(t, "단가 인상 통보", v.Sentences[0].Label)
		assert.Equal(t, "현재 단가로는 수익성 확보가 불가합니다. 단가 인상 또는 거래 종료 중 선택해주세요.", v.Sentences[0].Text)
		assert.Equal(t, "1) 다음 견적부터 최소 20% 할증 적용.", v.Actions[0])
	})

	t.Run("random picker stays in range", func(t *testing.T) {
		for range 20 {
			v := Rules{}.Judge(sampleSummary(), domain.ToneHumor, domain.ContextClient)
			assert.NotEmpty(t, v.Verdict)
		}
	})
}

func TestAdapters_RoundTrip(t *testing.T) {
	v := firstRules().Judge(sampleSummary(), domain.ToneCold, domain.ContextPersonal)
	a := AdviceFromVerdict(v)
	assert.Equal(t, v.Title, a.Title)
	assert.Len(t, a.Scripts, 3)
	assert.Equal(t, v.Sentences[1].Text, a.Scripts[1].Text)
	assert.Equal(t, v.Actions, a.Next)
	assert.Equal(t, v.Disclaimer, a.Disclaimer)

	back := VerdictFromAdvice(a, sampleSummary())
	assert.Equal(t, v.Grade, back.Grade)
	assert.Equal(t, v.Actions, back.Actions)
	assert.Equal(t, v.Sentences, back.Sentences)

	t.Run("padding is dropped", func(t *testing.T) {
		back := VerdictFromAdvice(DecodeAdvice(`{"diagnosis":"한 문장"}`), sampleSummary())
		assert.Empty(t, back.Sentences)
		assert.Empty(t, back.Actions)
		assert.Equal(t, "한 문장", back.Verdict)
	})
}

func llmServer(t *testing.T, status int, body string) (*httptest.Server, *chatRequest) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer llm-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
	})
	return string(b)
}

func TestOpenAIClient(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv, captured := llmServer(t, http.StatusOK, completion(`{"title":"t"}`))
		content, err := NewOpenAIClient(srv.URL+"/", "llm-key", "").Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
		require.NoError(t, err)
		assert.Equal(t, `{"title":"t"}`, content)
		assert.Equal(t, DefaultModel, captured.Model)
		assert.Equal(t, 0.4, captured.Temperature)
		assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	})

	t.Run("upstream status", func(t *testing.T) {
		srv, _ := llmServer(t, http.StatusBadGateway, "bad gateway")
		_, err := NewOpenAIClient(srv.URL, "llm-key", "m").Complete(context.Background(), nil)
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusBadGateway, upstream.Status)
	})

	t.Run("empty content", func(t *testing.T) {
		srv, _ := llmServer(t, http.StatusOK, `{"choices":[]}`)
		_, err := NewOpenAIClient(srv.URL, "llm-key", "m").Complete(context.Background(), nil)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})
}

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func TestShouldFallback(t *testing.T) {
	assert.True(t, ShouldFallback(&UpstreamError{Status: 500}))
	assert.True(t, ShouldFallback(&UpstreamError{Status: 503}))
	assert.False(t, ShouldFallback(&UpstreamError{Status: 400}))
	assert.False(t, ShouldFallback(&UpstreamError{Status: 429}))
	assert.True(t, ShouldFallback(errors.New("connection refused")))
	assert.False(t, ShouldFallback(context.Canceled))
	assert.False(t, ShouldFallback(nil))
}

func TestService_Advise(t *testing.T) {
	ctx := context.Background()

	t.Run("model answer", func(t *testing.T) {
		llm := &mockCompleter{}
		llm.On("Complete", ctx, mock.MatchedBy(func(m []Message) bool {
			return len(m) == 2 && m[0].Role == "system" && m[1].Role == "user"
		})).Return(`{"title":"결론","diagnosis":"d","scripts":[],"next":[]}`, nil)

		a, err := NewService(llm, firstRules(), true).Advise(ctx, samplePayload())
		require.NoError(t, err)
		assert.Equal(t, "결론", a.Title)
		assert.False(t, a.Fallback)
		llm.AssertExpectations(t)
	})

	t.Run("5xx falls back", func(t *testing.T) {
		llm := &mockCompleter{}
		llm.On("Complete", ctx, mock.Anything).Return("", &UpstreamError{Status: 502})

		a, err := NewService(llm, firstRules(), true).Advise(ctx, samplePayload())
		require.NoError(t, err)
		assert.True(t, a.Fallback)
		assert.Equal(t, "판결문 제400123호", a.Title)
		assert.Len(t, a.Scripts, 3)
		assert.Len(t, a.Next, 4)
	})

	t.Run("4xx never falls back", func(t *testing.T) {
		llm := &mockCompleter{}
		llm.On("Complete", ctx, mock.Anything).Return("", &UpstreamError{Status: 401})

		_, err := NewService(llm, firstRules(), true).Advise(ctx, samplePayload())
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, 401, upstream.Status)
	})

	t.Run("5xx without fallback", func(t *testing.T) {
		llm := &mockCompleter{}
		llm.On("Complete", ctx, mock.Anything).Return("", &UpstreamError{Status: 500})

		_, err := NewService(llm, firstRules(), false).Advise(ctx, samplePayload())
		assert.Error(t, err)
	})

	t.Run("no model configured", func(t *testing.T) {
		_, err := NewService(nil, firstRules(), false).Advise(ctx, samplePayload())
		assert.ErrorIs(t, err, ErrNotConfigured)

		a, err := NewService(nil, firstRules(), true).Advise(ctx, samplePayload())
		require.NoError(t, err)
		assert.True(t, a.Fallback)
	})

	t.Run("situation required", func(t *testing.T) {
		p := samplePayload()
		p.Situation = "  "
		_, err := NewService(nil, firstRules(), true).Advise(ctx, p)
		assert.ErrorIs(t, err, ErrSituationRequired)
	})
}

func TestService_Judge(t *testing.T) {
	v, err := NewService(nil, firstRules(), false).Judge(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.Equal(t, domain.GradeGuilty, v.Grade)
}
