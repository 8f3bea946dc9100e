package coach

import (
	"context"
	"errors"
	"strings"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/rs/zerolog"
)

var (
	ErrSituationRequired = errors.New("situation required")
	ErrNotConfigured     = errors.New("coach model is not configured")
)

type Service interface {
	// Advise asks the model. With fallback enabled, a 5xx or transport failure is answered
	// by the local rules instead.
	Advise(ctx context.Context, p domain.CoachPayload) (domain.CoachAdvice, error)
	// Judge runs the local rules only.
	Judge(ctx context.Context, p domain.CoachPayload) (domain.CoachVerdict, error)
}

type service struct {
	llm      Completer
	rules    Rules
	fallback bool
}

func NewService(llm Completer, rules Rules, fallback bool) Service {
	return &service{llm: llm, rules: rules, fallback: fallback}
}

// ShouldFallback reports whether err is an upstream failure the local rules may answer.
// Client errors (4xx) never fall back.
func ShouldFallback(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrEmptyContent) {
		return false
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Status >= 500
	}
	return true
}

func (s *service) Advise(ctx context.Context, p domain.CoachPayload) (domain.CoachAdvice, error) {
	if strings.TrimSpace(p.Situation) == "" {
		return domain.CoachAdvice{}, ErrSituationRequired
	}
	logger := zerolog.Ctx(ctx)

	if s.llm == nil {
		if !s.fallback {
			return domain.CoachAdvice{}, ErrNotConfigured
		}
		return s.local(p), nil
	}

	content, err := s.llm.Complete(ctx, []Message{
		{Role: "system", Content: SystemPrompt()},
		{Role: "user", Content: UserPrompt(p)},
	})
	if err != nil {
		if s.fallback && ShouldFallback(err) {
			logger.Warn().Err(err).Msg("llm unavailable, answering with local rules")
			return s.local(p), nil
		}
		logger.Error().Err(err).Msg("llm call failed")
		return domain.CoachAdvice{}, err
	}
	return DecodeAdvice(content), nil
}

func (s *service) local(p domain.CoachPayload) domain.CoachAdvice {
	advice := AdviceFromVerdict(s.rules.Judge(p.Report, ClientTone(p.Tone), p.Context))
	advice.Fallback = true
	return advice
}

func (s *service) Judge(_ context.Context, p domain.CoachPayload) (domain.CoachVerdict, error) {
	if strings.TrimSpace(p.Situation) == "" {
		return domain.CoachVerdict{}, ErrSituationRequired
	}
	return s.rules.Judge(p.Report, p.Tone, p.Context), nil
}
