package coach

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/relationship-roi/pkg/adapters"
	"github.com/de-tools/relationship-roi/pkg/handlers"
	"github.com/de-tools/relationship-roi/pkg/models/api"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/server/middleware"
	"github.com/de-tools/relationship-roi/pkg/services/coach"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/de-tools/relationship-roi/pkg/services/ratelimit"
	"github.com/de-tools/relationship-roi/pkg/services/report"
	"github.com/de-tools/relationship-roi/pkg/services/token"
	"github.com/rs/zerolog"
)

const (
	msgTokenRequired = "PRO token required"
	msgTokenExpired  = "토큰이 만료되었습니다. PRO를 갱신해주세요."
	msgRateLimited   = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."
	msgDailyLimit    = "오늘의 무료 코치 횟수를 모두 사용했습니다."
	retryAfter       = "60"
)

type Authorizer interface {
	Authorize(raw string) error
}

type RateLimiter interface {
	Allow(ctx context.Context, ip, token string) (ratelimit.Result, error)
}

type Options struct {
	Coach coach.Service
	// Auth is nil when the endpoint does not require a token.
	Auth    Authorizer
	Limiter RateLimiter
	Ledgers ledger.Service
	Now     func() time.Time
}

type Handler struct {
	opts Options
}

func NewHandler(opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{opts: opts}
}

// Advise serves the paid model-backed coach.
func (h *Handler) Advise(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	raw := handlers.BearerToken(r)

	if h.opts.Auth != nil {
		if err := h.opts.Auth.Authorize(raw); err != nil {
			msg := msgTokenExpired
			if errors.Is(err, token.ErrMissing) {
				msg = msgTokenRequired
			}
			handlers.WriteError(w, r, http.StatusUnauthorized, msg)
			return
		}
	}

	remaining := ratelimit.DefaultLimit
	if h.opts.Limiter != nil {
		res, err := h.opts.Limiter.Allow(ctx, middleware.ClientIP(r), raw)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		case !res.Allowed:
			w.Header().Set("Retry-After", retryAfter)
			handlers.WriteError(w, r, http.StatusTooManyRequests, msgRateLimited)
			return
		default:
			remaining = res.Remaining
		}
	}

	var req api.CoachRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	situation := strings.TrimSpace(req.Situation)
	if situation == "" {
		handlers.WriteError(w, r, http.StatusBadRequest, coach.ErrSituationRequired.Error())
		return
	}

	payload := domain.CoachPayload{
		Tone:      coach.SanitizeTone(req.Tone),
		Situation: situation,
		Context:   coach.SanitizeContext(req.Context),
		Report:    adapters.MapAPICoachReportToDomain(req.Report),
	}
	advice, err := h.opts.Coach.Advise(ctx, payload)
	if err != nil {
		logger.Error().Err(err).Msg("coach failed")
		handlers.WriteError(w, r, http.StatusInternalServerError, handlers.GenericError)
		return
	}

	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapDomainAdviceToAPI(advice))
}

// Local serves the rule-based coach over the stored ledger. The free plan is limited per
// day.
func (h *Handler) Local(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	profile := handlers.Profile(r)

	var req api.LocalCoachRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	situation := strings.TrimSpace(req.Situation)
	if situation == "" {
		handlers.WriteError(w, r, http.StatusBadRequest, coach.ErrSituationRequired.Error())
		return
	}
	month := req.Month
	if month == "" {
		month = report.MonthLabel(h.opts.Now())
	}
	if err := ledger.ValidateMonth(month); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	l, err := h.opts.Ledgers.Dispatch(ctx, profile, ledger.CoachUsed{})
	if err != nil {
		if errors.Is(err, ledger.ErrLimitExceeded) {
			handlers.WriteError(w, r, http.StatusForbidden, msgDailyLimit)
			return
		}
		logger.Error().Err(err).Msg("failed to record coach usage")
		handlers.WriteError(w, r, http.StatusInternalServerError, handlers.GenericError)
		return
	}

	rep := report.Build(l, domain.ReportFilter{Month: month})
	tone := coach.ClientTone(domain.CoachTone(strings.TrimSpace(req.Tone)))
	verdict, err := h.opts.Coach.Judge(ctx, coach.ToPayload(rep, situation, tone, coach.SanitizeContext(req.Context)))
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if l.Plan == domain.PlanFree {
		left := ledger.CheckFreeCoach(l.CoachUsage, h.opts.Now().Format("2006-01-02")).Remaining
		w.Header().Set("X-Coach-Remaining", strconv.Itoa(left))
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapDomainVerdictToAPI(verdict))
}
