package ledger

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/relationship-roi/pkg/adapters"
	"github.com/de-tools/relationship-roi/pkg/handlers"
	"github.com/de-tools/relationship-roi/pkg/models/api"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/de-tools/relationship-roi/pkg/services/report"
	"github.com/de-tools/relationship-roi/pkg/services/token"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	ledgers ledger.Service
	auth    *token.Authorizer
	now     func() time.Time
}

func NewHandler(ledgers ledger.Service, auth *token.Authorizer) *Handler {
	return &Handler{ledgers: ledgers, auth: auth, now: time.Now}
}

func (h *Handler) respondLedger(w http.ResponseWriter, r *http.Request, status int, l domain.Ledger) {
	out := adapters.MapDomainLedgerToAPI(l)
	limits := ledger.LimitsFor(l.Plan)
	out.Limits = api.Limits{
		MaxPeople:       limits.MaxPeople,
		MaxEntries:      limits.MaxEntries,
		AICoachPerMonth: limits.AICoachPerMonth,
	}
	handlers.WriteJSON(w, r, status, out)
}

// writeError maps ledger service errors to status codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ledger.ValidationError
	var le *ledger.LimitError
	switch {
	case errors.As(err, &ve):
		handlers.WriteError(w, r, http.StatusBadRequest, ve.Message)
	case errors.As(err, &le):
		handlers.WriteError(w, r, http.StatusForbidden, le.Error())
	case errors.Is(err, ledger.ErrNotFound):
		handlers.WriteError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidBackup):
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("ledger operation failed")
		handlers.WriteError(w, r, http.StatusInternalServerError, handlers.GenericError)
	}
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, status int, ev ledger.Event) {
	l, err := h.ledgers.Dispatch(r.Context(), handlers.Profile(r), ev)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondLedger(w, r, status, l)
}

func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	l, err := h.ledgers.Get(r.Context(), handlers.Profile(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondLedger(w, r, http.StatusOK, l)
}

// ResetLedger drops everything in the profile, including the plan.
func (h *Handler) ResetLedger(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, http.StatusOK, ledger.Reset{})
}

func (h *Handler) AddPerson(w http.ResponseWriter, r *http.Request) {
	var req api.PersonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.dispatch(w, r, http.StatusCreated, ledger.PersonAdd{Person: adapters.MapAPIPersonRequestToDomain(req)})
}

func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, http.StatusOK, ledger.PersonDelete{PersonID: chi.URLParam(r, "id")})
}

func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req api.EntryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.dispatch(w, r, http.StatusCreated, ledger.EntryAdd{Entry: adapters.MapAPIEntryRequestToDomain("", req)})
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req api.EntryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	entry := adapters.MapAPIEntryRequestToDomain(chi.URLParam(r, "id"), req)
	h.dispatch(w, r, http.StatusOK, ledger.EntryUpdate{Entry: entry})
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, http.StatusOK, ledger.EntryDelete{EntryID: chi.URLParam(r, "id")})
}

func (h *Handler) PatchSettings(w http.ResponseWriter, r *http.Request) {
	var req api.SettingsPatch
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.dispatch(w, r, http.StatusOK, ledger.SettingsPatch{
		HourlyRateWon:        req.HourlyRateWon,
		AnonymizeOnShare:     req.AnonymizeOnShare,
		OnboardingCompleted:  req.OnboardingCompleted,
		OnboardingVersion:    req.OnboardingVersion,
		ShareSafetyIntroSeen: req.ShareSafetyIntroSeen,
	})
}

// SetEntitlement stores a token the authorizer accepts and upgrades the plan to pro.
func (h *Handler) SetEntitlement(w http.ResponseWriter, r *http.Request) {
	var req api.EntitlementRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if h.auth == nil || h.auth.Authorize(req.Token) != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, token.ErrInvalid.Error())
		return
	}

	ev := ledger.TokenSet{Token: req.Token, Plan: domain.PlanPro}
	if t, err := token.Parse(req.Token); err == nil {
		if exp, ok := t.ExpiresAt(); ok {
			ev.ExpiresAt = &exp
		}
	}
	h.dispatch(w, r, http.StatusOK, ev)
}

func (h *Handler) ClearEntitlement(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, http.StatusOK, ledger.TokenUnset{})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseReportFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.ledgers.Get(r.Context(), handlers.Profile(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapDomainReportToAPI(report.Build(l, filter)))
}

// ParseReportFilter reads month, from, to, label, person and cause from the query.
func ParseReportFilter(r *http.Request) (domain.ReportFilter, error) {
	q := r.URL.Query()
	filter := domain.ReportFilter{
		Month:    q.Get("month"),
		PersonID: q.Get("person"),
		Cause:    domain.CauseKey(q.Get("cause")),
	}
	if filter.Month != "" {
		if err := ledger.ValidateMonth(filter.Month); err != nil {
			return domain.ReportFilter{}, err
		}
	}
	if filter.Cause != "" && !filter.Cause.Valid() {
		return domain.ReportFilter{}, &ledger.ValidationError{Field: "cause", Message: fmt.Sprintf("unknown cause %q", filter.Cause)}
	}

	from, to := q.Get("from"), q.Get("to")
	if from != "" || to != "" {
		for _, d := range []string{from, to} {
			if _, err := time.Parse("2006-01-02", d); err != nil {
				return domain.ReportFilter{}, &ledger.ValidationError{Field: "range", Message: "from and to must be YYYY-MM-DD"}
			}
		}
		filter.Range = &domain.ReportRange{Start: from, End: to, Label: q.Get("label")}
	}
	return filter, nil
}

func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	l, err := h.ledgers.Get(r.Context(), handlers.Profile(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapDomainInsightsToAPI(report.Insights(l, h.now())))
}

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	l, err := h.ledgers.Get(r.Context(), handlers.Profile(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	now := h.now()
	stamp := now.Format("20060102")

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		body, err := ledger.ExportJSON(l, now)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="relationship-roi-%s.json"`, stamp))
		_, _ = w.Write(body)
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="relationship-roi-%s.csv"`, stamp))
		_, _ = io.WriteString(w, ledger.ExportCSV(l))
	default:
		handlers.WriteError(w, r, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}
}

func (h *Handler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, handlers.MaxBodyBytes))
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, handlers.ErrInvalidJSON.Error())
		return
	}
	backup, err := ledger.ImportJSON(body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.dispatch(w, r, http.StatusOK, ledger.Restore{Backup: backup})
}
