package share

import (
	"context"
	"net/http"

	"github.com/de-tools/relationship-roi/pkg/adapters"
	"github.com/de-tools/relationship-roi/pkg/handlers"
	"github.com/de-tools/relationship-roi/pkg/models/api"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/privacy"
	"github.com/rs/zerolog"
)

// LedgerReader supplies the names to anonymize.
type LedgerReader interface {
	Get(ctx context.Context, profile string) (domain.Ledger, error)
}

type Handler struct {
	ledgers LedgerReader
}

// NewHandler accepts a nil reader; masking then never anonymizes names.
func NewHandler(ledgers LedgerReader) *Handler {
	return &Handler{ledgers: ledgers}
}

func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var req api.ShareScanRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	report := privacy.BuildShareSafetyReport(req.Texts)
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapDomainShareReportToAPI(report))
}

func (h *Handler) Mask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.MaskRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	text := privacy.Mask(req.Text)
	if h.ledgers != nil {
		l, err := h.ledgers.Get(ctx, handlers.Profile(r))
		if err != nil {
			logger.Error().Err(err).Msg("failed to load ledger for anonymization")
			handlers.WriteError(w, r, http.StatusInternalServerError, handlers.GenericError)
			return
		}
		anonymize := l.Settings.AnonymizeOnShare
		if req.Anonymize != nil {
			anonymize = *req.Anonymize
		}
		if anonymize {
			text = aliasesFor(l).Text(text)
		}
	}
	handlers.WriteJSON(w, r, http.StatusOK, api.MaskResponse{Text: text})
}

func aliasesFor(l domain.Ledger) privacy.AliasMap {
	names := make([]string, 0, len(l.People))
	for _, p := range l.People {
		names = append(names, p.Name)
	}
	return privacy.BuildAliasMap(names)
}
