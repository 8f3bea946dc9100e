package billing

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/de-tools/relationship-roi/pkg/handlers"
	"github.com/de-tools/relationship-roi/pkg/models/api"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/billing"
	"github.com/rs/zerolog"
)

const (
	msgNotConfigured = "결제 시스템 설정 오류"
	msgNotPaid       = "결제가 완료되지 않았습니다"
	msgUnknown       = "알 수 없는 상품입니다"
	msgMismatch      = "결제 금액이 일치하지 않습니다"
	msgVerifyFailed  = "결제 검증 중 오류가 발생했습니다"
)

type Unlocker interface {
	Unlock(code string) (string, time.Time, error)
}

type PaymentVerifier interface {
	Configured() bool
	Verify(ctx context.Context, paymentID string) (domain.IssuedEntitlement, error)
}

type Handler struct {
	unlocker Unlocker
	verifier PaymentVerifier
}

func NewHandler(unlocker Unlocker, verifier PaymentVerifier) *Handler {
	return &Handler{unlocker: unlocker, verifier: verifier}
}

func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req api.UnlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	raw, _, err := h.unlocker.Unlock(req.Code)
	switch {
	case errors.Is(err, billing.ErrCodeRequired):
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, billing.ErrUnlockDisabled), errors.Is(err, billing.ErrInvalidCode):
		handlers.WriteError(w, r, http.StatusForbidden, err.Error())
	case err != nil:
		logger.Error().Err(err).Msg("failed to issue unlock token")
		handlers.WriteError(w, r, http.StatusInternalServerError, handlers.GenericError)
	default:
		handlers.WriteJSON(w, r, http.StatusOK, api.UnlockResponse{Token: raw})
	}
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if h.verifier == nil || !h.verifier.Configured() {
		logger.Error().Msg("payment verification requested but PORTONE_API_SECRET is not configured")
		handlers.WriteError(w, r, http.StatusInternalServerError, msgNotConfigured)
		return
	}

	var req api.VerifyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	issued, err := h.verifier.Verify(r.Context(), req.PaymentID)
	if err != nil {
		h.writeVerifyError(w, r, err)
		return
	}

	resp := api.VerifyResponse{
		Token:     issued.Token,
		Plan:      string(issued.Plan),
		ProductID: string(issued.ProductID),
		Cached:    issued.Cached,
	}
	if !issued.ExpiresAt.IsZero() {
		exp := issued.ExpiresAt.UTC()
		resp.ExpiresAt = &exp
	}
	handlers.WriteJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) writeVerifyError(w http.ResponseWriter, r *http.Request, err error) {
	var notPaid *billing.NotPaidError
	switch {
	case errors.Is(err, billing.ErrPaymentIDRequired):
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &notPaid):
		handlers.WriteJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Error: msgNotPaid, Status: notPaid.Status})
	case errors.Is(err, billing.ErrUnknownProduct):
		handlers.WriteError(w, r, http.StatusBadRequest, msgUnknown)
	case errors.Is(err, billing.ErrAmountMismatch):
		handlers.WriteError(w, r, http.StatusBadRequest, msgMismatch)
	case errors.Is(err, billing.ErrNotConfigured):
		handlers.WriteError(w, r, http.StatusInternalServerError, msgNotConfigured)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("payment verification failed")
		handlers.WriteError(w, r, http.StatusInternalServerError, msgVerifyFailed)
	}
}
