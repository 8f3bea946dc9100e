package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/token"
	"github.com/de-tools/relationship-roi/pkg/store/kv"
	"github.com/rs/zerolog"
)

const paidStatus = "PAID"

var (
	ErrNotConfigured       = errors.New("payment verification is not configured")
	ErrPaymentIDRequired   = errors.New("paymentId required")
	ErrUnknownProduct      = errors.New("unknown product")
	ErrAmountMismatch      = errors.New("paid amount does not match the product price")
	ErrPaymentLookupFailed = errors.New("payment lookup failed")
)

// NotPaidError carries the provider status of a payment that is not complete.
type NotPaidError struct {
	Status string
}

func (e *NotPaidError) Error() string {
	return fmt.Sprintf("payment is not paid (status %s)", e.Status)
}

type issuedRecord struct {
	Token     string    `json:"token"`
	Plan      string    `json:"plan"`
	ExpiresAt time.Time `json:"expiresAt"`
	ProductID string    `json:"productId"`
}

type tokenRecord struct {
	PaymentID string    `json:"paymentId"`
	ProductID string    `json:"productId"`
	Amount    int64     `json:"amount"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// Verifier checks a payment with the provider and issues a signed token once per payment.
// Without a KV store every call issues a fresh token.
type Verifier struct {
	Payments PaymentClient
	Codec    *token.SignedCodec
	Prefix   string
	KV       kv.Store
	Now      func() time.Time
}

func (v *Verifier) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

// Configured reports whether a payment provider and a signing codec are set.
func (v *Verifier) Configured() bool {
	return v.Payments != nil && v.Codec != nil
}

func (v *Verifier) Verify(ctx context.Context, paymentID string) (domain.IssuedEntitlement, error) {
	if !v.Configured() {
		return domain.IssuedEntitlement{}, ErrNotConfigured
	}
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return domain.IssuedEntitlement{}, ErrPaymentIDRequired
	}
	logger := zerolog.Ctx(ctx).With().Str("payment_id", paymentID).Logger()

	payment, err := v.Payments.GetPayment(ctx, paymentID)
	if err != nil {
		logger.Error().Err(err).Msg("payment lookup failed")
		return domain.IssuedEntitlement{}, fmt.Errorf("%w: %w", ErrPaymentLookupFailed, err)
	}
	if payment.Status != paidStatus {
		return domain.IssuedEntitlement{}, &NotPaidError{Status: payment.Status}
	}

	product, ok := ProductFor(payment.ProductID)
	if !ok {
		logger.Error().Str("product_id", payment.ProductID).Msg("unknown product")
		return domain.IssuedEntitlement{}, ErrUnknownProduct
	}
	if payment.AmountWon != product.AmountWon {
		logger.Error().Int64("expected", product.AmountWon).Int64("paid", payment.AmountWon).Msg("amount mismatch")
		return domain.IssuedEntitlement{}, ErrAmountMismatch
	}

	if cached, ok, err := v.lookup(ctx, paymentID); err != nil {
		return domain.IssuedEntitlement{}, err
	} else if ok {
		return cached, nil
	}

	raw, expiresAt, err := v.Codec.Issue(v.Prefix, product.ExpiryDays)
	if err != nil {
		return domain.IssuedEntitlement{}, fmt.Errorf("failed to issue token: %w", err)
	}
	issued := domain.IssuedEntitlement{
		Token:     raw,
		Plan:      product.Plan,
		ExpiresAt: expiresAt,
		ProductID: product.ID,
	}

	if err := v.remember(ctx, paymentID, issued, payment.AmountWon, product.ExpiryDays); err != nil {
		return domain.IssuedEntitlement{}, err
	}

	prefix := raw
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	logger.Info().Str("product_id", string(product.ID)).Str("token_prefix", prefix).Msg("token issued")
	return issued, nil
}

func (v *Verifier) lookup(ctx context.Context, paymentID string) (domain.IssuedEntitlement, bool, error) {
	if v.KV == nil {
		return domain.IssuedEntitlement{}, false, nil
	}
	value, ok, err := v.KV.Get(ctx, "payment:"+paymentID)
	if err != nil {
		return domain.IssuedEntitlement{}, false, fmt.Errorf("failed to read issued token: %w", err)
	}
	if !ok {
		return domain.IssuedEntitlement{}, false, nil
	}

	var record issuedRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		// older entries hold the bare token
		record = issuedRecord{Token: value}
	}
	return domain.IssuedEntitlement{
		Token:     record.Token,
		Plan:      domain.Plan(record.Plan),
		ExpiresAt: record.ExpiresAt,
		ProductID: domain.ProductID(record.ProductID),
		Cached:    true,
	}, true, nil
}

func (v *Verifier) remember(ctx context.Context, paymentID string, issued domain.IssuedEntitlement, amount int64, days int) error {
	if v.KV == nil {
		return nil
	}
	ttl := time.Duration(days+1) * 24 * time.Hour

	issuedJSON, err := json.Marshal(issuedRecord{
		Token:     issued.Token,
		Plan:      string(issued.Plan),
		ExpiresAt: issued.ExpiresAt,
		ProductID: string(issued.ProductID),
	})
	if err != nil {
		return err
	}
	if err := v.KV.Put(ctx, "payment:"+paymentID, string(issuedJSON), ttl); err != nil {
		return fmt.Errorf("failed to store issued token: %w", err)
	}

	tokenJSON, err := json.Marshal(tokenRecord{
		PaymentID: paymentID,
		ProductID: string(issued.ProductID),
		Amount:    amount,
		IssuedAt:  v.now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := v.KV.Put(ctx, "token:"+issued.Token, string(tokenJSON), ttl); err != nil {
		return fmt.Errorf("failed to store token record: %w", err)
	}
	return nil
}
