package api

import "time"

type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status,omitempty"`
}

type UnlockRequest struct {
	Code string `json:"code"`
}

type UnlockResponse struct {
	Token string `json:"token"`
}

type VerifyRequest struct {
	PaymentID string `json:"paymentId"`
}

type VerifyResponse struct {
	Token     string     `json:"token"`
	Plan      string     `json:"plan,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	ProductID string     `json:"productId,omitempty"`
	Cached    bool       `json:"cached,omitempty"`
}
