// Package handlers holds the JSON helpers shared by the HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/de-tools/relationship-roi/pkg/models/api"
	"github.com/rs/zerolog"
)

const (
	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes = 1 << 20

	ProfileHeader  = "X-Ledger-Profile"
	DefaultProfile = "default"

	// GenericError is returned for upstream and configuration failures; details are logged only.
	GenericError = "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

var ErrInvalidJSON = errors.New("invalid json")

func WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	WriteJSON(w, r, status, api.ErrorResponse{Error: msg})
}

// DecodeJSON reads a JSON body into v. Any read or syntax failure is ErrInvalidJSON.
func DecodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		return ErrInvalidJSON
	}
	if err := json.Unmarshal(body, v); err != nil {
		return ErrInvalidJSON
	}
	return nil
}

// Profile returns the ledger profile named by the X-Ledger-Profile header.
func Profile(r *http.Request) string {
	if p := strings.TrimSpace(r.Header.Get(ProfileHeader)); p != "" {
		return p
	}
	return DefaultProfile
}

// BearerToken extracts the token of an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
