package token

import (
	"errors"
	"slices"
)

var (
	ErrMissing = errors.New("token required")
	ErrInvalid = errors.New("token invalid or expired")
)

// Authorizer decides whether a bearer token grants paid access. Signed tokens are always
// checked first. The legacy generation and the static allow-list are only consulted when
// AcceptLegacy is set.
type Authorizer struct {
	Signed       *SignedCodec
	Legacy       *LegacyCodec
	AcceptLegacy bool
	StaticTokens []string
}

func (a *Authorizer) Authorize(raw string) error {
	if raw == "" {
		return ErrMissing
	}
	if a.Signed != nil && a.Signed.Verify(raw) {
		return nil
	}
	if !a.AcceptLegacy || a.Legacy == nil {
		return ErrInvalid
	}
	if len(a.StaticTokens) > 0 && !slices.Contains(a.StaticTokens, raw) {
		return ErrInvalid
	}
	if a.Legacy.Verify(raw) {
		return nil
	}
	return ErrInvalid
}

// Inspection describes a token for diagnostics.
type Inspection struct {
	Token     Token
	Valid     bool
	ExpiresAt string
}

// Inspect parses raw and reports whether the authorizer would accept it.
func (a *Authorizer) Inspect(raw string) (Inspection, error) {
	t, err := Parse(raw)
	if err != nil {
		return Inspection{}, err
	}
	in := Inspection{Token: t, Valid: a.Authorize(raw) == nil}
	if exp, ok := t.ExpiresAt(); ok {
		in.ExpiresAt = exp.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	return in, nil
}
