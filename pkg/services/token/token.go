// Package token issues and verifies self-describing entitlement tokens.
//
// Two generations coexist and are discriminated by segment count:
//
//	{prefix}_{ts36}_{nonce}_{expiry36}_{sig12}   signed
//	{prefix}_{ts36}_{nonce}_{expiry36}           legacy, unsigned
//
// Anything shorter is an unversioned token from before expiry was encoded.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	separator      = "_"
	signedSegments = 5
	legacySegments = 4
	nonceLength    = 16
	DefaultPrefix  = "pro"
	DefaultDays    = 30
)

var ErrTooManySegments = errors.New("token has too many segments")

type Generation int

const (
	Unversioned Generation = iota
	Legacy
	Signed
)

func (g Generation) String() string {
	switch g {
	case Signed:
		return "signed"
	case Legacy:
		return "legacy"
	default:
		return "unversioned"
	}
}

// Token is a parsed token. Fields beyond Raw are empty for unversioned tokens.
type Token struct {
	Raw        string
	Generation Generation
	Prefix     string
	IssuedAt   string
	Nonce      string
	Expiry     string
	Signature  string
}

// Payload is the signed portion of the token.
func (t Token) Payload() string {
	return strings.Join([]string{t.Prefix, t.IssuedAt, t.Nonce, t.Expiry}, separator)
}

// ExpiresAt decodes the base-36 expiry. ok is false when the segment is not a number.
func (t Token) ExpiresAt() (time.Time, bool) {
	ms, err := strconv.ParseInt(t.Expiry, 36, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// Parse splits raw into its generation. It only fails when the token has more segments
// than any known generation.
func Parse(raw string) (Token, error) {
	parts := strings.Split(raw, separator)
	switch {
	case len(parts) > signedSegments:
		return Token{}, fmt.Errorf("%w: %d", ErrTooManySegments, len(parts))
	case len(parts) == signedSegments:
		return Token{
			Raw: raw, Generation: Signed,
			Prefix: parts[0], IssuedAt: parts[1], Nonce: parts[2], Expiry: parts[3], Signature: parts[4],
		}, nil
	case len(parts) == legacySegments:
		return Token{
			Raw: raw, Generation: Legacy,
			Prefix: parts[0], IssuedAt: parts[1], Nonce: parts[2], Expiry: parts[3],
		}, nil
	default:
		return Token{Raw: raw, Generation: Unversioned}, nil
	}
}

func expired(t Token, now time.Time) bool {
	exp, ok := t.ExpiresAt()
	if !ok {
		return true
	}
	return now.UnixMilli() > exp.UnixMilli()
}

func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:nonceLength]
}

func base36(ms int64) string {
	return strconv.FormatInt(ms, 36)
}

func unsignedPayload(prefix string, now time.Time, days int) (string, time.Time) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	expiresAt := now.Add(time.Duration(days) * 24 * time.Hour)
	payload := strings.Join([]string{
		prefix,
		base36(now.UnixMilli()),
		newNonce(),
		base36(expiresAt.UnixMilli()),
	}, separator)
	return payload, expiresAt
}
