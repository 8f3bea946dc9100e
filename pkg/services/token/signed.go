package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

const signatureLength = 12

var ErrNoSecret = errors.New("token secret is not configured")

// SignedCodec issues and verifies the HMAC-signed generation.
type SignedCodec struct {
	Secret []byte
	Now    func() time.Time
}

func NewSignedCodec(secret string) *SignedCodec {
	return &SignedCodec{Secret: []byte(secret), Now: time.Now}
}

func (c *SignedCodec) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *SignedCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.Secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))[:signatureLength]
}

// Issue returns a new token and its expiry.
func (c *SignedCodec) Issue(prefix string, days int) (string, time.Time, error) {
	if len(c.Secret) == 0 {
		return "", time.Time{}, ErrNoSecret
	}
	payload, expiresAt := unsignedPayload(prefix, c.now(), days)
	return payload + separator + c.sign(payload), expiresAt, nil
}

// Verify reports whether raw is a signed token with a valid signature that has not expired.
func (c *SignedCodec) Verify(raw string) bool {
	if len(c.Secret) == 0 {
		return false
	}
	if strings.Count(raw, separator) != signedSegments-1 {
		return false
	}
	t, err := Parse(raw)
	if err != nil || t.Generation != Signed {
		return false
	}
	if !constantTimeEqual(c.sign(t.Payload()), t.Signature) {
		return false
	}
	return !expired(t, c.now())
}

// constantTimeEqual compares every byte regardless of where the first difference is.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var acc byte
	for i := range len(a) {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}
