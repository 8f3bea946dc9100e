package billing

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/relationship-roi/pkg/services/token"
)

var (
	ErrCodeRequired   = errors.New("code required")
	ErrUnlockDisabled = errors.New("unlock disabled")
	ErrInvalidCode    = errors.New("invalid code")
)

// ParseCodes splits a comma separated allow-list, dropping blanks.
func ParseCodes(csv string) []string {
	var codes []string
	for _, c := range strings.Split(csv, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

type Unlocker struct {
	Codes  []string
	Codec  *token.SignedCodec
	Prefix string
}

// Unlock exchanges an allow-listed code for a 30 day token.
func (u *Unlocker) Unlock(code string) (string, time.Time, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", time.Time{}, ErrCodeRequired
	}
	if len(u.Codes) == 0 {
		return "", time.Time{}, ErrUnlockDisabled
	}
	if !slices.Contains(u.Codes, code) {
		return "", time.Time{}, ErrInvalidCode
	}
	return u.Codec.Issue(u.Prefix, token.DefaultDays)
}
