package token

import "time"

// LegacyCodec handles the unsigned four segment generation. Unversioned tokens predate
// the expiry segment and are accepted only when AllowUnversioned is set.
type LegacyCodec struct {
	AllowUnversioned bool
	Now              func() time.Time
}

func (c *LegacyCodec) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Issue returns an unsigned token. Kept for tooling that still needs to mint them.
func (c *LegacyCodec) Issue(prefix string, days int) (string, time.Time) {
	return unsignedPayload(prefix, c.now(), days)
}

func (c *LegacyCodec) Verify(raw string) bool {
	t, err := Parse(raw)
	if err != nil {
		return false
	}
	switch t.Generation {
	case Legacy:
		return !expired(t, c.now())
	case Unversioned:
		return c.AllowUnversioned
	default:
		return false
	}
}
