package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSignedCodec_RoundTrip(t *testing.T) {
	codec := NewSignedCodec("s")

	raw, expiresAt, err := codec.Issue("pro", 30)
	require.NoError(t, err)
	assert.True(t, codec.Verify(raw))
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), expiresAt, time.Minute)

	parts := strings.Split(raw, "_")
	require.Len(t, parts, 5)
	assert.Equal(t, "pro", parts[0])
	assert.Len(t, parts[2], 16)
	assert.Len(t, parts[4], 12)
}

func TestSignedCodec_MutatedSignatureFails(t *testing.T) {
	codec := NewSignedCodec("s")
	raw, _, err := codec.Issue("pro", 30)
	require.NoError(t, err)

	sigStart := strings.LastIndex(raw, "_") + 1
	for i := sigStart; i < len(raw); i++ {
		mutated := []byte(raw)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		assert.False(t, codec.Verify(string(mutated)), "position %d", i)
	}
}

func TestSignedCodec_WrongSecret(t *testing.T) {
	raw, _, err := NewSignedCodec("s").Issue("pro", 30)
	require.NoError(t, err)
	assert.False(t, NewSignedCodec("other").Verify(raw))
	assert.False(t, (&SignedCodec{}).Verify(raw))
}

func TestSignedCodec_SegmentCount(t *testing.T) {
	codec := NewSignedCodec("s")
	raw, _, err := codec.Issue("pro", 30)
	require.NoError(t, err)

	parts := strings.Split(raw, "_")
	assert.False(t, codec.Verify(strings.Join(parts[:4], "_")))
	assert.False(t, codec.Verify(strings.Join(parts[:3], "_")))
	assert.False(t, codec.Verify(raw+"_extra"))
	assert.False(t, codec.Verify(""))
}

func TestSignedCodec_Expiry(t *testing.T) {
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	codec := &SignedCodec{Secret: []byte("s"), Now: fixedClock(issued)}
	raw, expiresAt, err := codec.Issue("pro", 30)
	require.NoError(t, err)

	codec.Now = fixedClock(expiresAt)
	assert.True(t, codec.Verify(raw))

	codec.Now = fixedClock(expiresAt.Add(time.Millisecond))
	assert.False(t, codec.Verify(raw))
}

func TestSignedCodec_NonNumericExpiryIsExpired(t *testing.T) {
	codec := NewSignedCodec("s")
	payload := "pro_abc_0123456789abcdef_!!"
	raw := payload + "_" + codec.sign(payload)
	assert.False(t, codec.Verify(raw))
}

func TestSignedCodec_IssueWithoutSecret(t *testing.T) {
	_, _, err := (&SignedCodec{}).Issue("pro", 30)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw        string
		generation Generation
		wantErr    bool
	}{
		{raw: "pro_a_b_c_d", generation: Signed},
		{raw: "pro_a_b_c", generation: Legacy},
		{raw: "pro_a_b", generation: Unversioned},
		{raw: "abc", generation: Unversioned},
		{raw: "a_b_c_d_e_f", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			tok, err := Parse(tc.raw)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrTooManySegments)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.generation, tok.Generation)
		})
	}
}

func TestLegacyCodec(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	codec := &LegacyCodec{Now: fixedClock(now)}

	raw, expiresAt := codec.Issue("", 30)
	assert.True(t, strings.HasPrefix(raw, "pro_"))
	assert.Len(t, strings.Split(raw, "_"), 4)
	assert.True(t, codec.Verify(raw))

	codec.Now = fixedClock(expiresAt.Add(time.Second))
	assert.False(t, codec.Verify(raw))

	assert.False(t, codec.Verify("pro_x_y_notbase36!"))
	assert.False(t, codec.Verify("old-token"))
	codec.AllowUnversioned = true
	assert.True(t, codec.Verify("old-token"))
	assert.False(t, codec.Verify("pro_a_b_c_d"))
}

func TestAuthorizer(t *testing.T) {
	signed := NewSignedCodec("secret")
	signedTok, _, err := signed.Issue("pro", 30)
	require.NoError(t, err)
	legacyTok, _ := (&LegacyCodec{}).Issue("pro", 30)

	tests := []struct {
		name     string
		auth     *Authorizer
		raw      string
		expected error
	}{
		{name: "missing", auth: &Authorizer{Signed: signed}, raw: "", expected: ErrMissing},
		{name: "signed", auth: &Authorizer{Signed: signed}, raw: signedTok},
		{name: "legacy rejected by default", auth: &Authorizer{Signed: signed, Legacy: &LegacyCodec{}}, raw: legacyTok, expected: ErrInvalid},
		{name: "legacy accepted when enabled", auth: &Authorizer{Signed: signed, Legacy: &LegacyCodec{}, AcceptLegacy: true}, raw: legacyTok},
		{
			name:     "unversioned needs allow flag",
			auth:     &Authorizer{Signed: signed, Legacy: &LegacyCodec{}, AcceptLegacy: true},
			raw:      "vip",
			expected: ErrInvalid,
		},
		{
			name: "static list",
			auth: &Authorizer{Signed: signed, Legacy: &LegacyCodec{AllowUnversioned: true}, AcceptLegacy: true, StaticTokens: []string{"vip"}},
			raw:  "vip",
		},
		{
			name:     "static list excludes others",
			auth:     &Authorizer{Signed: signed, Legacy: &LegacyCodec{AllowUnversioned: true}, AcceptLegacy: true, StaticTokens: []string{"vip"}},
			raw:      legacyTok,
			expected: ErrInvalid,
		},
		{
			name: "signed bypasses static list",
			auth: &Authorizer{Signed: signed, Legacy: &LegacyCodec{}, AcceptLegacy: true, StaticTokens: []string{"vip"}},
			raw:  signedTok,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.auth.Authorize(tc.raw)
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func TestAuthorizer_Inspect(t *testing.T) {
	signed := NewSignedCodec("secret")
	raw, expiresAt, err := signed.Issue("plus", 365)
	require.NoError(t, err)

	in, err := (&Authorizer{Signed: signed}).Inspect(raw)
	require.NoError(t, err)
	assert.True(t, in.Valid)
	assert.Equal(t, Signed, in.Token.Generation)
	assert.Equal(t, "plus", in.Token.Prefix)
	assert.Equal(t, expiresAt.UTC().Format("2006-01-02T15:04:05.000Z"), in.ExpiresAt)
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, constantTimeEqual("abc", "abc"))
	assert.False(t, constantTimeEqual("abc", "abd"))
	assert.False(t, constantTimeEqual("abc", "ab"))
	assert.True(t, constantTimeEqual("", ""))
}
