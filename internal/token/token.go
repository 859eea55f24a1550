// Package token derives and verifies per-deal access tokens for the
// public portal endpoints. A token is a pure function of the deal id
// and a shared secret; rotating the secret invalidates every
// outstanding link.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// tokenLength is the fixed token width in hex characters. Verification
// truncates and pads the supplied value to exactly this width before
// comparing, so the comparison always runs over the same number of
// bytes. If the derivation ever changes length this constant is the
// single place to revisit.
const tokenLength = 16

type Authority struct {
	secret string
}

func NewAuthority(secret string) *Authority {
	return &Authority{secret: secret}
}

// Issue derives the access token for a deal id: HMAC-SHA256 over the
// id, hex-encoded, truncated to tokenLength characters.
func (a *Authority) Issue(dealID string) string {
	mac := hmac.New(sha256.New, []byte(a.secret))
	mac.Write([]byte(dealID))

	return hex.EncodeToString(mac.Sum(nil))[:tokenLength]
}

// Verify reports whether supplied grants access to the deal. It fails
// closed: no secret configured or no token supplied means no access.
// The comparison is constant-time over a fixed-width buffer.
func (a *Authority) Verify(dealID, supplied string) bool {
	if a.secret == "" || supplied == "" {
		return false
	}

	expected := a.Issue(dealID)

	return subtle.ConstantTimeCompare(pad(supplied), pad(expected)) == 1
}

// pad truncates s to tokenLength and right-pads with '0' so both sides
// of the comparison are always exactly tokenLength bytes.
func pad(s string) []byte {
	buf := make([]byte, tokenLength)

	for i := range buf {
		if i < len(s) {
			buf[i] = s[i]
		} else {
			buf[i] = '0'
		}
	}

	return buf
}
