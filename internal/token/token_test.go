package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkworks/dealgate/internal/token"
)

func TestAuthority_IssueIsStable(t *testing.T) {
	a := token.NewAuthority("secret")

	first := a.Issue("12345")
	second := a.Issue("12345")

	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
}

func TestAuthority_IssueVariesByDeal(t *testing.T) {
	a := token.NewAuthority("secret")

	assert.NotEqual(t, a.Issue("12345"), a.Issue("12346"))
}

func TestAuthority_IssueVariesBySecret(t *testing.T) {
	assert.NotEqual(t,
		token.NewAuthority("secret-a").Issue("12345"),
		token.NewAuthority("secret-b").Issue("12345"))
}

func TestAuthority_Verify(t *testing.T) {
	a := token.NewAuthority("secret")
	valid := a.Issue("12345")

	tests := []struct {
		name     string
		dealID   string
		supplied string
		want     bool
	}{
		{name: "RoundTrip", dealID: "12345", supplied: valid, want: true},
		{name: "WrongToken", dealID: "12345", supplied: "deadbeefdeadbeef", want: false},
		{name: "WrongDeal", dealID: "99999", supplied: valid, want: false},
		{name: "EmptyToken", dealID: "12345", supplied: "", want: false},
		// Extra characters beyond the fixed width are ignored.
		{name: "OverlongToken", dealID: "12345", supplied: valid + "ffff", want: true},
		// A short token is padded, not matched by prefix.
		{name: "TruncatedToken", dealID: "12345", supplied: valid[:8], want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Verify(tt.dealID, tt.supplied))
		})
	}
}

func TestAuthority_VerifyFailsClosedWithoutSecret(t *testing.T) {
	a := token.NewAuthority("")

	// Even the token the empty-secret authority itself would derive is
	// refused: no secret configured means no access at all.
	assert.False(t, a.Verify("12345", a.Issue("12345")))
	assert.False(t, a.Verify("12345", ""))
}

func TestAuthority_ShortTokenPaddingMatchesDerivation(t *testing.T) {
	// A supplied token that equals the expected value after '0'-padding
	// would only verify if the derived token itself ended in zeros;
	// padding must never turn a prefix into a match.
	a := token.NewAuthority("secret")
	valid := a.Issue("12345")

	padded := valid[:12] + "0000"
	assert.Equal(t, padded == valid, a.Verify("12345", padded))
}
