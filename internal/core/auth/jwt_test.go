package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "market-test", TTL: time.Hour}
}

func TestJWTer_IssueAndParse(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("42", RoleUser)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Value)
	assert.NotEmpty(t, tok.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	c, err := j.Parse(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "42", c.UID)
	assert.Equal(t, RoleUser, c.Role)
	assert.Equal(t, tok.ID, c.ID)
}

func TestJWTer_IssueUniqueIDs(t *testing.T) {
	j := newJWTer()
	a, err := j.Issue("1", RoleUser)
	require.NoError(t, err)
	b, err := j.Issue("1", RoleUser)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestJWTer_ParseRejects(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("1", RoleAdmin)
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("other"), Issuer: j.Issuer, TTL: time.Hour}
	_, err = other.Parse(tok.Value)
	assert.Error(t, err, "wrong secret")

	wrongIssuer := &JWTer{Secret: j.Secret, Issuer: "someone-else", TTL: time.Hour}
	_, err = wrongIssuer.Parse(tok.Value)
	assert.Error(t, err, "wrong issuer")

	expired := &JWTer{Secret: j.Secret, Issuer: j.Issuer, TTL: -2 * time.Hour}
	old, err := expired.Issue("1", RoleUser)
	require.NoError(t, err)
	_, err = j.Parse(old.Value)
	assert.Error(t, err, "expired")

	_, err = j.Parse("not-a-token")
	assert.Error(t, err)
}
