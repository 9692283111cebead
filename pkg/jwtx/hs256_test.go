package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "clipboard-api"

func TestSignAndVerifyAccessToken(t *testing.T) {
	t.Parallel()

	secret := []byte("access-secret")
	signer := NewHS256Signer(secret)
	verifier := NewHS256Verifier(secret, testIssuer)

	now := time.Now().UTC()
	token, err := signer.Sign(NewAccessClaims("user-123", "ADMIN", testIssuer, DefaultAccessTokenTTL, now))
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.Equal(t, "ADMIN", claims.Role)
	require.Equal(t, testIssuer, claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signer := NewHS256Signer([]byte("access-secret"))
	verifier := NewHS256Verifier([]byte("refresh-secret"), testIssuer)

	token, err := signer.Sign(NewAccessClaims("u", "USER", testIssuer, time.Minute, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	secret := []byte("s")
	signer := NewHS256Signer(secret)
	verifier := NewHS256Verifier(secret, testIssuer)

	past := time.Now().Add(-time.Hour)
	token, err := signer.Sign(NewAccessClaims("u", "USER", testIssuer, time.Minute, past))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	secret := []byte("s")
	signer := NewHS256Signer(secret)
	verifier := NewHS256Verifier(secret, "expected-issuer")

	token, err := signer.Sign(NewAccessClaims("u", "USER", "other-issuer", time.Minute, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	verifier := NewHS256Verifier([]byte("s"), testIssuer)
	_, err := verifier.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestRefreshClaimsHaveNoRole(t *testing.T) {
	t.Parallel()

	c := NewRefreshClaims("user-123", testIssuer, DefaultRefreshTokenTTL, time.Now())
	require.Empty(t, c.Role)
	require.Equal(t, "user-123", c.Subject)
}
