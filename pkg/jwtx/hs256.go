package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is anything that can sign Claims into a compact JWT.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a compact JWT and returns the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// HS256Signer signs tokens with a shared HMAC secret. Access and refresh
// tokens use distinct secrets so one can never be replayed as the other.
type HS256Signer struct {
	secret []byte
}

// NewHS256Signer returns a Signer backed by the given secret.
func NewHS256Signer(secret []byte) *HS256Signer {
	return &HS256Signer{secret: secret}
}

// Sign produces a compact HS256 JWT for the claims.
func (s *HS256Signer) Sign(c Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// HS256Verifier validates HS256 tokens against a shared secret and an
// optional expected issuer.
type HS256Verifier struct {
	secret []byte
	issuer string
}

// NewHS256Verifier returns a Verifier for tokens signed with secret. An
// empty issuer disables issuer checking.
func NewHS256Verifier(secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{secret: secret, issuer: issuer}
}

// Verify parses and validates token, returning its claims. Signature,
// expiry, and (when configured) issuer are all enforced.
func (v *HS256Verifier) Verify(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return err
	}
}
