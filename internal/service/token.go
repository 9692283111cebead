package service

import (
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
	"github.com/clipboardhq/clipboard/pkg/jwtx"
)

// TokenService mints access/refresh token pairs. It is pure: persistence
// of the refresh fingerprint is the caller's job so issuance can happen
// inside the caller's transaction.
type TokenService struct {
	AccessSigner  jwtx.Signer
	RefreshSigner jwtx.Signer
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Generate signs a new token pair for the user. The access token carries
// the role claim, the refresh token only the subject.
func (s *TokenService) Generate(user domain.User, now time.Time) (domain.TokenPair, error) {
	access, err := s.AccessSigner.Sign(
		jwtx.NewAccessClaims(user.ID, string(user.Role), s.Issuer, s.accessTTL(), now),
	)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.RefreshSigner.Sign(
		jwtx.NewRefreshClaims(user.ID, s.Issuer, s.refreshTTL(), now),
	)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    s.accessTTL(),
		RefreshTTL:   s.refreshTTL(),
	}, nil
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}
