package oauth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleProvider struct {
	cfg *oauth2.Config
}

// NewGoogle builds the Google provider. The redirect URL must match the
// one registered in the Google console.
func NewGoogle(clientID, clientSecret, redirectURL string) Provider {
	return &googleProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *googleProvider) Name() string { return "google" }

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return Profile{}, err
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchJSON(ctx, apiClient(ctx, p.cfg, tok), googleUserinfoURL, &info); err != nil {
		return Profile{}, err
	}
	if info.ID == "" {
		return Profile{}, ErrNoProfile
	}

	return Profile{
		Provider:   p.Name(),
		ProviderID: info.ID,
		Email:      info.Email,
		Name:       info.Name,
		AvatarURL:  info.Picture,
	}, nil
}
