package oauth

import (
	"context"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

type githubProvider struct {
	cfg *oauth2.Config
}

// NewGitHub builds the GitHub provider.
func NewGitHub(clientID, clientSecret, redirectURL string) Provider {
	return &githubProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *githubProvider) Name() string { return "github" }

func (p *githubProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *githubProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return Profile{}, err
	}
	client := apiClient(ctx, p.cfg, tok)

	var user struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := fetchJSON(ctx, client, githubUserURL, &user); err != nil {
		return Profile{}, err
	}
	if user.ID == 0 {
		return Profile{}, ErrNoProfile
	}

	email := user.Email
	if email == "" {
		// GitHub hides the email on /user when the user marks it private.
		// The user:email scope still lets us list addresses.
		email = p.primaryEmail(ctx, client)
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return Profile{
		Provider:   p.Name(),
		ProviderID: strconv.FormatInt(user.ID, 10),
		Email:      email,
		Name:       name,
		AvatarURL:  user.AvatarURL,
		Username:   user.Login,
	}, nil
}

func (p *githubProvider) primaryEmail(ctx context.Context, client *http.Client) string {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := fetchJSON(ctx, client, githubEmailsURL, &emails); err != nil {
		return ""
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}
