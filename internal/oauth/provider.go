// Package oauth adapts the upstream identity providers (Google, GitHub)
// into a single Profile shape the account service consumes.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

var (
	// ErrUnknownProvider is returned when a callback names a provider we
	// never registered.
	ErrUnknownProvider = errors.New("oauth: unknown provider")

	// ErrNoProfile is returned when the upstream userinfo endpoint gives
	// us nothing we can build an account from.
	ErrNoProfile = errors.New("oauth: provider returned no usable profile")
)

// Profile is the provider-neutral identity we extract from a completed
// OAuth exchange.
type Profile struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
	Username   string
}

// Provider completes the code exchange and fetches the user's profile.
type Provider interface {
	// Name is the registry key, e.g. "google" or "github".
	Name() string

	// AuthCodeURL builds the upstream consent URL for the given state.
	AuthCodeURL(state string) string

	// Exchange redeems the authorization code and fetches the profile.
	Exchange(ctx context.Context, code string) (Profile, error)
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the named provider or ErrUnknownProvider.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// Names lists the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// fetchJSON performs an authenticated GET against a provider API and
// decodes the JSON body into out. Bodies are capped at 1 MiB.
func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("oauth: %s returned %d: %s", url, resp.StatusCode, body)
	}

	return json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out)
}

// apiClient wraps the token-bearing client with a sane timeout.
func apiClient(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) *http.Client {
	client := cfg.Client(ctx, tok)
	client.Timeout = 10 * time.Second
	return client
}
