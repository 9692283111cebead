package http

import (
	"net/http"
	"time"

	"github.com/clipboardhq/clipboard/internal/oauth"
	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/clipboardhq/clipboard/pkg/cryptox"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

const (
	oauthStateCookie = "oauthState"
	oauthStateTTL    = 10 * time.Minute
)

// OAuthHandler drives the provider redirect and callback legs. The
// browser ends up back on the frontend either way: /dashboard on
// success, the login page with an error flag otherwise.
type OAuthHandler struct {
	Providers   *oauth.Registry
	OAuth       *service.OAuthService
	Auth        *service.AuthService
	Cookies     CookieConfig
	FrontendURL string
}

// HandleRedirect sends the browser to the provider's consent page.
//
//	@Summary		Start an OAuth login
//	@Description	Sets a state cookie and redirects to the provider.
//	@Tags			OAuth
//	@Param			provider	path	string	true	"Provider name (google or github)"
//	@Success		302
//	@Failure		404	{object}	accountsdk.APIError	"Unknown provider"
//	@Router			/api/auth/{provider} [get].
func (h *OAuthHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	provider, err := h.Providers.Get(r.PathValue("provider"))
	if err != nil {
		accountsdk.ErrNotFound.WriteError(w)
		return
	}

	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   int(oauthStateTTL / time.Second),
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback finishes the exchange and logs the user in.
//
//	@Summary		OAuth provider callback
//	@Description	Verifies state, exchanges the code, links or creates the account, sets token cookies, and redirects to the frontend.
//	@Tags			OAuth
//	@Param			provider	path	string	true	"Provider name (google or github)"
//	@Param			code		query	string	true	"Authorization code"
//	@Param			state		query	string	true	"CSRF state"
//	@Success		302
//	@Router			/api/auth/{provider}/callback [get].
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	provider, err := h.Providers.Get(r.PathValue("provider"))
	if err != nil {
		h.fail(w, r)
		return
	}

	// The state cookie is single use.
	stateCookie, err := r.Cookie(oauthStateCookie)
	http.SetCookie(w, &http.Cookie{
		Name: oauthStateCookie, Value: "", Path: "/api/auth", MaxAge: -1,
		HttpOnly: true, Secure: h.Cookies.Secure, SameSite: http.SameSiteLaxMode,
	})
	state := r.URL.Query().Get("state")
	if err != nil || state == "" || stateCookie.Value != state {
		log.Warn("oauth state mismatch", "provider", provider.Name())
		h.fail(w, r)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.fail(w, r)
		return
	}

	profile, err := provider.Exchange(ctx, code)
	if err != nil {
		log.Warn("oauth exchange failed", "provider", provider.Name(), "err", err)
		h.fail(w, r)
		return
	}

	user, err := h.OAuth.FindOrCreateUser(ctx, profile)
	if err != nil {
		log.Warn("oauth account resolution failed", "provider", provider.Name(), "err", err)
		h.fail(w, r)
		return
	}

	userAgent, ip := loginMeta(r)
	pair, err := h.Auth.IssueFor(ctx, user, service.LoginMeta{UserAgent: userAgent, IPAddress: ip})
	if err != nil {
		log.Error("oauth token issuance failed", "err", err)
		h.fail(w, r)
		return
	}

	h.Cookies.setAuthCookies(w, pair)
	http.Redirect(w, r, h.FrontendURL+"/dashboard", http.StatusFound)
}

func (h *OAuthHandler) fail(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.FrontendURL+"/auth/login?error=oauth_failed", http.StatusFound)
}
