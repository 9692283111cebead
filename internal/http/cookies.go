package http

import (
	"net/http"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/clipboardhq/clipboard/pkg/httpx"
)

// RefreshTokenCookie is the cookie name carrying the refresh token. The
// access token cookie name lives in httpx next to the middleware that
// reads it.
const RefreshTokenCookie = "refreshToken"

// CookieConfig controls the attributes on the auth cookies. Secure is
// off in development so plain-HTTP localhost flows still work.
type CookieConfig struct {
	Secure bool
}

func (c CookieConfig) set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c CookieConfig) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// setAuthCookies installs both token cookies on the response.
func (c CookieConfig) setAuthCookies(w http.ResponseWriter, pair domain.TokenPair) {
	c.set(w, httpx.AccessTokenCookie, pair.AccessToken, pair.AccessTTL)
	c.set(w, RefreshTokenCookie, pair.RefreshToken, pair.RefreshTTL)
}

// clearAuthCookies expires both token cookies.
func (c CookieConfig) clearAuthCookies(w http.ResponseWriter) {
	c.clear(w, httpx.AccessTokenCookie)
	c.clear(w, RefreshTokenCookie)
}

// loginMeta extracts the audit metadata recorded on session rows.
func loginMeta(r *http.Request) (userAgent, ip string) {
	return r.UserAgent(), httpx.IPKeyExtractor(r)
}

// userResponse projects a user for the API, dropping the password hash.
func userResponse(u domain.User) accountsdk.UserResponse {
	return accountsdk.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          string(u.Role),
		AvatarURL:     u.AvatarURL,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
