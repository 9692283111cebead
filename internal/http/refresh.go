package http

import (
	"errors"
	"net/http"

	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/clipboardhq/clipboard/pkg/httpx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

type RefreshHandler struct {
	AuthService *service.AuthService
	Cookies     CookieConfig
}

// ServeHTTP rotates the refresh token from the cookie and reissues both
// cookies. The presented refresh token is revoked whether or not the
// rotation succeeds downstream.
//
//	@Summary		Refresh the session
//	@Description	Rotates the refresh token cookie and mints a new access token.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	accountsdk.LoginResponse
//	@Failure		401	{object}	accountsdk.APIError	"No refresh token cookie"
//	@Failure		403	{object}	accountsdk.APIError	"Refresh token invalid, expired, or revoked"
//	@Failure		500	{object}	accountsdk.APIError
//	@Router			/api/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	c, err := r.Cookie(RefreshTokenCookie)
	if err != nil || c.Value == "" {
		accountsdk.ErrUnauthorized.WriteError(w)
		return
	}

	userAgent, ip := loginMeta(r)
	user, pair, err := h.AuthService.Refresh(ctx, c.Value, service.LoginMeta{
		UserAgent: userAgent,
		IPAddress: ip,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			h.Cookies.clearAuthCookies(w)
			accountsdk.ErrInvalidToken.WriteError(w)
			return
		}
		log.Error("refresh failed", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	h.Cookies.setAuthCookies(w, pair)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.LoginResponse{
		Message: "session refreshed",
		User:    userResponse(user),
	})
}
