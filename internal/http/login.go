package http

import (
	"errors"
	"net/http"

	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/clipboardhq/clipboard/pkg/httpx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
	Cookies     CookieConfig
}

// ServeHTTP performs a password login and sets the token cookies.
//
//	@Summary		Log in with email and password
//	@Description	On success the access and refresh tokens are set as HttpOnly cookies.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	accountsdk.LoginResponse
//	@Failure		400		{object}	accountsdk.APIError	"Validation failed"
//	@Failure		401		{object}	accountsdk.APIError	"Unknown email or wrong password"
//	@Failure		500		{object}	accountsdk.APIError
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userAgent, ip := loginMeta(r)
	user, pair, err := h.AuthService.Login(ctx, req.Email, req.Password, service.LoginMeta{
		UserAgent: userAgent,
		IPAddress: ip,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			accountsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	h.Cookies.setAuthCookies(w, pair)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.LoginResponse{
		Message: "logged in",
		User:    userResponse(user),
	})
}

type LogoutHandler struct {
	AuthService *service.AuthService
	Cookies     CookieConfig
}

// ServeHTTP revokes the refresh token and clears both cookies. Always
// succeeds, even with no active session.
//
//	@Summary	Log out
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	accountsdk.MessageResponse
//	@Router		/api/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if c, err := r.Cookie(RefreshTokenCookie); err == nil && c.Value != "" {
		if err := h.AuthService.Logout(ctx, c.Value); err != nil {
			// Logout must still clear cookies; just record the failure.
			log.Warn("refresh token revocation failed", "err", err)
		}
	}

	h.Cookies.clearAuthCookies(w)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{Message: "logged out"})
}
