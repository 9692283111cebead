package http

import (
	"errors"
	"net/http"

	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/clipboardhq/clipboard/pkg/httpx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

type ForgotPasswordHandler struct {
	ResetService *service.ResetService
}

// ServeHTTP issues a reset token and emails the link. The response is
// identical whether or not the email exists.
//
//	@Summary	Request a password reset email
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		accountsdk.ForgotPasswordRequest	true	"Email"
//	@Success	200		{object}	accountsdk.MessageResponse
//	@Failure	400		{object}	accountsdk.APIError	"Validation failed"
//	@Failure	500		{object}	accountsdk.APIError
//	@Router		/api/auth/forgot-password [post].
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.ResetService.Request(ctx, req.Email); err != nil {
		log.Error("password reset request failed", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Message: "if the email exists, a reset link has been sent",
	})
}

type ResetPasswordHandler struct {
	ResetService *service.ResetService
}

// ServeHTTP redeems a reset token and sets the new password.
//
//	@Summary	Reset the password with an emailed token
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		accountsdk.ResetPasswordRequest	true	"Token and new password"
//	@Success	200		{object}	accountsdk.MessageResponse
//	@Failure	400		{object}	accountsdk.APIError	"Validation failed or token invalid"
//	@Failure	500		{object}	accountsdk.APIError
//	@Router		/api/auth/reset-password [post].
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.ResetService.Reset(ctx, req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			accountsdk.ErrInvalidResetToken.WriteError(w)
		case errors.Is(err, service.ErrUserNotFound):
			accountsdk.ErrNotFound.WriteError(w)
		default:
			log.Error("password reset failed", "err", err)
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{Message: "password updated"})
}
