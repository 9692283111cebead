package http

import (
	"errors"
	"net/http"

	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/clipboardhq/clipboard/pkg/httpx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP creates a new password-backed account.
//
//	@Summary		Register a new account
//	@Description	Creates a user with the USER role. The email must be unused.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.RegisterRequest	true	"Registration payload"
//	@Success		201		{object}	accountsdk.RegisterResponse
//	@Failure		400		{object}	accountsdk.APIError	"Validation failed or email taken"
//	@Failure		500		{object}	accountsdk.APIError
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.AuthService.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			accountsdk.ErrUserExists.WriteError(w)
			return
		}
		log.Error("registration failed", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountsdk.RegisterResponse{
		Message: "account created",
		ID:      user.ID,
		Email:   user.Email,
	})
}
