package http

import (
	"errors"
	"net/http"

	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/clipboardhq/clipboard/pkg/httpx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	UserService *service.UserService
	Cookies     CookieConfig
}

// HandleGet returns the caller's profile.
//
//	@Summary	Get own profile
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	accountsdk.UserResponse
//	@Failure	401	{object}	accountsdk.APIError
//	@Failure	403	{object}	accountsdk.APIError
//	@Failure	404	{object}	accountsdk.APIError
//	@Router		/api/users/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	user, err := h.UserService.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			accountsdk.ErrNotFound.WriteError(w)
			return
		}
		log.Error("profile load failed", "user_id", userID, "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

// HandlePatch applies a partial profile edit.
//
//	@Summary	Update own profile
//	@Tags		Users
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		accountsdk.UpdateProfileRequest	true	"Fields to change"
//	@Success	200		{object}	accountsdk.UserResponse
//	@Failure	400		{object}	accountsdk.APIError	"Validation failed"
//	@Failure	401		{object}	accountsdk.APIError
//	@Failure	403		{object}	accountsdk.APIError
//	@Router		/api/users/profile [patch].
func (h *ProfileHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := httpx.UserIDFromContext(ctx)
	user, err := h.UserService.Update(ctx, userID, service.ProfileUpdate{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			accountsdk.ErrNotFound.WriteError(w)
			return
		}
		log.Error("profile update failed", "user_id", userID, "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

// HandleDelete removes the caller's account and ends the session.
//
//	@Summary	Delete own account
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	accountsdk.MessageResponse
//	@Failure	401	{object}	accountsdk.APIError
//	@Failure	403	{object}	accountsdk.APIError
//	@Router		/api/users/profile [delete].
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if err := h.UserService.Delete(ctx, userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			accountsdk.ErrNotFound.WriteError(w)
			return
		}
		log.Error("account deletion failed", "user_id", userID, "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	h.Cookies.clearAuthCookies(w)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{Message: "account deleted"})
}
