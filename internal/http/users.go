package http

import (
	"net/http"
	"strconv"

	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/clipboardhq/clipboard/pkg/httpx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

// UsersHandler is the admin-only user listing.
type UsersHandler struct {
	UserService *service.UserService
}

// ServeHTTP lists users one page at a time.
//
//	@Summary	List users (admin)
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Param		page	query		int	false	"Page number, starting at 1"
//	@Param		limit	query		int	false	"Page size (max 100)"
//	@Success	200		{object}	accountsdk.UserListResponse
//	@Failure	401		{object}	accountsdk.APIError
//	@Failure	403		{object}	accountsdk.APIError	"Caller is not an admin"
//	@Router		/api/users [get].
func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.UserService.List(ctx, page, limit)
	if err != nil {
		log.Error("user listing failed", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	users := make([]accountsdk.UserResponse, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, userResponse(u))
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.UserListResponse{
		Users: users,
		Total: result.Total,
		Page:  result.Page,
		Pages: result.Pages,
	})
}
