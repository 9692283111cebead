package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID carries the authenticated user's ID.
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeyRole carries the authenticated user's role.
	CtxKeyRole ctxKey = "role"
)

// UserIDFromContext returns the authenticated user ID, or "" when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext returns the authenticated user's role, or "".
func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}
