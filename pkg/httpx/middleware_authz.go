package httpx

import "net/http"

// RequireRole rejects the request with 403 unless the authenticated role is
// one of the allowed roles. Must run after AuthnMiddleware.
func RequireRole(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if _, ok := want[role]; !ok {
				writeAuthError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
