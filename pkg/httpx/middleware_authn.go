package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/clipboardhq/clipboard/pkg/jwtx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

// AccessTokenCookie is the HttpOnly cookie the login flow sets.
const AccessTokenCookie = "accessToken"

// AuthnMiddleware extracts an access token from the accessToken cookie,
// falling back to the Authorization header, and verifies it. Requests with
// no token get 401; requests with an invalid or expired token get 403. On
// success the decoded user ID and role are attached to the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := extractToken(r)
			if raw == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "missing access token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("access token verification failed", "err", err)
				writeAuthError(w, http.StatusForbidden, "invalid_token", "invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, CtxKeyRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, code int, errCode, desc string) {
	NoCache(w)
	WriteJSON(w, code, map[string]string{
		"error":   errCode,
		"message": desc,
	})
}
