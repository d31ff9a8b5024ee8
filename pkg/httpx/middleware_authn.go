package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// accessTokenRequired is the exact message the frontend matches on; do not
// reword it without coordinating a client release.
const accessTokenRequired = "Access token is required"

// AuthnMiddleware verifies the bearer session token and injects the subject
// user ID into the request context. Missing or invalid tokens get a 403 with
// a fixed message.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				WriteError(w, http.StatusForbidden, KindForbidden, accessTokenRequired)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session token verify failed", "err", err)
				WriteError(w, http.StatusForbidden, KindForbidden, accessTokenRequired)
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthnMiddleware injects the subject user ID when a valid bearer
// token is present, but lets anonymous requests through untouched. Invalid
// tokens are treated as anonymous rather than rejected.
func OptionalAuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if strings.HasPrefix(authz, "Bearer ") {
				raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
				if claims, err := v.Verify(raw); err == nil {
					ctx := context.WithValue(r.Context(), CtxKeyUserID, claims.Subject)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
