package httpx

import "context"

type ctxKey string

// CtxKeyUserID carries the authenticated user's ID, set by AuthnMiddleware.
const CtxKeyUserID ctxKey = "user_id"

// UserIDFromContext returns the authenticated user ID, or "" when the
// request did not pass through AuthnMiddleware.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
