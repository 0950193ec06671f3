package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// UserIDKey is the context key for the acting user ID
const UserIDKey ContextKey = "user_id"

// Identity resolves the acting user from the X-User-ID header and stores it
// in the request context. There is no authentication in this service; the
// header just says who is performing the operation, defaulting to user 1.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := int64(1)
		if v := r.Header.Get("X-User-ID"); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
				userID = parsed
			}
		}
		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the acting user ID from the request context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
