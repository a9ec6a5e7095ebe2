package middleware

import (
	"context"
	"net/http"
)

const RequesterHeader = "X-Requester-ID"

// RequesterIdentity copies the opaque requester identity supplied by the
// authentication layer into the request context. The core trusts it as-is.
func RequesterIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requester := r.Header.Get(RequesterHeader); requester != "" {
				ctx := context.WithValue(r.Context(), RequesterKey, requester)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequesterFrom returns the requester identity from the context, or "".
func RequesterFrom(ctx context.Context) string {
	if id, ok := ctx.Value(RequesterKey).(string); ok {
		return id
	}
	return ""
}
