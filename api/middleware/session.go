package middleware

import (
	"context"
	"net/http"

	"github.com/zarpadomueble-ops/storefront-gateway/internal/session"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
)

type sessionKey struct{}

// Session resolves (or mints) the browser session id and makes it
// available to controllers and the log context.
func Session(manager *session.Manager, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := manager.Ensure(w, r)

			ctx := context.WithValue(r.Context(), sessionKey{}, id)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, id)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID injects a session id the way the Session middleware does.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the id set by Session, or "" outside of it.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
