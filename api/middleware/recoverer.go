package middleware

import (
	"fmt"
	"net/http"

	"github.com/zarpadomueble-ops/storefront-gateway/api/responses"
	pkgerrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
)

// Recoverer turns handler panics into internal-error envelopes. The log
// entry keeps the method and path so a crashing endpoint can be traced
// back from a single line.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				err := fmt.Errorf("handler panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":  rec,
						"method": r.Method,
						"path":   r.URL.Path,
					})
					logg.Error(ctx, "handler.panicked", err)
				}
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeInternal, err, "handler crashed"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
