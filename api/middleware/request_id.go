package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// maxInboundRequestIDLength caps ids supplied by the storefront. Anything
// longer is attacker-controlled noise and gets replaced.
const maxInboundRequestIDLength = 64

// RequestID assigns each request a correlation id. The gateway faces
// anonymous browsers, so an inbound id is honored only when it fits the
// length cap; the id always travels back on the response so the storefront
// can quote it in support reports.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > maxInboundRequestIDLength {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
