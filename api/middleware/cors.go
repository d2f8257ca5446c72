package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/config"
)

// CORS applies the storefront origin policy. The gateway carries session
// cookies, so credentials stay enabled and origins stay explicit.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
