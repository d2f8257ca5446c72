package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zarpadomueble-ops/storefront-gateway/api/responses"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/orders"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
)

// OrderStatus looks an order up by the reference the buyer got after
// paying (also accepted from payment-redirect query params upstream).
func OrderStatus(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		status, err := svc.Status(ctx, chi.URLParam(r, "ref"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
