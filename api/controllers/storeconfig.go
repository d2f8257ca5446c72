package controllers

import (
	"net/http"

	"github.com/zarpadomueble-ops/storefront-gateway/api/responses"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/storeconfig"
)

// StoreSettings exposes the merged store configuration (payment offer,
// messaging, delivery copy) the storefront renders outside the checkout.
func StoreSettings(settings *storeconfig.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, settings.Settings())
	}
}
