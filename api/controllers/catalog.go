package controllers

import (
	"net/http"

	"github.com/zarpadomueble-ops/storefront-gateway/api/responses"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/catalog"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

type catalogView struct {
	Products []storeapi.Product `json:"products"`
	Version  uint64             `json:"version"`
}

// CatalogList serves the cached catalog snapshot. The cache falls back to
// seed products, so this endpoint always has something to sell.
func CatalogList(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, catalogView{
			Products: cache.Snapshot(),
			Version:  cache.Version(),
		})
	}
}
