package catalog

import "github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"

// fallbackProducts mirrors the storefront's embedded product list. It keeps
// the cart usable when the backend catalog is unreachable; prices here are
// only a placeholder until the real catalog loads and re-sanitizes the cart.
var fallbackProducts = []storeapi.Product{
	{ID: 1, Name: "Escritorio Gamer Pro", Price: 185000, Category: "Escritorios", Stock: 4, FulfillmentModel: "stock"},
	{ID: 2, Name: "Rack TV Minimalista", Price: 210000, Category: "Living", Stock: 3, FulfillmentModel: "stock"},
	{ID: 3, Name: "Librero Alto", Price: 95000, Category: "Living", Stock: 8, FulfillmentModel: "stock"},
	{ID: 4, Name: "Comoda Dormitorio", Price: 145000, Category: "Living", Stock: 0, FulfillmentModel: "made_to_order"},
	{ID: 5, Name: "Vajillero Nórdico", Price: 230000, Category: "Cocinas", Stock: 0, FulfillmentModel: "made_to_order"},
	{ID: 6, Name: "Escritorio Home Office", Price: 120000, Category: "Escritorios", Stock: 6, FulfillmentModel: "stock"},
}
