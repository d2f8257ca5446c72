package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zarpadomueble-ops/storefront-gateway/api/controllers"
	"github.com/zarpadomueble-ops/storefront-gateway/api/middleware"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/cart"
	checkoutsvc "github.com/zarpadomueble-ops/storefront-gateway/internal/checkout"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/catalog"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/orders"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/session"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/storeconfig"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/config"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
)

// Deps carries everything the router wires into controllers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions *session.Manager
	Machines *session.Machines
	Carts    cart.Service
	Catalog  *catalog.Cache
	Checkout *checkoutsvc.Service
	Orders   *orders.Service
	Settings *storeconfig.Service
	Store    controllers.Pinger
	Registry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	logg := deps.Logger

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(deps.Config.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, logg, deps.Store))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(deps.Sessions, logg))

		r.Get("/catalog", controllers.CatalogList(deps.Catalog))
		r.Get("/store/settings", controllers.StoreSettings(deps.Settings))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Carts, logg))
			r.Post("/items", controllers.CartAdd(deps.Carts, deps.Machines, logg))
			r.Patch("/items/{productId}", controllers.CartAdjust(deps.Carts, deps.Machines, logg))
			r.Delete("/items/{productId}", controllers.CartRemove(deps.Carts, deps.Machines, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutGet(deps.Carts, deps.Machines, deps.Settings, logg))
			r.Post("/events", controllers.CheckoutDispatch(deps.Carts, deps.Machines, deps.Settings, logg))
			r.Get("/shipping-data", controllers.CheckoutShippingDataGet(deps.Checkout, logg))
			r.Put("/shipping-data", controllers.CheckoutShippingDataPut(deps.Checkout, deps.Machines, logg))
			r.Post("/confirm", controllers.CheckoutConfirm(deps.Checkout, deps.Machines, logg))
		})

		r.Get("/orders/{ref}", controllers.OrderStatus(deps.Orders, logg))
	})

	return r
}
