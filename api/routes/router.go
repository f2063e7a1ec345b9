package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pwproductions/storefront-backend/api/controllers"
	"github.com/pwproductions/storefront-backend/api/middleware"
	cartsvc "github.com/pwproductions/storefront-backend/internal/cart"
	"github.com/pwproductions/storefront-backend/internal/gateway"
	"github.com/pwproductions/storefront-backend/pkg/config"
	"github.com/pwproductions/storefront-backend/pkg/logger"
	"github.com/pwproductions/storefront-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatewayService gateway.Service,
	cartService cartsvc.Service,
	locker controllers.CheckoutLocker,
	redisPinger controllers.Pinger,
	vendorPinger controllers.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger, vendorPinger))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/printful", func(r chi.Router) {
			r.Get("/stores", controllers.PrintfulStores(gatewayService, logg))
			r.Get("/products", controllers.PrintfulProducts(gatewayService, logg))
			r.Get("/products/{productId}", controllers.PrintfulProduct(gatewayService, logg))
			r.Get("/catalog", controllers.PrintfulCatalog(gatewayService, logg))
			r.Get("/catalog/{productId}", controllers.PrintfulCatalogItem(gatewayService, logg))
			r.Post("/orders", controllers.PrintfulCreateOrder(gatewayService, logg))
			r.Get("/orders", controllers.PrintfulOrders(gatewayService, logg))
			r.Get("/orders/{orderId}", controllers.PrintfulOrder(gatewayService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Put("/items", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items", controllers.CartRemoveItem(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(cartService, gatewayService, locker, logg))
		})
	})

	return r
}
