package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/darkandwhite/shop-backend/api/controllers"
	"github.com/darkandwhite/shop-backend/api/middleware"
	cartsvc "github.com/darkandwhite/shop-backend/internal/cart"
	gatewaysvc "github.com/darkandwhite/shop-backend/internal/gateway"
	ordersvc "github.com/darkandwhite/shop-backend/internal/orders"
	"github.com/darkandwhite/shop-backend/internal/payments"
	"github.com/darkandwhite/shop-backend/pkg/config"
	"github.com/darkandwhite/shop-backend/pkg/db"
	"github.com/darkandwhite/shop-backend/pkg/logger"
	"github.com/darkandwhite/shop-backend/pkg/metrics"
	"github.com/darkandwhite/shop-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	cartService cartsvc.Service,
	ordersService ordersvc.Service,
	paymentsService payments.Service,
	gatewayAuth *gatewaysvc.Authenticator,
	gatewayMetrics *metrics.GatewayMetrics,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(cfg.Session, logg))
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/add", controllers.CartAdd(cartService, logg))
			r.Post("/update", controllers.CartUpdate(cartService, logg))
			r.Post("/donation", controllers.CartDonation(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.Session(cfg.Session, logg)).Post("/", controllers.OrdersCreate(ordersService, logg))
			r.Get("/payment-return", controllers.PaymentReturn(ordersService, logg))
			r.Get("/{orderID}", controllers.OrderFetch(ordersService, logg))
		})

		r.Post("/gateway/callback", controllers.GatewayCallback(paymentsService, gatewayAuth, gatewayMetrics, logg))
	})

	return r
}
