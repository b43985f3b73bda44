package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farm2fork/farm2fork-backend/api/controllers"
	"github.com/farm2fork/farm2fork-backend/api/middleware"
	"github.com/farm2fork/farm2fork-backend/internal/applications"
	"github.com/farm2fork/farm2fork-backend/internal/auth"
	"github.com/farm2fork/farm2fork-backend/internal/cart"
	"github.com/farm2fork/farm2fork-backend/internal/catalog"
	"github.com/farm2fork/farm2fork-backend/internal/dashboard"
	"github.com/farm2fork/farm2fork-backend/internal/orders"
	"github.com/farm2fork/farm2fork-backend/internal/products"
	"github.com/farm2fork/farm2fork-backend/internal/reviews"
	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/internal/vendors"
	"github.com/farm2fork/farm2fork-backend/pkg/auth/session"
	"github.com/farm2fork/farm2fork-backend/pkg/config"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
	"github.com/farm2fork/farm2fork-backend/pkg/metrics"
	"github.com/farm2fork/farm2fork-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Keeping it a struct
// spares cmd/api from a twelve-argument constructor.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTPMetrics
	HealthChecks map[string]controllers.Pinger

	Redis    *redis.Client
	Sessions session.AccessSessionChecker

	Auth         auth.Service
	Catalog      catalog.Service
	Cart         cart.Service
	Orders       orders.Service
	Products     products.Service
	Reviews      reviews.Service
	Team         team.Service
	Vendors      vendors.Service
	Applications applications.Service
	Dashboard    dashboard.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.HealthChecks))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
	})

	// Public marketplace surface. Reviews are open submissions, no account needed.
	r.Route("/api/v1/vendors", func(r chi.Router) {
		r.Get("/", controllers.VendorSearch(d.Catalog, logg))
		r.Get("/{vendorId}", controllers.VendorDetail(d.Catalog, logg))
		r.Post("/{vendorId}/reviews", controllers.ReviewCreate(d.Reviews, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/{vendorId}", controllers.CartFetch(d.Cart, logg))
			r.Delete("/{vendorId}", controllers.CartClear(d.Cart, logg))
			r.Post("/{vendorId}/items", controllers.CartAddItem(d.Cart, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(d.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(d.Cart, logg))
		})

		r.Post("/v1/checkout", controllers.Checkout(d.Orders, logg))
		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(d.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(d.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(d.Orders, logg))
		})

		r.Post("/v1/applications", controllers.ApplicationSubmit(d.Applications, logg))

		r.Route("/v1/vendor/{vendorId}", func(r chi.Router) {
			r.Use(middleware.VendorAccess(d.Team, logg))

			r.Patch("/", controllers.VendorProfileUpdate(d.Vendors, logg))
			r.Get("/dashboard", controllers.VendorDashboard(d.Dashboard, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.VendorOrderList(d.Orders, logg))
				r.Post("/{orderId}/status", controllers.VendorOrderStatus(d.Orders, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.VendorProductList(d.Products, logg))
				r.Post("/", controllers.VendorCreateProduct(d.Products, logg))
				r.Post("/bulk", controllers.VendorBulkProducts(d.Products, logg))
				r.Patch("/{productId}", controllers.VendorUpdateProduct(d.Products, logg))
				r.Delete("/{productId}", controllers.VendorDeleteProduct(d.Products, logg))
			})

			r.Route("/team", func(r chi.Router) {
				r.Get("/", controllers.TeamList(d.Team, logg))
				r.Post("/", controllers.TeamAdd(d.Team, logg))
				r.Delete("/{userId}", controllers.TeamRemove(d.Team, logg))
			})

			r.Post("/reviews/{reviewId}/response", controllers.ReviewRespond(d.Reviews, logg))
		})

		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Route("/applications", func(r chi.Router) {
				r.Get("/", controllers.AdminApplicationList(d.Applications, logg))
				r.Post("/{applicationId}/approve", controllers.AdminApplicationApprove(d.Applications, logg))
				r.Post("/{applicationId}/reject", controllers.AdminApplicationReject(d.Applications, logg))
			})
		})
	})

	return r
}
