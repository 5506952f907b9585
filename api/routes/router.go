package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andresvelez/golmarket-backend/api/controllers"
	"github.com/andresvelez/golmarket-backend/api/middleware"
	cartsvc "github.com/andresvelez/golmarket-backend/internal/cart"
	checkoutsvc "github.com/andresvelez/golmarket-backend/internal/checkout"
	"github.com/andresvelez/golmarket-backend/internal/identity"
	internalorders "github.com/andresvelez/golmarket-backend/internal/orders"
	product "github.com/andresvelez/golmarket-backend/internal/products"
	suppliersvc "github.com/andresvelez/golmarket-backend/internal/suppliers"
	"github.com/andresvelez/golmarket-backend/pkg/config"
	"github.com/andresvelez/golmarket-backend/pkg/db"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
	"github.com/andresvelez/golmarket-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Resolver *identity.Resolver

	Products     product.Service
	Cart         cartsvc.Service
	Checkout     checkoutsvc.Service
	Orders       internalorders.Service
	Suppliers    suppliersvc.Service
	PendingQueue *checkoutsvc.PendingQueue

	Metrics prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogList(deps.Products, logg))
			r.Get("/products/{productId}", controllers.CatalogDetail(deps.Products, logg))
		})

		// Cart and checkout accept either a bearer token or a guest session id.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(deps.Resolver, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.Cart, logg))
				r.Post("/items", controllers.CartAdd(deps.Cart, logg))
				r.Put("/items", controllers.CartSetQuantity(deps.Cart, logg))
				r.Delete("/items/{lineId}", controllers.CartRemoveLine(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
				r.Get("/badge", controllers.CartBadge(deps.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Identity(deps.Resolver, logg))
		r.Use(middleware.RequireAccount(logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(deps.Products, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.Products, logg))
			r.Delete("/{productId}", controllers.AdminDeactivateProduct(deps.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.Orders, logg))
			r.Get("/pending", controllers.AdminPendingOrders(deps.PendingQueue, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(deps.Orders, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderTransition(deps.Orders, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(deps.Suppliers, logg))
			r.Post("/", controllers.SupplierCreate(deps.Suppliers, logg))
			r.Get("/{supplierId}", controllers.SupplierDetail(deps.Suppliers, logg))
			r.Put("/{supplierId}", controllers.SupplierUpdate(deps.Suppliers, logg))
			r.Delete("/{supplierId}", controllers.SupplierDelete(deps.Suppliers, logg))
		})
	})

	return r
}
