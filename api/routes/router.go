package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yahyarahhawi/StitchGuard-db/api/controllers"
	"github.com/yahyarahhawi/StitchGuard-db/api/middleware"
	"github.com/yahyarahhawi/StitchGuard-db/internal/admin"
	"github.com/yahyarahhawi/StitchGuard-db/internal/analytics"
	"github.com/yahyarahhawi/StitchGuard-db/internal/inspection"
	"github.com/yahyarahhawi/StitchGuard-db/internal/mlmodels"
	"github.com/yahyarahhawi/StitchGuard-db/internal/orders"
	"github.com/yahyarahhawi/StitchGuard-db/internal/products"
	"github.com/yahyarahhawi/StitchGuard-db/internal/shipping"
	"github.com/yahyarahhawi/StitchGuard-db/internal/tutorials"
	"github.com/yahyarahhawi/StitchGuard-db/internal/users"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/config"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/logger"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/metrics"
	pkgredis "github.com/yahyarahhawi/StitchGuard-db/pkg/redis"
)

// Services carries everything the router hands to controllers.
type Services struct {
	Users      users.Service
	Products   products.Service
	Orders     orders.Service
	Inspection inspection.Service
	Shipping   shipping.Service
	Models     mlmodels.Service
	Tutorials  tutorials.Service
	Analytics  analytics.Service
	Admin      admin.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger(redisClient)))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.ListUsers(svcs.Users, logg))
			r.Post("/", controllers.CreateUser(svcs.Users, logg))
			r.Get("/{userId}", controllers.GetUser(svcs.Users, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(svcs.Products, logg))
			r.Get("/{productId}/orientations", controllers.ListProductOrientations(svcs.Products, logg))
			r.Get("/{productId}/rules", controllers.ListProductRules(svcs.Products, logg))
			r.Post("/{productId}/rules", controllers.CreateProductRule(svcs.Products, logg))
			r.Get("/{productId}/tutorials", controllers.ListProductTutorials(svcs.Tutorials, logg))
			r.Get("/{productId}/tutorials/active", controllers.GetActiveProductTutorial(svcs.Tutorials, logg))
		})

		r.Route("/orientations", func(r chi.Router) {
			r.Post("/", controllers.CreateOrientation(svcs.Products, logg))
			r.Put("/{orientationId}", controllers.UpdateOrientation(svcs.Products, logg))
			r.Delete("/{orientationId}", controllers.DeleteOrientation(svcs.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(svcs.Orders, logg))
			r.Put("/{orderId}", controllers.UpdateOrder(svcs.Orders, logg))
			r.Delete("/{orderId}", controllers.DeleteOrder(svcs.Orders, logg))
			r.Get("/{orderId}/stats", controllers.GetOrderStats(svcs.Orders, logg))
			r.Put("/{orderId}/progress", controllers.UpdateOrderProgress(svcs.Orders, logg))
			r.Post("/{orderId}/progress/recompute", controllers.RecomputeOrderProgress(svcs.Orders, logg))
			r.Delete("/{orderId}/cleanup-test-data", controllers.CleanupOrderItems(svcs.Orders, logg))
			r.Post("/{orderId}/shipping", controllers.CreateShipping(svcs.Shipping, logg))
			r.Get("/{orderId}/shipping", controllers.GetShippingStatus(svcs.Shipping, logg))
			r.Post("/{orderId}/shipping/shipped", controllers.MarkShipped(svcs.Shipping, logg))
		})

		r.Route("/inspection", func(r chi.Router) {
			r.Get("/config/{productId}", controllers.GetInspectionConfig(svcs.Products, logg))
			r.Get("/items", controllers.ListInspectedItems(svcs.Inspection, logg))
			r.Post("/items", controllers.RecordInspectedItem(svcs.Inspection, logg))
			r.Get("/items/{itemId}", controllers.GetInspectedItem(svcs.Inspection, logg))
		})

		r.Route("/models", func(r chi.Router) {
			r.Get("/", controllers.ListModels(svcs.Models, logg))
			r.Post("/", controllers.CreateModel(svcs.Models, logg))
			r.Get("/files", controllers.ListModelFiles(svcs.Models, logg))
			r.Get("/files/{filename}", controllers.DownloadModelFile(svcs.Models, logg))
			r.Get("/{modelId}", controllers.GetModel(svcs.Models, logg))
			r.Put("/{modelId}", controllers.UpdateModel(svcs.Models, logg))
			r.Delete("/{modelId}", controllers.DeleteModel(svcs.Models, logg))
		})

		r.Route("/tutorials", func(r chi.Router) {
			r.Get("/", controllers.ListTutorials(svcs.Tutorials, logg))
			r.Post("/", controllers.CreateTutorial(svcs.Tutorials, logg))
			r.Post("/steps", controllers.CreateTutorialStep(svcs.Tutorials, logg))
			r.Put("/steps/{stepId}", controllers.UpdateTutorialStep(svcs.Tutorials, logg))
			r.Delete("/steps/{stepId}", controllers.DeleteTutorialStep(svcs.Tutorials, logg))
			r.Get("/{tutorialId}", controllers.GetTutorial(svcs.Tutorials, logg))
			r.Put("/{tutorialId}", controllers.UpdateTutorial(svcs.Tutorials, logg))
			r.Delete("/{tutorialId}", controllers.DeleteTutorial(svcs.Tutorials, logg))
			r.Get("/{tutorialId}/steps", controllers.ListTutorialSteps(svcs.Tutorials, logg))
			r.Patch("/{tutorialId}/toggle-active", controllers.ToggleTutorialActive(svcs.Tutorials, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/overview", controllers.AnalyticsOverview(svcs.Analytics, logg))
			r.Get("/users/{userId}/stats", controllers.AnalyticsUserStats(svcs.Analytics, logg))
			r.Get("/flaws/frequency", controllers.AnalyticsFlawFrequency(svcs.Analytics, logg))
			r.Get("/trends/daily", controllers.AnalyticsDailyTrends(svcs.Analytics, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/migrate-order-assignment", controllers.AdminMigrateOrderAssignment(svcs.Admin, logg))
		})
	})

	return r
}

// redisPinger keeps the readiness check's interface nil when redis is not
// configured; a typed nil *Client would otherwise pass the nil check.
func redisPinger(client *pkgredis.Client) interface {
	Ping(ctx context.Context) error
} {
	if client == nil {
		return nil
	}
	return client
}
