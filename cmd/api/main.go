package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yahyarahhawi/StitchGuard-db/api/routes"
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
	"github.com/yahyarahhawi/StitchGuard-db/pkg/migrate"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency replay disabled")
	}

	conn := dbClient.DB()
	usersRepo := users.NewRepository(conn)
	productsRepo := products.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		fatal(logg, "failed to create users service", err)
	}
	productsService, err := products.NewService(productsRepo)
	if err != nil {
		fatal(logg, "failed to create products service", err)
	}
	ordersService, err := orders.NewService(ordersRepo, usersRepo, productsRepo, dbClient, cfg.Progress.Window)
	if err != nil {
		fatal(logg, "failed to create orders service", err)
	}
	inspectionService, err := inspection.NewService(inspection.NewRepository(conn), ordersRepo, usersRepo, dbClient)
	if err != nil {
		fatal(logg, "failed to create inspection service", err)
	}
	shippingService, err := shipping.NewService(shipping.NewRepository(conn), ordersRepo, dbClient)
	if err != nil {
		fatal(logg, "failed to create shipping service", err)
	}
	modelsService, err := mlmodels.NewService(mlmodels.NewRepository(conn), cfg.Models)
	if err != nil {
		fatal(logg, "failed to create models service", err)
	}
	tutorialsService, err := tutorials.NewService(tutorials.NewRepository(conn), productsRepo, dbClient)
	if err != nil {
		fatal(logg, "failed to create tutorials service", err)
	}
	analyticsService, err := analytics.NewService(analytics.NewRepository(conn), usersRepo)
	if err != nil {
		fatal(logg, "failed to create analytics service", err)
	}
	adminService, err := admin.NewService(dbClient, logg)
	if err != nil {
		fatal(logg, "failed to create admin service", err)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, routes.Services{
			Users:      usersService,
			Products:   productsService,
			Orders:     ordersService,
			Inspection: inspectionService,
			Shipping:   shippingService,
			Models:     modelsService,
			Tutorials:  tutorialsService,
			Analytics:  analyticsService,
			Admin:      adminService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
