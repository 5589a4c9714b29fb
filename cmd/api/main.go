package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"studyhub/docs"
	"studyhub/internal/config"
	handlers "studyhub/internal/http/handler"
	"studyhub/internal/http/middleware"
	"studyhub/internal/kv"
	"studyhub/internal/notify"
	"studyhub/internal/otel"
	"studyhub/internal/service"
	"studyhub/internal/storage"
	"studyhub/internal/store"
)

// @title StudyHub API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing(ctx)

	// Select the Store backend. The rest of the process never learns which
	// one it got.
	var (
		st        store.Store
		bus       notify.Bus
		substrate kv.Store
	)
	switch cfg.Backend {
	case config.BackendRemote:
		if cfg.Remote.BaseURL == "" {
			logger.Fatal("REMOTE_BASE_URL is required for the remote backend")
		}
		bus = notify.NewMemory()
		st = store.NewRemote(cfg.Remote.BaseURL, time.Duration(cfg.Remote.TimeoutSec)*time.Second, bus, logger)

	case config.BackendLocal:
		if cfg.Redis.Addr != "" {
			kvs, err := kv.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
			if err != nil {
				logger.Fatal("failed to connect to redis", zap.Error(err))
			}
			substrate = kvs
			bus = notify.NewRedis(redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			}), cfg.Redis.Channel, logger)
		} else {
			logger.Warn("no REDIS_ADDR configured, using in-memory substrate")
			substrate = kv.NewMemory()
			bus = notify.NewMemory()
		}
		defer substrate.Close()
		defer bus.Close()

		local := store.NewLocal(substrate, bus, logger)
		// Repair the folder invariant before serving anything.
		if err := local.Reconcile(ctx); err != nil {
			logger.Fatal("startup reconcile failed", zap.Error(err))
		}
		st = local

	default:
		logger.Fatal("unknown STORE_BACKEND", zap.String("backend", cfg.Backend))
	}

	// Object storage is optional; without it uploads record metadata only.
	var objects storage.ObjectStore
	if cfg.MinIO.Endpoint != "" {
		objects, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			logger.Fatal("failed to initialize object storage", zap.Error(err))
		}
	}
	uploads := service.NewUploadService(st, objects)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, &handlers.Handler{
		Store:     st,
		Uploads:   uploads,
		Substrate: substrate,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("backend", cfg.Backend))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
