package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/resolution-estimator/internal/api/http"
	"github.com/spec-kit/resolution-estimator/internal/api/http/handlers"
	"github.com/spec-kit/resolution-estimator/internal/artifacts"
	"github.com/spec-kit/resolution-estimator/internal/config"
	"github.com/spec-kit/resolution-estimator/internal/events"
	"github.com/spec-kit/resolution-estimator/internal/observability"
	"github.com/spec-kit/resolution-estimator/internal/persistence"
	"github.com/spec-kit/resolution-estimator/internal/repository"
	"github.com/spec-kit/resolution-estimator/internal/service"
	"github.com/spec-kit/resolution-estimator/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()

	var queue service.EventQueue
	if webhook := service.NewWebhookNotifier(cfg.Notification); webhook != nil {
		w := worker.NewNotificationWorker(webhook.Deliver, 256, logger)
		w.Start(ctx)
		defer w.Stop()
		queue = w
	}
	service.NewNotificationService(dispatcher, logger, queue).RegisterHandlers()

	registry := artifacts.NewRegistry(artifactSource(cfg, pg, redis), logger)
	artifactService := service.NewArtifactService(registry, dispatcher, metrics, logger)

	// artifacts must be in place before the listener accepts requests
	if _, err := artifactService.Reload(ctx); err != nil {
		logger.Fatal("failed to load model artifacts", zap.Error(err))
	}

	predictionService := service.NewPredictionService(service.PredictionDependencies{
		Bundles:    registry,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, artifactService, map[string]handlers.Pinger{
		"postgres": pg,
		"redis":    redis,
	})
	predictionHandler := handlers.NewPredictionHandler(predictionService, artifactService)

	routes := httptransport.RouteConfig{
		Health:      healthHandler,
		Predictions: predictionHandler,
	}
	if cfg.Metrics.Enabled {
		routes.Metrics = metrics
		routes.MetricsPath = cfg.Metrics.Path
	}
	httptransport.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(ctx, logger, artifactService)

	_ = app.Shutdown()
}

func artifactSource(cfg *config.Config, pg *persistence.Postgres, redis *persistence.Redis) artifacts.Source {
	switch cfg.Artifacts.Source {
	case config.ArtifactSourceRedis:
		return repository.NewRedisArtifactSource(redis.Client, cfg.Artifacts.RedisEncodersKey, cfg.Artifacts.RedisModelKey)
	case config.ArtifactSourcePostgres:
		return repository.NewPostgresArtifactSource(pg.PoolHandle(), cfg.Artifacts.PostgresName)
	default:
		return artifacts.NewFileSource(cfg.Artifacts.EncodersPath, cfg.Artifacts.ModelPath)
	}
}

// waitForShutdown blocks until SIGINT/SIGTERM. SIGHUP reloads artifacts in place.
func waitForShutdown(ctx context.Context, logger *zap.Logger, artifactService *service.ArtifactService) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range sigCh {
		if sig == syscall.SIGHUP {
			logger.Info("reloading model artifacts")
			if _, err := artifactService.Reload(ctx); err != nil {
				logger.Warn("artifact reload failed; keeping previous bundle", zap.Error(err))
			}
			continue
		}
		logger.Info("shutting down", zap.String("signal", sig.String()))
		return
	}
}
