package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/scubafy-dev/scubafy-backend/internal/access"
	httptransport "github.com/scubafy-dev/scubafy-backend/internal/api/http"
	"github.com/scubafy-dev/scubafy-backend/internal/api/http/handlers"
	"github.com/scubafy-dev/scubafy-backend/internal/config"
	"github.com/scubafy-dev/scubafy-backend/internal/events"
	"github.com/scubafy-dev/scubafy-backend/internal/observability"
	"github.com/scubafy-dev/scubafy-backend/internal/persistence"
	"github.com/scubafy-dev/scubafy-backend/internal/repository"
	"github.com/scubafy-dev/scubafy-backend/internal/service"
	"github.com/scubafy-dev/scubafy-backend/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics(cfg.App.Name)
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	pool := pg.PoolHandle()
	staffRepo := repository.NewStaffRepository(pool)
	centerRepo := repository.NewDiveCenterRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	resolutionCache := repository.NewResolutionCache(redis.ClientHandle(), cfg.Cache.ResolverTTL())

	verificationService := service.NewVerificationService(service.VerificationDependencies{
		StaffRepo:      staffRepo,
		DiveCenterRepo: centerRepo,
		UserRepo:       userRepo,
		Cache:          resolutionCache,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         logger,
	})
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		DiveCenterRepo: centerRepo,
		StaffRepo:      staffRepo,
		Cache:          resolutionCache,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:       handlers.NewAuthHandler(verificationService),
		Access:     handlers.NewAccessHandler(access.NewGate(), access.NewEntryRouter()),
		Admin:      handlers.NewAdminHandler(directoryService),
		Metrics:    metrics,
		AdminToken: cfg.Admin.Token,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
