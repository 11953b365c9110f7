package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/one-blood/donation-service/internal/api/http"
	"github.com/one-blood/donation-service/internal/api/http/handlers"
	"github.com/one-blood/donation-service/internal/auth"
	"github.com/one-blood/donation-service/internal/config"
	"github.com/one-blood/donation-service/internal/events"
	"github.com/one-blood/donation-service/internal/observability"
	"github.com/one-blood/donation-service/internal/persistence"
	"github.com/one-blood/donation-service/internal/repository"
	"github.com/one-blood/donation-service/internal/service"
	"github.com/one-blood/donation-service/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	requestRepo := repository.NewDonationRequestRepository(pool)
	blogRepo := repository.NewBlogRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	roleResolver := auth.NewRoleResolver(userRepo)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:    userRepo,
		RequestRepo: requestRepo,
		Cache:       redis,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	donationService := service.NewDonationService(service.DonationDependencies{
		RequestRepo: requestRepo,
		Roles:       roleResolver,
		Dispatcher:  dispatcher,
	})
	blogService := service.NewBlogService(blogRepo)

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager())
	guards := auth.NewGuards(roleResolver)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Donations:      handlers.NewDonationsHandler(donationService),
		Blogs:          handlers.NewBlogsHandler(blogService),
		AuthMiddleware: authMiddleware,
		Guards:         guards,
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
