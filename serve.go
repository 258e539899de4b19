package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"beautybook/config"
	"beautybook/cron"
	"beautybook/database"
	analyticsRepo "beautybook/database/repository/analytics"
	bookingRepo "beautybook/database/repository/bookings"
	catalogRepo "beautybook/database/repository/catalog"
	reviewRepo "beautybook/database/repository/reviews"
	"beautybook/handlers"
	"beautybook/middleware"
	"beautybook/routes"
	"beautybook/services/booking"
	"beautybook/services/dashboard"
	"beautybook/services/events"
	"beautybook/services/notification"
	"beautybook/services/payment"
	"beautybook/services/profile"
	"beautybook/services/review"
	"beautybook/services/tasks"
	"beautybook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the session sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

// catalogStore is what the API needs from the catalog backend.
type catalogStore interface {
	booking.Catalog
	dashboard.ServiceLister
	review.RatingUpdater
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := utils.GetLogger()
	cfg := config.AppConfig

	if err := database.InitDB(ctx, logger); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Disconnect(shutdownCtx)
	}()

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	reviews := reviewRepo.NewMongoReviewRepo()
	analytics := analyticsRepo.NewMongoAnalyticsRepo()
	catalog, err := newCatalog(ctx, logger)
	if err != nil {
		return err
	}
	if err := bookings.EnsureIndexes(); err != nil {
		return err
	}
	if err := reviews.EnsureIndexes(); err != nil {
		return err
	}

	// session cache.
	var cache booking.SessionCache
	var redisClient *redis.Client
	switch cfg.SessionStore {
	case "redis":
		redisClient = utils.GetSessionCacheClient()
		cache = booking.NewRedisSessionCache(redisClient)
	case "memory", "":
		cache = booking.NewMemorySessionCache()
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}
	utils.StartHealthMonitor(ctx, redisClient, database.MongoClient)

	// payments.
	gateway, err := newGateway()
	if err != nil {
		return err
	}
	processor := payment.NewProcessor(gateway, cfg.PaymentTimeout, cfg.PaymentCurrency, logger)

	// notifications, events and reminders.
	notifier, err := newNotifier(ctx, logger)
	if err != nil {
		return err
	}
	queue := asynq.NewClient(cron.QueueRedisOpt())
	defer queue.Close()

	confirmation := &booking.DefaultBookingConfirmation{
		Repo:      bookings,
		Reminders: tasks.NewReminderScheduler(queue, logger),
		Notifier:  notifier,
		LeadTime:  cfg.ReminderLeadTime,
		Logger:    logger,
	}
	if cfg.EventsEnabled {
		confirmation.Events = events.NewAMQPPublisher(cfg.AMQPURL, logger)
	}

	// services.
	sessions := booking.NewBookingSessionService(booking.SessionOptions{
		Catalog:      catalog,
		Processor:    processor,
		Cache:        cache,
		Confirmation: confirmation,
		TTL:          cfg.SessionTTL,
		Logger:       logger,
	})
	reviewService := review.NewReviewService(reviews, catalog, logger)
	dashboardService := &dashboard.DefaultDashboardService{
		Analytics: analytics,
		Bookings:  bookings,
		Services:  catalog,
		Reviews:   reviewService,
		Logger:    logger,
	}
	shareService := profile.NewShareService(cfg.PublicBaseURL, catalog, notifier, logger)

	sweeper, err := cron.StartSessionSweeper(sessions, cfg.SessionSweepSchedule, cfg.SessionMaxIdle, logger)
	if err != nil {
		return err
	}
	defer sweeper.Stop()

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(sessions),
		handlers.NewReviewHandler(reviewService),
		handlers.NewDashboardHandler(dashboardService),
		handlers.NewProfileHandler(shareService),
	)
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("main: server stopped gracefully")
	return nil
}

// newCatalog picks the catalog backend. The mongo catalog is seeded with
// the demo listing on first start.
func newCatalog(ctx context.Context, logger *zap.Logger) (catalogStore, error) {
	static := booking.NewStaticCatalog()
	switch config.AppConfig.CatalogSource {
	case "static", "":
		return static, nil
	case "mongo":
		repo := catalogRepo.NewMongoCatalogRepo()
		if err := repo.EnsureIndexes(); err != nil {
			return nil, err
		}
		services, professionals := static.Listing()
		if err := repo.Seed(ctx, services, professionals); err != nil {
			return nil, err
		}
		logger.Info("Catalog seeded", zap.Int("services", len(services)), zap.Int("professionals", len(professionals)))
		return repo, nil
	}
	return nil, fmt.Errorf("unknown CATALOG_SOURCE %q", config.AppConfig.CatalogSource)
}

func newGateway() (payment.Gateway, error) {
	cfg := config.AppConfig
	switch cfg.PaymentGateway {
	case "simulated", "":
		return payment.NewSimulatedGateway(cfg.SimulatedPaymentDelay, cfg.SimulatedSuccessRate), nil
	case "stripe":
		if cfg.StripeKey == "" {
			return nil, errors.New("PAYMENT_GATEWAY=stripe requires STRIPE_KEY")
		}
		return payment.NewStripeGateway(cfg.StripeKey), nil
	}
	return nil, fmt.Errorf("unknown PAYMENT_GATEWAY %q", cfg.PaymentGateway)
}

func newNotifier(ctx context.Context, logger *zap.Logger) (notification.Notifier, error) {
	if !config.AppConfig.PushEnabled {
		return notification.NewLogNotifier(logger), nil
	}
	client, err := utils.NewMessagingClient(ctx)
	if err != nil {
		return nil, err
	}
	return notification.NewFCMNotifier(client, logger)
}
