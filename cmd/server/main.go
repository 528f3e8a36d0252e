package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/engel-trans/service-checkout/internal/application"
	"github.com/engel-trans/service-checkout/internal/cache"
	"github.com/engel-trans/service-checkout/internal/config"
	"github.com/engel-trans/service-checkout/internal/document"
	"github.com/engel-trans/service-checkout/internal/domain/booking"
	"github.com/engel-trans/service-checkout/internal/events"
	"github.com/engel-trans/service-checkout/internal/handler"
	"github.com/engel-trans/service-checkout/internal/health"
	"github.com/engel-trans/service-checkout/internal/logger"
	"github.com/engel-trans/service-checkout/internal/maps"
	"github.com/engel-trans/service-checkout/internal/middleware"
	"github.com/engel-trans/service-checkout/internal/notification"
	"github.com/engel-trans/service-checkout/internal/payment"
	"github.com/engel-trans/service-checkout/internal/ports"
	"github.com/engel-trans/service-checkout/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "service-checkout"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := health.NewHandler(serviceName)

	// Undelivered notifications always reach the log; the database keeps them
	// when configured.
	recorders := []ports.FallbackRecorder{notification.NewLogRecorder(log)}
	var fallbackRepo *repository.GormFallbackRepository
	if cfg.DBConfig.Enabled() {
		db, err := repository.Connect(ctx, cfg.DBConfig, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		fallbackRepo = repository.NewGormFallbackRepository(db)
		recorders = append(recorders, fallbackRepo)
		healthHandler.Add("database", func(ctx context.Context) error { return repository.Ping(ctx, db) })
	} else {
		log.Warn("no database configured, undelivered notifications are only logged")
	}

	// Maps provider, optionally behind the Redis lookup cache
	mapsClient := maps.NewClient(cfg.MapsConfig.APIKey, cfg.HTTPClientTimeout, log)
	if !mapsClient.Configured() {
		log.Warn("maps api key missing, address search and distance are unavailable")
	}
	var placeProvider ports.PlaceProvider = mapsClient
	var routeProvider ports.RouteProvider = mapsClient
	if cfg.RedisConfig.Enabled() {
		lookupCache := cache.NewCache(cfg.RedisConfig.Addr, cfg.RedisConfig.Username,
			cfg.RedisConfig.Password, cfg.RedisConfig.DB, cfg.RedisConfig.TTL)
		defer func() { _ = lookupCache.Close() }()
		placeProvider = cache.NewPlaceProvider(mapsClient, lookupCache, log)
		routeProvider = cache.NewRouteProvider(mapsClient, lookupCache, log)
		healthHandler.Add("redis", lookupCache.Ping)
	}

	// Event publisher
	var publisher ports.EventPublisher = events.NewNoopPublisher(log)
	if cfg.KafkaConfig.Enabled() {
		producer := events.NewProducer(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	// Notifications
	tariff := booking.StandardTariff()
	renderer, err := notification.NewRenderer(tariff, notification.BankDetails{
		Recipient: cfg.BankConfig.Recipient,
		IBAN:      cfg.BankConfig.IBAN,
		BIC:       cfg.BankConfig.BIC,
		Phone:     cfg.BankConfig.Phone,
	})
	if err != nil {
		log.Fatal("failed to parse email templates", zap.Error(err))
	}
	sender := notification.NewSMTPSender(cfg.MailConfig.Host, cfg.MailConfig.Port,
		cfg.MailConfig.User, cfg.MailConfig.Password, cfg.MailConfig.From, log)
	if !sender.Configured() {
		log.Warn("smtp credentials missing, notifications will be recorded as fallbacks")
	}
	dispatcher := notification.NewDispatcher(sender, notification.NewMultiRecorder(recorders...), renderer,
		notification.Mailboxes{To: cfg.MailConfig.BusinessTo, CC: cfg.MailConfig.BusinessCC}, log)

	// Payment provider
	paypal := payment.NewPayPalClient(cfg.PayPalConfig.ClientID, cfg.PayPalConfig.ClientSecret,
		cfg.PayPalConfig.Environment, cfg.HTTPClientTimeout, log)
	if !cfg.PayPalConfig.Configured() {
		log.Warn("paypal credentials missing, online payment is unavailable")
	}

	// Initialize application services
	pricing := booking.NewStandardPricingStrategy(tariff)
	checkoutService := application.NewCheckoutService(placeProvider, routeProvider, pricing, cfg.MapsConfig.TextFallback, log)
	paymentService := application.NewPaymentService(paypal, dispatcher, publisher, pricing, log)
	estimateService := application.NewEstimateService(dispatcher, publisher, pricing, log)

	// Initialize HTTP handlers
	checkoutHandler := handler.NewCheckoutHandler(checkoutService,
		document.NewQuoteRenderer("ENGEL-TRANS", cfg.MailConfig.From+" | "+cfg.BankConfig.Phone))
	paymentHandler := handler.NewPaymentHandler(paymentService)
	estimateHandler := handler.NewEstimateHandler(estimateService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeaders())

	// Register health check routes
	healthHandler.RegisterRoutes(router)

	// Register routes
	checkoutHandler.RegisterRoutes(&router.RouterGroup)
	paymentHandler.RegisterRoutes(&router.RouterGroup)
	estimateHandler.RegisterRoutes(&router.RouterGroup)

	// Register admin handler routes
	if fallbackRepo != nil && cfg.AdminToken != "" {
		handler.NewAdminFallbackHandler(fallbackRepo, cfg.AdminToken).RegisterRoutes(&router.RouterGroup)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
