package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boothledger/backend/internal/application/identity"
	rentalapp "github.com/boothledger/backend/internal/application/rental"
	"github.com/boothledger/backend/internal/infrastructure/auth"
	"github.com/boothledger/backend/internal/infrastructure/cache"
	"github.com/boothledger/backend/internal/infrastructure/config"
	"github.com/boothledger/backend/internal/infrastructure/event"
	"github.com/boothledger/backend/internal/infrastructure/logger"
	"github.com/boothledger/backend/internal/infrastructure/notification"
	"github.com/boothledger/backend/internal/infrastructure/persistence"
	"github.com/boothledger/backend/internal/interfaces/http/handler"
	"github.com/boothledger/backend/internal/interfaces/http/middleware"
	"github.com/boothledger/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Booth Ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	renterRepo := persistence.NewGormRenterRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	historyRepo := persistence.NewGormHistoryEventRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Mail outbox and templates
	mailOutbox := notification.NewGormMailOutbox(db.DB)
	renderer, err := notification.NewTextTemplateRenderer(cfg.Mail.FromName)
	if err != nil {
		log.Fatal("Failed to initialize mail templates", zap.Error(err))
	}

	// Idempotency store (Redis when enabled, in-memory otherwise)
	idempotencyStore, err := cache.NewIdempotencyStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}

	// Initialize event bus and the activity log subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	paymentService := rentalapp.NewPaymentService(
		txScope, renterRepo, ledgerRepo, tenantRepo, renderer, mailOutbox, eventBus, idempotencyStore, log,
	).WithRetryPolicy(rentalapp.RetryPolicy{
		MaxAttempts: cfg.Billing.ConflictMaxAttempts,
		Backoff:     cfg.Billing.ConflictBackoff,
	})
	reminderService := rentalapp.NewReminderService(
		renterRepo, ledgerRepo, tenantRepo, historyRepo, renderer, mailOutbox, eventBus, log,
	)
	renterService := rentalapp.NewRenterService(txScope, renterRepo, ledgerRepo, historyRepo, eventBus, log)
	receiptService := rentalapp.NewReceiptService(receiptRepo)
	tenantService := identity.NewTenantService(tenantRepo, txScope, mailOutbox, eventBus, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	tenantHandler := handler.NewTenantHandler(tenantService)
	renterHandler := handler.NewRenterHandler(renterService)
	paymentHandler := handler.NewPaymentHandler(paymentService, receiptService)
	reminderHandler := handler.NewReminderHandler(reminderService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging, CORS
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))

	// Health check endpoint (outside API versioning, no auth)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	}))

	tenantScoped := middleware.TenantMiddleware(tenantService)

	// Shop account routes. Creation and lookup work before a shop exists, so
	// they skip the tenant resolution middleware.
	shopRoutes := router.NewDomainGroup("shops", "/shops")
	shopRoutes.POST("", tenantHandler.CreateShop)
	shopRoutes.GET("/me", tenantHandler.GetMyShop)
	shopRoutes.PUT("/me/settings", tenantScoped, tenantHandler.UpdateSettings)
	shopRoutes.DELETE("/me", tenantScoped, tenantHandler.PurgeShop)

	// Renter roster, ledger and reminder routes
	renterRoutes := router.NewDomainGroup("renters", "/renters")
	renterRoutes.Use(tenantScoped)
	renterRoutes.POST("", renterHandler.Create)
	renterRoutes.GET("", renterHandler.List)
	renterRoutes.GET("/summary", renterHandler.GetSummary)
	renterRoutes.GET("/:id", renterHandler.GetByID)
	renterRoutes.PUT("/:id", renterHandler.Update)
	renterRoutes.DELETE("/:id", renterHandler.Delete)
	renterRoutes.GET("/:id/ledger", renterHandler.ListLedger)
	renterRoutes.GET("/:id/history", renterHandler.ListHistory)
	renterRoutes.POST("/:id/payments", paymentHandler.RecordPayment)
	renterRoutes.POST("/:id/adjustments", paymentHandler.AdjustBalance)
	renterRoutes.GET("/:id/receipts", paymentHandler.ListReceipts)
	renterRoutes.POST("/:id/receipts/email", paymentHandler.EmailReceipt)
	renterRoutes.POST("/:id/reminders", reminderHandler.SendReminder)
	renterRoutes.DELETE("/:id/reminders", reminderHandler.ClearReminder)
	renterRoutes.POST("/:id/past-due", reminderHandler.MarkPastDue)

	// Shop-wide billing routes
	billingRoutes := router.NewDomainGroup("billing", "")
	billingRoutes.Use(tenantScoped)
	billingRoutes.POST("/charges/batch", paymentHandler.CreateBatchCharge)
	billingRoutes.GET("/receipts/:id", paymentHandler.GetReceipt)
	billingRoutes.GET("/history", renterHandler.ListShopHistory)

	r.Register(shopRoutes).
		Register(renterRoutes).
		Register(billingRoutes)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
