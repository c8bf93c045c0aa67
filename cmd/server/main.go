package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giftwell/backend/internal/application/gifting"
	"github.com/giftwell/backend/internal/domain/catalog"
	"github.com/giftwell/backend/internal/domain/pricing"
	"github.com/giftwell/backend/internal/infrastructure/cache"
	"github.com/giftwell/backend/internal/infrastructure/config"
	"github.com/giftwell/backend/internal/infrastructure/logger"
	"github.com/giftwell/backend/internal/infrastructure/persistence"
	"github.com/giftwell/backend/internal/interfaces/http/handler"
	"github.com/giftwell/backend/internal/interfaces/http/middleware"
	"github.com/giftwell/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
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

	log.Info("Starting Giftwell Backend",
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

	// Run migrations and seed the gift catalog when empty
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	giftRepo := persistence.NewGormGiftRepository(db.DB)
	preferenceRepo := persistence.NewGormPreferenceRepository(db.DB)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer seedCancel()
	if err := persistence.SeedCatalog(seedCtx, giftRepo); err != nil {
		log.Fatal("Failed to seed gift catalog", zap.Error(err))
	}

	// The cart resolves gift ids against an in-memory snapshot of the
	// catalog; reference data only changes on deploy
	gifts, err := giftRepo.FindAll(seedCtx)
	if err != nil {
		log.Fatal("Failed to load gift catalog", zap.Error(err))
	}
	lookup := catalog.NewStaticLookup(gifts)
	log.Info("Gift catalog loaded", zap.Int("gifts", len(gifts)))

	// Session store: Redis when enabled, otherwise in-process
	var sessionStore gifting.SessionStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisSessionStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Session.TTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		sessionStore = redisStore
		log.Info("Redis session store connected",
			zap.String("host", cfg.Redis.Host),
			zap.Duration("ttl", cfg.Session.TTL),
		)
	} else {
		sessionStore = cache.NewInMemorySessionStore(cfg.Session.TTL)
		log.Info("In-memory session store initialized", zap.Duration("ttl", cfg.Session.TTL))
	}

	// Initialize application services
	feeConfig := pricing.FeeConfig{
		TaxRate:     decimal.NewFromFloat(cfg.Pricing.TaxRate),
		CardFeeRate: decimal.NewFromFloat(cfg.Pricing.CardFeeRate),
		FlatFee:     decimal.NewFromFloat(cfg.Pricing.FlatFee),
	}
	defaultShipping := decimal.NewFromFloat(cfg.Pricing.ShippingCost)

	cartService := gifting.NewCartService(sessionStore, lookup)
	checkoutService := gifting.NewCheckoutService(sessionStore, feeConfig, defaultShipping)
	catalogService := gifting.NewCatalogService(giftRepo)
	preferenceService := gifting.NewPreferenceService(preferenceRepo)

	// Initialize HTTP handlers
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request id, panic recovery, request logging,
	// security headers, CORS, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(cartHandler).
		Register(checkoutHandler).
		Register(catalogHandler).
		Register(preferenceHandler).
		Setup()

	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
