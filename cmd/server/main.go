package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	paymentapp "github.com/valepresente/backend/internal/application/payment"
	storeapp "github.com/valepresente/backend/internal/application/store"
	voucherapp "github.com/valepresente/backend/internal/application/voucher"
	"github.com/valepresente/backend/internal/domain/voucher"
	"github.com/valepresente/backend/internal/infrastructure/auth"
	"github.com/valepresente/backend/internal/infrastructure/cache"
	"github.com/valepresente/backend/internal/infrastructure/config"
	"github.com/valepresente/backend/internal/infrastructure/logger"
	asaas "github.com/valepresente/backend/internal/infrastructure/payment"
	"github.com/valepresente/backend/internal/infrastructure/persistence"
	"github.com/valepresente/backend/internal/infrastructure/scheduler"
	"github.com/valepresente/backend/internal/interfaces/http/handler"
	"github.com/valepresente/backend/internal/interfaces/http/middleware"
	"github.com/valepresente/backend/internal/interfaces/http/router"
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

	log.Info("Starting Vale-Presente Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	sessionRepo := persistence.NewGormPaymentSessionRepository(db.DB)

	// Confirmation lock: Redis when configured, in-process otherwise
	var confirmationLock paymentapp.ConfirmationLock
	if cfg.Redis.Host != "" {
		redisLock, err := cache.NewRedisConfirmationLock(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisLock.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		confirmationLock = redisLock
		log.Info("Redis confirmation lock enabled",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port))
	} else {
		confirmationLock = cache.NewInMemoryConfirmationLock()
		log.Warn("Redis not configured, using in-process confirmation lock")
	}

	// PIX gateway
	gateway := asaas.NewAsaasAdapter(cfg.Payment.AsaasBaseURL, cfg.Payment.RequestTimeout)

	// Application services
	storeService := storeapp.NewService(storeRepo, log)
	voucherService := voucherapp.NewService(voucherRepo, storeRepo, voucher.NewRandomCodeGenerator(), cfg.Voucher.TTL, log)
	paymentService := paymentapp.NewService(sessionRepo, storeRepo, gateway, voucherService, confirmationLock, paymentapp.Config{
		MinimumAmount: cfg.Payment.MinimumAmount,
		SessionTTL:    cfg.Payment.SessionTTL,
	}, log)

	// JWT
	jwtService := auth.NewJWTService(cfg.JWT)

	// Expiry sweeper keeps voucher and session statuses settling even when
	// nobody polls
	if cfg.Scheduler.Enabled {
		sweeperCfg := scheduler.DefaultExpirySweeperConfig()
		if cfg.Scheduler.SweepInterval > 0 {
			sweeperCfg.Interval = cfg.Scheduler.SweepInterval
		}
		sweeper := scheduler.NewExpirySweeper(sweeperCfg, voucherService, paymentService, log)
		if err := sweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start expiry sweeper", zap.Error(err))
		}
		defer func() {
			if err := sweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping expiry sweeper", zap.Error(err))
			}
		}()
	}

	// HTTP handlers
	storeHandler := handler.NewStoreHandler(storeService)
	voucherHandler := handler.NewVoucherHandler(voucherService, storeService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	healthHandler := handler.NewHealthHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Root-level liveness probe, outside API versioning
	engine.GET("/health", healthHandler.Health)

	// Authentication is applied per route group: the store catalog and the
	// probes stay public, everything else requires a token
	authMW := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	})
	adminOnly := middleware.RequireRole(auth.RoleAdmin)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.NewHealthRoutes(healthHandler)).
		Register(router.NewStoreRoutes(storeHandler, authMW, adminOnly)).
		Register(router.NewVoucherRoutes(voucherHandler, authMW)).
		Register(router.NewPaymentRoutes(paymentHandler, authMW)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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
