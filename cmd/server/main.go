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

	catalogapp "github.com/backoffice/backend/internal/application/catalog"
	checkoutapp "github.com/backoffice/backend/internal/application/checkout"
	creditapp "github.com/backoffice/backend/internal/application/credit"
	exchangeapp "github.com/backoffice/backend/internal/application/exchange"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/auth"
	"github.com/backoffice/backend/internal/infrastructure/cache"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/payment"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
	"github.com/backoffice/backend/internal/infrastructure/scheduler"
	"github.com/backoffice/backend/internal/interfaces/http/handler"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/backoffice/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	exchangeRepo := persistence.NewGormExchangeRepository(db.DB)
	creditRepo := persistence.NewGormClientCreditRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Transaction scopes
	exchangeScope := persistence.NewGormExchangeTransactionScope(db.DB)
	creditScope := persistence.NewGormCreditTransactionScope(db.DB)
	checkoutScope := persistence.NewGormCheckoutTransactionScope(db.DB)

	// Payment gateway (optional)
	var gateway checkoutapp.PaymentGateway
	if cfg.MercadoPago.Enabled {
		mp, err := payment.NewMercadoPagoAdapter(cfg.MercadoPago)
		if err != nil {
			log.Fatal("Failed to configure payment gateway", zap.Error(err))
		}
		gateway = mp
		log.Info("Payment gateway enabled", zap.String("base_url", cfg.MercadoPago.BaseURL))
	}

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	creditService := creditapp.NewService(creditScope, creditRepo)
	exchangeService := exchangeapp.NewService(
		exchangeScope,
		exchangeRepo,
		saleRepo,
		productRepo,
		exchangeapp.Config{AllowFullReversal: cfg.Exchange.AllowFullReversal},
	)
	checkoutService := checkoutapp.NewService(
		checkoutScope,
		orderRepo,
		saleRepo,
		gateway,
		checkoutapp.Config{ReservationTTL: cfg.Checkout.ReservationTTL},
	)

	// Domain event bus: synchronous in-process delivery, observed through logs
	eventBus := shared.NewInProcessEventBus()
	eventBus.Subscribe(&eventLogHandler{log: log})
	productService.SetEventPublisher(eventBus)
	creditService.SetEventPublisher(eventBus)
	exchangeService.SetEventPublisher(eventBus)
	checkoutService.SetEventPublisher(eventBus)

	// Idempotency store: Redis when reachable, in-memory otherwise
	idempotencyStore := newIdempotencyStore(cfg.Redis, log)
	defer func() {
		_ = idempotencyStore.Close()
	}()

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := newTokenBlacklist(cfg.Redis, log)

	// Reservation sweeper releases stock held by expired pending orders
	if cfg.Scheduler.Enabled {
		sweeper := scheduler.NewReservationSweeper(cfg.Scheduler, checkoutService, log)
		if err := sweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reservation sweeper", zap.Error(err))
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			if err := sweeper.Stop(stopCtx); err != nil {
				log.Error("Failed to stop reservation sweeper", zap.Error(err))
			}
		}()
	}

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	creditHandler := handler.NewCreditHandler(creditService)
	exchangeHandler := handler.NewExchangeHandler(exchangeService, idempotencyStore, log)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, log)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register custom validators", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/system/info",
			"/api/v1/webhooks/payments",
		},
		Logger: log,
	}))

	// Bare health endpoint for load balancers, outside API versioning
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(productHandler).
		Register(creditHandler).
		Register(exchangeHandler).
		Register(checkoutHandler).
		Register(systemHandler)
	r.Setup()

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

// newIdempotencyStore prefers Redis so replay protection survives restarts
// and is shared across instances. When Redis is unreachable it degrades to
// the in-process store rather than refusing to boot.
func newIdempotencyStore(cfg config.RedisConfig, log *zap.Logger) shared.IdempotencyStore {
	store, err := cache.NewRedisIdempotencyStore(cfg)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return cache.NewInMemoryIdempotencyStore()
	}
	log.Info("Idempotency store connected to Redis", zap.String("addr", cfg.Addr()))
	return store
}

// newTokenBlacklist mirrors the idempotency store fallback for revoked JTIs.
func newTokenBlacklist(cfg config.RedisConfig, log *zap.Logger) auth.TokenBlacklist {
	blacklist, err := auth.NewRedisTokenBlacklist(cfg)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return auth.NewInMemoryTokenBlacklist()
	}
	return blacklist
}

// eventLogHandler writes every domain event to the application log. It is
// the only subscriber today; integrations hang off the same bus later.
type eventLogHandler struct {
	log *zap.Logger
}

func (h *eventLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.log.Info("Domain event",
		zap.String("type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

func (h *eventLogHandler) EventTypes() []string {
	return nil
}
