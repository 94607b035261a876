package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/checkout"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/errortranslator"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/paymaya"

	// Inbound adapters
	ginadapter "github.com/micahbule/payments-via-paymongo-for-woo/internal/adapter/inbound/gin"

	// Outbound adapters
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/adapter/outbound/kafka"
	paymayaclient "github.com/micahbule/payments-via-paymongo-for-woo/internal/adapter/outbound/paymaya"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/adapter/outbound/paymongo"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/adapter/outbound/postgres"
	redisadapter "github.com/micahbule/payments-via-paymongo-for-woo/internal/adapter/outbound/redis"
	s3adapter "github.com/micahbule/payments-via-paymongo-for-woo/internal/adapter/outbound/s3"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/adapter/outbound/settlement"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/adapter/outbound/stripe"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"

	// Shared infrastructure
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/infra/events"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/infra/httpclient"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	sharedcache "github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/cache"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/config"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/database"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/logger"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/utils/metrics"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/utils/middleware"
)

const (
	metricsNamespace = "checkout"
	webhookPath      = "/api/v1/webhooks/paymaya"
	startupTimeout   = 15 * time.Second
)

// App wires the checkout service together.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     goredis.UniversalClient
	producer  sarama.SyncProducer
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics
	bus       *events.Bus

	// Domain services
	checkoutDomain checkout.CheckoutDomain
	paymayaDomain  paymaya.PaymayaDomain
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New(metricsNamespace),
		bus:       events.NewBus(zapLog),
	}

	if err := app.initInfrastructure(); err != nil {
		app.Stop()
		return nil, fmt.Errorf("init infrastructure: %w", err)
	}

	if err := app.initDomains(); err != nil {
		app.Stop()
		return nil, fmt.Errorf("init domains: %w", err)
	}

	app.router = app.setupRouter()
	if err := app.registerRoutes(); err != nil {
		app.Stop()
		return nil, fmt.Errorf("register routes: %w", err)
	}

	return app, nil
}

// initInfrastructure opens the database, cache and event producer.
func (a *App) initInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := database.New(&a.config.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	a.db = db

	if a.config.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	// Notices live in Redis, so a checkout cannot run without it.
	redisClient, err := sharedcache.NewRedisClient(ctx, &a.config.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	a.redis = redisClient

	if len(a.config.Kafka.Brokers) > 0 {
		producer, err := kafka.NewSyncProducer(&a.config.Kafka)
		if err != nil {
			return fmt.Errorf("init kafka producer: %w", err)
		}
		a.producer = producer
		a.bus.Register(events.NewMessageHandler(
			kafka.NewProducerAdapter(producer),
			a.config.Kafka.Topic,
			model.SuccessfulPaymentEventName,
		))
	} else {
		a.zapLogger.Info("Kafka brokers not configured, domain events stay in process")
	}

	return nil
}

// initDomains initializes the checkout and PayMaya domains with their adapters.
func (a *App) initDomains() error {
	httpClient := httpclient.New(a.config.HTTPClient, httpclient.UserAgent(a.config.Checkout.Agent, a.config.Checkout.Version))

	orders := postgres.NewCheckoutOrderAdapter(a.db)
	cart := postgres.NewCartAdapter(a.db)
	notices := redisadapter.NewNoticeQueue(a.redis, a.config.Checkout.NoticeTTL)
	port := settlement.New(orders, cart, notices, a.bus, a.metrics, a.zapLogger)
	guard := settlement.NewMeteredGuard(postgres.NewSettlementAdapter(a.db), a.metrics)

	processor, sources, err := selectProcessor(a.config, httpClient, a.metrics, a.zapLogger)
	if err != nil {
		return err
	}

	a.checkoutDomain = checkout.NewCheckoutDomain(
		processor,
		sources,
		port,
		guard,
		errortranslator.New(),
		checkout.Options{
			TestMode:      a.config.PayMongo.TestMode,
			DebugMode:     a.config.PayMongo.DebugMode,
			Agent:         a.config.Checkout.Agent,
			Version:       a.config.Checkout.Version,
			StorefrontURL: a.config.Checkout.StorefrontURL,
		},
		a.zapLogger,
	)

	if !a.config.Paymaya.Enabled {
		return nil
	}

	var archive outbound.StoragePort
	if a.config.Storage.Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		client, err := s3adapter.NewClient(ctx, &a.config.Storage)
		if err != nil {
			return fmt.Errorf("init webhook archive: %w", err)
		}
		archive = s3adapter.NewArchiveAdapter(client, a.config.Storage.Bucket)
	}

	a.paymayaDomain = paymaya.NewPaymayaDomain(
		paymayaclient.NewClient(httpClient, a.config.Paymaya, a.metrics),
		port,
		guard,
		postgres.NewWebhookEventAdapter(a.db),
		archive,
		paymaya.Options{CallbackURL: paymayaCallbackURL(a.config.Checkout.PublicBaseURL)},
		a.zapLogger,
	)

	if a.config.Paymaya.SyncWebhooks {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		if err := a.paymayaDomain.SyncWebhooks(ctx); err != nil {
			a.zapLogger.Warn("PayMaya webhook sync failed, callbacks may not arrive", zap.Error(err))
		}
	}

	return nil
}

// selectProcessor picks the card processor. Only PayMongo also creates
// e-wallet sources.
func selectProcessor(
	cfg *config.Config,
	httpClient *http.Client,
	m *metrics.Metrics,
	log *zap.Logger,
) (outbound.PaymentProcessorPort, outbound.SourceProcessorPort, error) {
	switch strings.ToLower(cfg.Checkout.Processor) {
	case "", "paymongo":
		client := paymongo.NewClient(httpClient, cfg.PayMongo, m, log)
		return client, client, nil
	case "stripe":
		if cfg.Stripe.SecretKey == "" {
			return nil, nil, fmt.Errorf("stripe processor selected without stripe.secret_key")
		}
		return stripe.NewProcessor(httpClient, stripe.Config{SecretKey: cfg.Stripe.SecretKey}, m), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown checkout processor %q", cfg.Checkout.Processor)
	}
}

// paymayaCallbackURL is the webhook URL registered with PayMaya.
func paymayaCallbackURL(publicBaseURL string) string {
	return strings.TrimRight(publicBaseURL, "/") + webhookPath + "?gateway=" + paymaya.GatewayMarker
}

// setupRouter creates the gin engine with global middleware.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.StorefrontCORS(a.config.Server.AllowedOrigins...))
	r.Use(middleware.Metrics(a.metrics))
	if a.config.Tracing.Enabled {
		r.Use(otelgin.Middleware(a.config.Tracing.ServiceName))
	}

	r.GET("/health", a.healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// registerRoutes registers the checkout and webhook routes.
func (a *App) registerRoutes() error {
	if a.config.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	v1 := a.router.Group("/api/v1")

	protected := v1.Group("")
	protected.Use(middleware.RequireAuth(middleware.NewHMACValidator(a.config.Auth.JWTSecret, a.config.Auth.Issuer)))
	ginadapter.RegisterCheckoutRoutes(
		protected,
		ginadapter.NewCheckoutAdapter(a.checkoutDomain, a.paymayaDomain),
		middleware.Idempotency(a.redis, middleware.DefaultIdempotencyConfig()),
	)

	if a.paymayaDomain != nil {
		webhooks, err := ginadapter.NewWebhookAdapter(a.paymayaDomain, a.metrics)
		if err != nil {
			return err
		}
		ginadapter.RegisterWebhookRoutes(v1, webhooks)
	}

	return nil
}

func (a *App) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "redis": "ok"}

	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = "unavailable"
	}
	if err := a.redis.Ping(ctx).Err(); err != nil {
		status = http.StatusServiceUnavailable
		checks["redis"] = "unavailable"
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
}

// Router returns the gin router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases every resource the app opened.
func (a *App) Stop() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.zapLogger.Warn("close kafka producer", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := sharedcache.Close(a.redis); err != nil {
			a.zapLogger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.zapLogger.Warn("close database", zap.Error(err))
		}
	}
	_ = a.zapLogger.Sync()
}
