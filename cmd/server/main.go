package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	crmapp "github.com/agency/backend/internal/application/crm"
	customerapp "github.com/agency/backend/internal/application/customer"
	financeapp "github.com/agency/backend/internal/application/finance"
	"github.com/agency/backend/internal/application/functions"
	integrationapp "github.com/agency/backend/internal/application/integration"
	printingapp "github.com/agency/backend/internal/application/printing"
	reportapp "github.com/agency/backend/internal/application/report"
	settingsapp "github.com/agency/backend/internal/application/settings"
	tradeapp "github.com/agency/backend/internal/application/trade"
	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/infrastructure/auth"
	"github.com/agency/backend/internal/infrastructure/cache"
	"github.com/agency/backend/internal/infrastructure/config"
	"github.com/agency/backend/internal/infrastructure/event"
	"github.com/agency/backend/internal/infrastructure/export"
	"github.com/agency/backend/internal/infrastructure/logger"
	"github.com/agency/backend/internal/infrastructure/messaging"
	"github.com/agency/backend/internal/infrastructure/migration"
	"github.com/agency/backend/internal/infrastructure/notification"
	"github.com/agency/backend/internal/infrastructure/persistence"
	"github.com/agency/backend/internal/infrastructure/printing"
	"github.com/agency/backend/internal/infrastructure/scheduler"
	"github.com/agency/backend/internal/infrastructure/storage"
	"github.com/agency/backend/internal/infrastructure/telemetry"
	"github.com/agency/backend/internal/infrastructure/webhook"
	"github.com/agency/backend/internal/interfaces/http/handler"
	"github.com/agency/backend/internal/interfaces/http/middleware"
	"github.com/agency/backend/internal/interfaces/http/router"
	"github.com/agency/backend/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/agency/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const version = "1.0.0"

//	@title			Agency Backend API
//	@version		1.0
//	@description	Back office API for a printing and advertising agency: customers, orders, finance, printing, CRM and reports.

//	@contact.name	API Support

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OpenTelemetry: logs bridge first so every later component logs through it
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}
	otelLevel, err := zapcore.ParseLevel(cfg.Telemetry.LogsLevel)
	if err != nil {
		otelLevel = zapcore.InfoLevel
	}
	log := telemetry.Bridge(baseLog, logProvider, cfg.Telemetry.ServiceName, otelLevel)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Agency Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", cfg.App.Timezone),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for name, shutdown := range map[string]func(context.Context) error{
			"tracer": tracerProvider.Shutdown,
			"meter":  meterProvider.Shutdown,
			"logs":   logProvider.Shutdown,
		} {
			if err := shutdown(shutdownCtx); err != nil {
				baseLog.Error("Error shutting down telemetry", zap.String("provider", name), zap.Error(err))
			}
		}
	}()

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider.Meter("agency-backend/db"), cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	defer func() {
		_ = dbMetrics.Stop()
	}()

	if cfg.Database.AutoMigrate {
		if err := migrate(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Repositories
	loc := cfg.App.Location()
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	groupRepo := persistence.NewGormCustomerGroupRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	journalRepo := persistence.NewGormJournalEntryRepository(db.DB)
	printOrderRepo := persistence.NewGormPrintOrderRepository(db.DB)
	materialRepo := persistence.NewGormPrintMaterialRepository(db.DB)
	webhookRepo := persistence.NewGormWebhookRepository(db.DB)
	evaluationRepo := persistence.NewGormEvaluationRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	settingsRepo := persistence.NewGormCompanySettingsRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB, loc)
	numbers := persistence.NewGormNumberGenerator(db.DB)
	financeScope := persistence.NewGormFinanceTransactionScope(db.DB)
	printingScope := persistence.NewGormPrintingTransactionScope(db.DB)

	// Object storage, dashboard cache, PDF rendering
	buckets, err := storage.NewBuckets(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	dashboardCache, err := cache.NewDashboardCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to initialize dashboard cache", zap.Error(err))
	}
	defer func() {
		_ = dashboardCache.Close()
	}()

	var pdf printing.PDFRenderer
	if cfg.PDF.Enabled {
		chrome := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.PDF.Timeout,
			RemoteURL:      cfg.PDF.RemoteURL,
			NoSandbox:      cfg.PDF.NoSandbox,
			Logger:         log,
		})
		defer func() {
			_ = chrome.Close()
		}()
		pdf = chrome
	}
	invoiceRenderer := printing.NewInvoicePDFRenderer(
		printing.NewTemplateEngine(printing.WithLocation(loc)),
		pdf,
		buckets.CompanyAssets,
		log,
	)

	// Application services
	settingsService := settingsapp.NewSettingsService(settingsRepo, buckets.CompanyAssets, log)
	senders := crmapp.Senders{
		crm.ChannelWhatsApp: messaging.NewWhatsAppSender(settingsRepo, cfg.Messaging.WhatsAppGatewayURL, cfg.Messaging.WhatsAppToken, cfg.Messaging.Timeout, log),
	}
	if cfg.Messaging.ResendAPIKey != "" {
		senders[crm.ChannelEmail] = messaging.NewEmailSender(cfg.Messaging.ResendAPIKey, cfg.Messaging.EmailFrom, func(ctx context.Context) string {
			current, err := settingsService.Get(ctx)
			if err != nil {
				return ""
			}
			return current.CompanyName
		}, log)
	}

	customerService := customerapp.NewCustomerService(customerRepo)
	groupService := customerapp.NewGroupService(groupRepo, customerRepo)
	orderService := tradeapp.NewOrderService(orderRepo, customerRepo, numbers, log)
	paymentService := financeapp.NewPaymentService(paymentRepo, financeScope, log)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, customerRepo, settingsRepo, numbers, financeScope, log)
	invoiceService.SetRenderer(invoiceRenderer)
	expenseService := financeapp.NewExpenseService(expenseRepo, numbers, financeScope, buckets.PrintFiles, log)
	accountingService := financeapp.NewAccountingService(accountRepo, journalRepo, financeScope)
	printOrderService := printingapp.NewPrintOrderService(printOrderRepo, printingScope, buckets.PrintFiles, log)
	materialService := printingapp.NewMaterialService(materialRepo, printOrderRepo, printingScope, log)
	webhookSender := webhook.NewHTTPSender(cfg.Webhook.Timeout, webhook.WithLogger(log))
	webhookService := integrationapp.NewWebhookService(webhookRepo, webhookSender, cfg.Webhook.Timeout, log)
	evaluationService := crmapp.NewEvaluationService(evaluationRepo, customerRepo, settingsRepo, senders, log)
	campaignService := crmapp.NewCampaignService(campaignRepo, customerRepo, groupRepo, senders, log)
	reportService := reportapp.NewReportService(reportRepo, orderRepo, dashboardCache, loc, log)

	registry := functions.NewRegistry(log)
	registry.RegisterBuiltins(functions.Services{
		Invoices: invoiceService,
		Expenses: expenseService,
		Reviews:  evaluationService,
		Webhooks: webhookService,
	})

	// Event bus: webhooks, live notifications, metrics, dashboard cache
	eventBus := event.NewInMemoryEventBus(log)

	dispatcher := integrationapp.NewWebhookDispatcher(webhookRepo, webhookSender, cfg.Webhook.Timeout, log)
	dispatcher.Bind(ctx)
	eventBus.Subscribe(dispatcher)

	hub := notification.NewHub(log)
	go hub.Run(ctx)
	eventBus.Subscribe(hub)

	businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("agency-backend/business"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	eventBus.Subscribe(businessMetrics)

	invalidation := reportapp.NewDashboardInvalidationHandler(dashboardCache, log)
	eventBus.Subscribe(invalidation)

	log.Info("Event handlers registered",
		zap.Strings("webhook_events", dispatcher.EventTypes()),
		zap.Strings("notification_events", hub.EventTypes()),
		zap.Strings("metric_events", businessMetrics.EventTypes()),
		zap.Strings("dashboard_invalidation_events", invalidation.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
		dispatcher.Wait()
	}()

	orderService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	expenseService.SetEventPublisher(eventBus)
	printOrderService.SetEventPublisher(eventBus)
	evaluationService.SetEventPublisher(eventBus)
	campaignService.SetEventPublisher(eventBus)

	// Background jobs
	if cfg.Scheduler.Enabled {
		jobs := scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), log)
		if err := jobs.Register(scheduler.NewCampaignJob(campaignService, log), cfg.Scheduler.CampaignInterval); err != nil {
			log.Fatal("Failed to register campaign job", zap.Error(err))
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobs.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started", zap.Duration("campaign_interval", cfg.Scheduler.CampaignInterval))
	}

	// HTTP handlers
	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if redisCache, ok := dashboardCache.(*cache.RedisDashboardCache); ok {
		checks["redis"] = func(ctx context.Context) error {
			return redisCache.GetClient().Ping(ctx).Err()
		}
	}
	handlers := router.Handlers{
		Customer:      handler.NewCustomerHandler(customerService),
		CustomerGroup: handler.NewCustomerGroupHandler(groupService),
		Order:         handler.NewOrderHandler(orderService),
		Payment:       handler.NewPaymentHandler(paymentService),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		Expense:       handler.NewExpenseHandler(expenseService),
		Accounting:    handler.NewAccountingHandler(accountingService),
		PrintOrder:    handler.NewPrintOrderHandler(printOrderService),
		Material:      handler.NewMaterialHandler(materialService),
		Webhook:       handler.NewWebhookHandler(webhookService),
		Evaluation:    handler.NewEvaluationHandler(evaluationService),
		Campaign:      handler.NewCampaignHandler(campaignService),
		Report:        handler.NewReportHandler(reportService, export.NewExporter(loc)),
		Settings:      handler.NewSettingsHandler(settingsService),
		Function:      handler.NewFunctionHandler(registry),
		System:        handler.NewSystemHandler(cfg.App.Name, version, checks),
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Span per request, tagged with route and request ID
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Metrics - Request counters and latency
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. Timeout - Bound request handling (not /ws)
	// 10. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
		SkipPaths:   []string{"/health", "/ws"},
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meterProvider, log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize, cfg.HTTP.MaxUploadSize))
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout, "/ws"))

	if cfg.HTTP.RateLimitEnabled {
		var limiter middleware.Limiter
		if redisCache, ok := dashboardCache.(*cache.RedisDashboardCache); ok {
			limiter = middleware.NewRedisRateLimiter(redisCache.GetClient(), cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		} else {
			memLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
			defer memLimiter.Stop()
			limiter = memLimiter
		}
		engine.Use(middleware.RateLimit(limiter, log))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Authentication is delegated to the identity provider; without a secret
	// the API runs open (development only, enforced by config validation).
	var (
		jwtMiddleware gin.HandlerFunc
		guard         router.Guard
		tokens        *auth.JWTService
	)
	if cfg.JWT.Secret != "" {
		tokens = auth.NewJWTService(cfg.JWT)
		jwtMiddleware = middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			Validator: tokens,
			SkipPaths: []string{"/api/v1/system/info"},
			Logger:    log,
		})
		guard = middleware.RequireRoles
	} else {
		log.Warn("jwt.secret is empty, API authentication is disabled")
	}

	engine.GET("/health", handlers.System.Health)

	var wsValidator notification.TokenValidator
	if tokens != nil {
		wsValidator = tokens
	}
	engine.GET("/ws", notification.NewHandler(hub, wsValidator, cfg.HTTP.CORSAllowOrigins, log).ServeWS)

	swaggerAuth := jwtMiddleware
	if !cfg.HTTP.SwaggerAuth {
		swaggerAuth = nil
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.HTTP.SwaggerEnabled || !cfg.App.IsProduction(),
			RequireAuth: cfg.HTTP.SwaggerAuth,
			AllowedIPs:  cfg.HTTP.SwaggerAllowedIPs,
		}, swaggerAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var apiMiddleware []gin.HandlerFunc
	if jwtMiddleware != nil {
		apiMiddleware = append(apiMiddleware, jwtMiddleware)
	}
	router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithMiddleware(apiMiddleware...)).
		Register(router.APIGroups(handlers, guard)...).
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrate applies the embedded schema migrations
func migrate(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migration.EmbeddedSource(migrations.FS), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()
	return m.Up()
}
