package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	appanalytics "github.com/jhoicas/Estoque-api/internal/application/analytics"
	"github.com/jhoicas/Estoque-api/internal/application/audit"
	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/live"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	infraMongo "github.com/jhoicas/Estoque-api/internal/infrastructure/mongodb"
	infrapdf "github.com/jhoicas/Estoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/postgres"
	infraRedis "github.com/jhoicas/Estoque-api/internal/infrastructure/redis"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/Estoque-api/internal/interfaces/http"
	"github.com/jhoicas/Estoque-api/pkg/config"
	"github.com/jhoicas/Estoque-api/pkg/logger"
	"github.com/jhoicas/Estoque-api/pkg/metrics"
	"github.com/jhoicas/Estoque-api/pkg/migrate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	if cfg.App.AutoMigrate {
		db := postgres.SQLDB(pool)
		if err := migrate.Run(ctx, db, "up"); err != nil {
			log.Fatal().Err(err).Msg("migrações")
		}
		_ = db.Close()
		log.Info().Msg("migrações aplicadas")
	}

	// Métricas
	stockMetrics := metrics.NewStockMetrics(prometheus.DefaultRegisterer)
	cronMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	// Repositorios
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	levelRepo := postgres.NewStockLevelRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	categoryRepo := mustCatalog(log, pool, entity.CatalogCategories)
	manufacturerRepo := mustCatalog(log, pool, entity.CatalogManufacturers)
	projectRepo := mustCatalog(log, pool, entity.CatalogProjects)
	txRunner := postgres.NewTxRunner(pool)

	// Auditoría: MongoDB si hay URI, si no la tabla audit_log.
	var auditRepo repository.AuditRepository = postgres.NewAuditRepository(pool)
	if cfg.Mongo.Enabled() {
		mongoRepo, err := infraMongo.NewAuditRepository(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("conexão com MongoDB")
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoRepo.Close(closeCtx)
		}()
		auditRepo = mongoRepo
		log.Info().Str("database", cfg.Mongo.Database).Msg("auditoria em MongoDB")
	}
	auditLog := audit.NewLogger(auditRepo, log.Component("audit"), cfg.Inventory.AuditQueueSize)

	// Casos de uso
	registerMovementUC := inventory.NewRegisterMovementUseCase(
		txRunner, productRepo, locationRepo, auditLog, log.Zerolog(),
		inventory.WithMaxAttempts(cfg.Inventory.MovementMaxAttempts),
		inventory.WithObserver(stockMetrics),
	)
	deleteProductUC := inventory.NewDeleteProductUseCase(
		txRunner, auditLog, log.Zerolog(), cfg.Inventory.MovementMaxAttempts, stockMetrics,
	)
	stockQueryUC := inventory.NewStockQueryUseCase(productRepo, levelRepo, locationRepo)
	productUC := usecase.NewProductUseCase(productRepo, usecase.ProductRefs{
		Categories:    categoryRepo,
		Manufacturers: manufacturerRepo,
		Suppliers:     supplierRepo,
	}, stockQueryUC, auditLog)
	locationUC := usecase.NewLocationUseCase(locationRepo, levelRepo, projectRepo, auditLog)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, auditLog)
	userUC := usecase.NewUserUseCase(userRepo, companyRepo)
	reportUC := appanalytics.NewReportUseCase(
		ledgerRepo, levelRepo, productRepo, locationRepo, manufacturerRepo, companyRepo,
		infrapdf.NewMarotoPDFGenerator(),
	)
	dashboardUC := appanalytics.NewDashboardUseCase(productRepo, stockQueryUC, reportUC)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auditLog, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Feed en vivo alimentado por LISTEN stock_changes.
	feed := live.NewFeed(levelRepo, log.Zerolog(), cfg.Inventory.FeedBuffer)
	listener := postgres.NewStockListener(pool, feed, log.Zerolog())
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		listener.Run(ctx)
	}()

	// Idempotencia (opcional)
	var idem httpRouter.IdempotencyStore
	if cfg.Redis.Enabled() {
		store, err := infraRedis.NewIdempotencyStore(ctx, cfg.Redis.URL, time.Duration(cfg.Redis.IdempotencyTTLHours)*time.Hour)
		if err != nil {
			log.Fatal().Err(err).Msg("conexão com Redis")
		}
		defer store.Close()
		idem = store
	}

	// Jobs
	jobs := scheduler.NewScheduler(companyRepo, stockQueryUC, stockMetrics, cronMetrics, log.Zerolog())
	if err := jobs.Start(cfg.Scheduler.LowStockCron); err != nil {
		log.Fatal().Err(err).Msg("agendador")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: 0, // el stream SSE es de larga duración
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		UserUC:           userUC,
		ProductUC:        productUC,
		LocationUC:       locationUC,
		SupplierUC:       supplierUC,
		CategoryUC:       usecase.NewCatalogUseCase(entity.CatalogCategories, categoryRepo, auditLog),
		ManufacturerUC:   usecase.NewCatalogUseCase(entity.CatalogManufacturers, manufacturerRepo, auditLog),
		ProjectUC:        usecase.NewCatalogUseCase(entity.CatalogProjects, projectRepo, auditLog),
		RegisterMovement: registerMovementUC,
		DeleteProduct:    deleteProductUC,
		StockQuery:       stockQueryUC,
		ReportUC:         reportUC,
		DashboardUC:      dashboardUC,
		Audit:            auditLog,
		Feed:             feed,
		Idempotency:      idem,
		Metrics:          prometheus.DefaultGatherer,
		JWTSecret:        cfg.JWT.Secret,
		Log:              log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	// Cerrar el feed primero libera los streams SSE abiertos.
	feed.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	jobs.Stop()
	stop()
	<-listenerDone
	auditLog.Close()

	log.Info().Msg("aplicação encerrada")
}

func mustCatalog(log *logger.Logger, q postgres.Querier, catalog string) *postgres.CatalogRepo {
	repo, err := postgres.NewCatalogRepository(q, catalog)
	if err != nil {
		log.Fatal().Err(err).Str("catalog", catalog).Msg("repositório de catálogo")
	}
	return repo
}
