package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/Estoque-api/internal/application/analytics"
	"github.com/jhoicas/Estoque-api/internal/application/audit"
	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	UserUC           *usecase.UserUseCase
	ProductUC        *usecase.ProductUseCase
	LocationUC       *usecase.LocationUseCase
	SupplierUC       *usecase.SupplierUseCase
	CategoryUC       *usecase.CatalogUseCase
	ManufacturerUC   *usecase.CatalogUseCase
	ProjectUC        *usecase.CatalogUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	DeleteProduct    *inventory.DeleteProductUseCase
	StockQuery       *inventory.StockQueryUseCase
	ReportUC         *appanalytics.ReportUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	Audit            *audit.Logger
	Feed             StockFeed
	Idempotency      IdempotencyStore
	Metrics          prometheus.Gatherer
	JWTSecret        string
	Log              zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", requestLogger(deps.Log))

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register-company", authHandler.RegisterCompany)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	masterOnly := RequireRole(entity.RoleMaster)
	idempotent := Idempotency(deps.Idempotency, deps.Log)

	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/company", userHandler.Company)
	users := protected.Group("/users")
	users.Get("/", userHandler.List)
	users.Get("/me", userHandler.Me)
	users.Post("/", masterOnly, authHandler.RegisterUser)

	productHandler := NewProductHandler(deps.ProductUC, deps.DeleteProduct)
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", masterOnly, idempotent, productHandler.Delete)

	locationHandler := NewLocationHandler(deps.LocationUC)
	locations := protected.Group("/locations")
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	for _, uc := range []*usecase.CatalogUseCase{deps.CategoryUC, deps.ManufacturerUC, deps.ProjectUC} {
		if uc == nil {
			continue
		}
		h := NewCatalogHandler(uc)
		g := protected.Group("/" + uc.Catalog())
		g.Post("/", h.Create)
		g.Get("/", h.List)
		g.Put("/:id", h.Rename)
		g.Delete("/:id", h.Delete)
	}

	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockQuery, deps.Feed, deps.Log)
	stock := protected.Group("/stock")
	stock.Post("/movements", idempotent, inventoryHandler.RegisterMovement)
	stock.Get("/products/:id", inventoryHandler.ProductStock)
	stock.Get("/overview", inventoryHandler.Overview)
	stock.Get("/low", inventoryHandler.LowStock)
	if deps.Feed != nil {
		stock.Get("/stream", inventoryHandler.Stream)
	}

	reportHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reports")
	reports.Get("/movements", reportHandler.Movements)
	reports.Get("/movements/by-user/:userId", reportHandler.MovementsByUser)
	reports.Get("/stock-by-location/:locationId", reportHandler.StockByLocation)
	reports.Get("/stock-by-location/:locationId/pdf", reportHandler.StockByLocationPDF)
	reports.Get("/low-stock", inventoryHandler.LowStock)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Audit)
	protected.Get("/dashboard", dashboardHandler.GetSummary)
	protected.Get("/audit", masterOnly, dashboardHandler.Audit)
}
