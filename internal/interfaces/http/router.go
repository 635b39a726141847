package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-manager/internal/application/auth"
	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/application/report"
	"github.com/jhoicas/inventory-manager/internal/application/usecase"
	"github.com/jhoicas/inventory-manager/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	ProductUC      *usecase.ProductUseCase
	CategoryUC     *usecase.CategoryUseCase
	SearchUC       *usecase.SearchUseCase
	MovementUC     *inventory.MovementUseCase
	StockReportUC  *report.StockReportUseCase
	JWTSecret      string
	RequestTimeout time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestTimeout(deps.RequestTimeout))

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", RequireAction(access.ProfileRead), authHandler.Me)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", RequireAction(access.CategoryRead), categoryHandler.List)
	categories.Post("/", RequireAction(access.CategoryWrite), categoryHandler.Create)
	categories.Get("/:id", RequireAction(access.CategoryRead), categoryHandler.GetByID)
	categories.Put("/:id", RequireAction(access.CategoryWrite), categoryHandler.Update)
	categories.Delete("/:id", RequireAction(access.CategoryWrite), categoryHandler.Delete)

	// Products: las rutas estáticas van antes de /:id
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.SearchUC)
	products.Get("/search", RequireAction(access.ProductRead), productHandler.Search)
	products.Get("/code/:code", RequireAction(access.ProductRead), productHandler.GetByCode)
	products.Get("/", RequireAction(access.ProductRead), productHandler.List)
	products.Post("/", RequireAction(access.ProductWrite), productHandler.Create)
	products.Get("/:id", RequireAction(access.ProductRead), productHandler.GetByID)
	products.Put("/:id", RequireAction(access.ProductWrite), productHandler.Update)
	products.Delete("/:id", RequireAction(access.ProductWrite), productHandler.Delete)

	// Movements
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC, deps.SearchUC)
	movements.Get("/search", RequireAction(access.MovementList), movementHandler.Search)
	movements.Get("/", RequireAction(access.MovementList), movementHandler.List)
	movements.Post("/", RequireAction(access.MovementWrite), movementHandler.Record)
	movements.Get("/:id", RequireAction(access.MovementDetail), movementHandler.GetByID)
	movements.Delete("/:id", RequireAction(access.MovementWrite), movementHandler.Delete)

	// Reports
	reportHandler := NewReportHandler(deps.StockReportUC)
	protected.Get("/reports/stock.pdf", RequireAction(access.StockReportRead), reportHandler.StockPDF)
}
