package http

import (
	"github.com/FernandoLelis/multivendas-backend/internal/application/auth"
	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
	"github.com/FernandoLelis/multivendas-backend/internal/application/sales"
	"github.com/FernandoLelis/multivendas-backend/internal/application/usecase"
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	LotUC       *inventory.LotUseCase
	SaleUC      *sales.UseCase
	StatementUC *sales.StatementUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token); el tenant sale del token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Rutas fijas antes que /:id.
	lots := protected.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC)
	lots.Post("/", lotHandler.Create)
	lots.Get("/", lotHandler.List)
	lots.Get("/alerts", lotHandler.Alerts)
	lots.Get("/balance/:productId", lotHandler.Balance)
	lots.Get("/cost-preview/:productId", lotHandler.CostPreview)
	lots.Get("/product/:productId", lotHandler.ListByProduct)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Put("/:id", lotHandler.Update)
	lots.Delete("/:id", lotHandler.Delete)
	lots.Get("/:id/consumptions", lotHandler.Consumptions)

	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.StatementUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/order/:orderId", saleHandler.GetByOrderID)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", saleHandler.Delete)
	salesGroup.Get("/:id/calculations", saleHandler.Calculations)
	salesGroup.Get("/:id/consumptions", saleHandler.Consumptions)
	salesGroup.Get("/:id/statement.pdf", saleHandler.Statement)
}
