package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-admin-api/internal/application/auth"
	"github.com/jhoicas/retail-admin-api/internal/application/inventory"
	"github.com/jhoicas/retail-admin-api/internal/application/reports"
	"github.com/jhoicas/retail-admin-api/internal/application/sales"
	"github.com/jhoicas/retail-admin-api/internal/application/usecase"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	StoreUC   *usecase.StoreUseCase
	ProductUC *usecase.ProductUseCase
	ClientUC  *usecase.ClientUseCase
	ExpenseUC *usecase.ExpenseUseCase
	StockUC   *inventory.StockUseCase
	SaleUC    *sales.SaleUseCase
	ReceiptUC *sales.ReceiptUseCase
	IncomeUC  *reports.IncomeUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	managers := RequireRole(entity.RoleSuperuser, entity.RoleAdmin)
	superuser := RequireRole(entity.RoleSuperuser)

	// Auth: login público; el alta de usuarios la hace un admin
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/register", managers, authHandler.Register)
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/users", managers, authHandler.ListUsers)
	protected.Patch("/users/:id/status", managers, authHandler.SetUserStatus)

	// Stores
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores := protected.Group("/stores")
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Post("/", superuser, storeHandler.Create)
	stores.Put("/:id", superuser, storeHandler.Update)
	stores.Delete("/:id", superuser, storeHandler.Delete)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC)
	protected.Get("/categories", productHandler.ListCategories)
	protected.Post("/categories", managers, productHandler.CreateCategory)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", managers, productHandler.Create)
	products.Put("/:id", managers, productHandler.Update)
	products.Delete("/:id", managers, productHandler.Delete)

	// Lotes, traslados y reciclajes
	stockHandler := NewStockHandler(deps.StockUC)
	stock := protected.Group("/stock")
	stock.Get("/", stockHandler.ListLots)
	stock.Get("/:id", stockHandler.GetLot)
	stock.Get("/:id/movements", stockHandler.Movements)
	stock.Post("/", managers, stockHandler.ReceiveLot)
	protected.Post("/transfers", managers, stockHandler.Transfer)
	protected.Get("/recyclings", stockHandler.ListRecyclings)
	protected.Post("/recyclings", managers, stockHandler.CreateRecycling)

	// Clients
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := protected.Group("/clients")
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)

	// Sales
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC)
	salesGroup := protected.Group("/sales")
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Post("/preview", managers, saleHandler.PreviewProfit)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", managers, saleHandler.Delete)

	// Expenses y reportes (solo gestión)
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenses := protected.Group("/expenses", managers)
	expenses.Get("/", expenseHandler.List)
	expenses.Post("/", expenseHandler.Create)

	reportHandler := NewReportHandler(deps.IncomeUC)
	reportsGroup := protected.Group("/reports", managers)
	reportsGroup.Get("/income", reportHandler.Income)
	reportsGroup.Get("/income.xlsx", reportHandler.IncomeExcel)
}
