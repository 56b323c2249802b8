package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/auth"
	"github.com/jhoicas/puntoventa-api/internal/application/ledger"
	"github.com/jhoicas/puntoventa-api/internal/application/sales"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ItemUC     *usecase.ItemUseCase
	CategoryUC *usecase.CategoryUseCase
	SupplierUC *usecase.SupplierUseCase
	CustomerUC *usecase.CustomerUseCase
	PurchaseUC *usecase.PurchaseUseCase
	CheckoutUC *sales.CheckoutUseCase
	SessionUC  *usecase.SessionUseCase
	SettingsUC *usecase.SettingsUseCase
	ReportUC   *usecase.ReportUseCase
	LedgerUC   *ledger.StockLedgerUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
// Las mutaciones de catálogo, compras y configuración exigen rol admin;
// ventas, sesiones de caja y lecturas están abiertas a cualquier usuario
// autenticado (cajero o admin).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(entity.RoleAdmin)

	// Items (protegido; mutaciones solo admin)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", admin, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", admin, itemHandler.Update)
	items.Delete("/:id", admin, itemHandler.Delete)

	// Categories (protegido; mutaciones solo admin)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", admin, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", admin, categoryHandler.Update)
	categories.Delete("/:id", admin, categoryHandler.Delete)

	// Suppliers (protegido; mutaciones solo admin)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", admin, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", admin, supplierHandler.Update)
	suppliers.Delete("/:id", admin, supplierHandler.Delete)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", admin, customerHandler.Delete)

	// Inventario: ajustes y kardex (ajustes solo admin)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.ReportUC)
	invGroup.Post("/adjustments", admin, inventoryHandler.PostAdjustment)
	invGroup.Get("/movements", inventoryHandler.RecentMovements)
	invGroup.Get("/items/:id/card", inventoryHandler.StockCard)

	// Órdenes de compra y recepciones (solo admin)
	purchases := protected.Group("/purchase-orders", admin)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.CreateOrder)
	purchases.Get("/", purchaseHandler.ListOrders)
	purchases.Get("/:id", purchaseHandler.GetOrder)
	receipts := protected.Group("/receipts", admin)
	receipts.Post("/", purchaseHandler.PostReceipt)

	// Ventas (protegido; cajeros y admin)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CheckoutUC)
	salesGroup.Post("/", saleHandler.Checkout)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/confirm-payment", saleHandler.ConfirmPayment)
	salesGroup.Get("/:id/receipt.pdf", saleHandler.ReceiptPDF)

	// Sesiones de caja (protegido)
	sessions := protected.Group("/sessions")
	sessionHandler := NewSessionHandler(deps.SessionUC)
	sessions.Post("/open", sessionHandler.Open)
	sessions.Post("/:id/close", sessionHandler.Close)
	sessions.Get("/current", sessionHandler.Current)
	sessions.Get("/", admin, sessionHandler.List)

	// Reportes (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/stock.xlsx", reportHandler.ExportStockList)
	reports.Get("/items/:id/kardex.xlsx", reportHandler.ExportStockCard)

	// Configuración (solo admin)
	settings := protected.Group("/settings", admin)
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings.Get("/", settingsHandler.GetAll)
	settings.Put("/", settingsHandler.Upsert)
}
