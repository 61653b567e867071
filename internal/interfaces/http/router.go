package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/application/pricing"
	"github.com/jhoicas/Tiendas-api/internal/application/purchasing"
	"github.com/jhoicas/Tiendas-api/internal/application/sales"
	"github.com/jhoicas/Tiendas-api/internal/application/transfer"
	"github.com/jhoicas/Tiendas-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger         *inventory.LedgerUseCase
	Pricing        *pricing.PricingUseCase
	PurchaseOrders *purchasing.PurchaseOrderUseCase
	Transfers      *transfer.TransferUseCase
	Sales          *sales.SaleUseCase
	Reconciler     ReconcileRunner
	Enqueuer       ReconcileEnqueuer // nil: la conciliación corre en línea
	JWTSecret      string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	admin := RequireRole(jwt.RoleAdmin)
	stockRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	salesRoles := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor)

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Inventario
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Enqueuer, deps.Reconciler)
	inv.Post("/movements", stockRoles, inventoryHandler.RecordMovement)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/store/:id", inventoryHandler.GetStoreStock)
	inv.Get("/store/:id/export", stockRoles, inventoryHandler.ExportStoreStock)
	inv.Patch("/store/:storeId/products/:variationId", admin, inventoryHandler.UpdateStoreProduct)
	inv.Post("/reconcile", admin, inventoryHandler.Reconcile)

	// Precios y ofertas
	pr := api.Group("/pricing")
	pricingHandler := NewPricingHandler(deps.Pricing)
	pr.Post("/update", admin, pricingHandler.UpdatePrice)
	pr.Get("/history", pricingHandler.GetPriceHistory)
	pr.Post("/offers", admin, pricingHandler.CreateOffer)
	pr.Patch("/offers/:id", admin, pricingHandler.UpdateOffer)
	pr.Get("/price-check/:id", pricingHandler.PriceCheck)
	pr.Get("/catalog/:storeId", pricingHandler.Catalog)

	// Órdenes de compra
	po := api.Group("/purchase-orders", stockRoles)
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrders)
	po.Post("/", poHandler.Create)
	po.Get("/", poHandler.List)
	po.Get("/:id", poHandler.GetByID)
	po.Patch("/:id", poHandler.Update)
	po.Patch("/:id/status", admin, poHandler.UpdateStatus)
	po.Post("/:id/verify", poHandler.Verify)
	po.Get("/:id/pdf", poHandler.PDF)

	// Traslados
	tr := api.Group("/transfers", stockRoles)
	transferHandler := NewTransferHandler(deps.Transfers)
	tr.Post("/dispatch", admin, transferHandler.Dispatch)
	tr.Post("/", transferHandler.Create)
	tr.Get("/", transferHandler.List)
	tr.Get("/:id", transferHandler.Get)
	tr.Post("/:id/items", transferHandler.AddItem)
	tr.Post("/:id/complete", transferHandler.Complete)
	tr.Post("/:id/cancel", transferHandler.Cancel)

	// Ventas
	sl := api.Group("/sales", salesRoles)
	saleHandler := NewSaleHandler(deps.Sales)
	sl.Post("/", saleHandler.Create)
	sl.Get("/", saleHandler.List)
	sl.Get("/:id", saleHandler.GetByID)
	sl.Patch("/:id/status", saleHandler.UpdateStatus)
}
