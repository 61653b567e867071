package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/movements.
// Quantity es obligatorio para SALE/PURCHASE/TRANSFER_*; NewStock para ADJUSTMENT.
type RecordMovementRequest struct {
	StoreID     string `json:"store_id" validate:"required,uuid"`
	VariationID string `json:"variation_id" validate:"required,uuid"`
	Reason      string `json:"reason" validate:"required,oneof=SALE PURCHASE ADJUSTMENT TRANSFER_IN TRANSFER_OUT"`
	Quantity    *int   `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	NewStock    *int   `json:"new_stock,omitempty" validate:"omitempty,min=0"`
	ReferenceID string `json:"reference_id,omitempty" validate:"omitempty,max=64"`
}

// MovementResponse una fila del ledger.
type MovementResponse struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	VariationID string    `json:"variation_id"`
	Delta       int       `json:"delta"`
	Reason      string    `json:"reason"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementListRequest filtros de GET /api/inventory/movements.
type MovementListRequest struct {
	PageRequest
	StoreID     string `query:"store_id" validate:"omitempty,uuid"`
	VariationID string `query:"variation_id" validate:"omitempty,uuid"`
	ReferenceID string `query:"reference_id"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StoreStockItem fila de stock de una tienda con metadatos de la variación.
type StoreStockItem struct {
	StoreProductID string           `json:"store_product_id"`
	VariationID    string           `json:"variation_id"`
	ProductID      string           `json:"product_id"`
	ProductName    string           `json:"product_name"`
	SKU            string           `json:"sku"`
	Size           string           `json:"size"`
	Color          string           `json:"color"`
	Stock          int              `json:"stock"`
	PriceCost      decimal.Decimal  `json:"price_cost"`
	PriceList      *decimal.Decimal `json:"price_list"`
}

// StoreStockResponse stock completo de una tienda.
type StoreStockResponse struct {
	StoreID   string           `json:"store_id"`
	StoreName string           `json:"store_name"`
	Items     []StoreStockItem `json:"items"`
}

// UpdateStoreProductRequest body para PATCH /api/inventory/store/:storeId/products/:variationId.
// El stock se corrige con un ADJUSTMENT; los precios dejan historial.
type UpdateStoreProductRequest struct {
	Stock     *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	PriceCost *decimal.Decimal `json:"price_cost,omitempty"`
	PriceList *decimal.Decimal `json:"price_list,omitempty"`
	Reason    string           `json:"reason,omitempty" validate:"max=255"`
}

// StockDriftItem par (tienda, variación) cuya caché no coincide con el ledger.
type StockDriftItem struct {
	StoreID     string `json:"store_id"`
	VariationID string `json:"variation_id"`
	CachedStock int    `json:"cached_stock"`
	LedgerStock int    `json:"ledger_stock"`
	Drift       int    `json:"drift"`
}

// ReconcileReport resultado de comparar caché y ledger.
type ReconcileReport struct {
	StoreID   string           `json:"store_id,omitempty"`
	Checked   int              `json:"checked"`
	Drifted   []StockDriftItem `json:"drifted"`
	CheckedAt time.Time        `json:"checked_at"`
}

// ReconcileRequest body opcional de POST /api/inventory/reconcile.
type ReconcileRequest struct {
	StoreID string `json:"store_id,omitempty" validate:"omitempty,uuid"`
}

// ReconcileEnqueuedResponse respuesta cuando la conciliación queda encolada.
type ReconcileEnqueuedResponse struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
}
