package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest línea de una orden de compra.
type PurchaseOrderItemRequest struct {
	VariationID string          `json:"variation_id" validate:"required,uuid"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	StoreID      string                     `json:"store_id" validate:"required,uuid"`
	IsThirdParty bool                       `json:"is_third_party"`
	IssueDate    *time.Time                 `json:"issue_date,omitempty"`
	DueDate      *time.Time                 `json:"due_date,omitempty"`
	DTENumber    *string                    `json:"dte_number,omitempty" validate:"omitempty,max=50"`
	Discount     decimal.Decimal            `json:"discount"`
	Items        []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest body para PATCH /api/purchase-orders/:id (sin estado).
type UpdatePurchaseOrderRequest struct {
	StoreID      *string          `json:"store_id,omitempty" validate:"omitempty,uuid"`
	IsThirdParty *bool            `json:"is_third_party,omitempty"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	DTENumber    *string          `json:"dte_number,omitempty" validate:"omitempty,max=50"`
	Discount     *decimal.Decimal `json:"discount,omitempty"`
}

// UpdateStatusRequest body para PATCH .../status (órdenes de compra y ventas).
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pendiente Pagado Anulado"`
}

// VerifyItemRequest una lectura del escáner en la recepción.
type VerifyItemRequest struct {
	VariationID string           `json:"variation_id" validate:"required,uuid"`
	Received    int              `json:"received" validate:"required,min=1"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// VerifyPurchaseOrderRequest body para POST /api/purchase-orders/:id/verify.
type VerifyPurchaseOrderRequest struct {
	Items []VerifyItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseOrderItemResponse línea de la orden.
type PurchaseOrderItemResponse struct {
	ID                string          `json:"id"`
	VariationID       string          `json:"variation_id"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	QuantityRequested int             `json:"quantity_requested"`
	QuantityReceived  int             `json:"quantity_received"`
}

// PurchaseOrderResponse orden de compra con sus líneas.
type PurchaseOrderResponse struct {
	ID            string                      `json:"id"`
	Folio         string                      `json:"folio"`
	StoreID       string                      `json:"store_id"`
	PaymentStatus string                      `json:"payment_status"`
	IsThirdParty  bool                        `json:"is_third_party"`
	IssueDate     time.Time                   `json:"issue_date"`
	DueDate       *time.Time                  `json:"due_date"`
	DTENumber     *string                     `json:"dte_number"`
	Discount      decimal.Decimal             `json:"discount"`
	Subtotal      decimal.Decimal             `json:"subtotal"`
	NetTotal      decimal.Decimal             `json:"net_total"`
	Tax           decimal.Decimal             `json:"tax"`
	Total         decimal.Decimal             `json:"total"`
	TotalProducts int                         `json:"total_products"`
	Items         []PurchaseOrderItemResponse `json:"items"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// VerifySummary conteo de la recepción.
type VerifySummary struct {
	Completos   int `json:"completos"`
	Faltantes   int `json:"faltantes"`
	DeMas       int `json:"deMas"`
	NoEsperados int `json:"noEsperados"`
}

// VerifyPurchaseOrderResponse resumen de la verificación y la orden resultante.
type VerifyPurchaseOrderResponse struct {
	Summary VerifySummary         `json:"summary"`
	Order   PurchaseOrderResponse `json:"order"`
}
