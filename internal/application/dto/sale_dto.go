package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta.
type SaleItemRequest struct {
	VariationID string          `json:"variation_id" validate:"required,uuid"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	StoreID     string            `json:"store_id" validate:"required,uuid"`
	PaymentType string            `json:"payment_type" validate:"required,oneof=Efectivo Debito Credito"`
	Items       []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemResponse línea de la venta.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	VariationID string          `json:"variation_id"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID          string             `json:"id"`
	StoreID     string             `json:"store_id"`
	Status      string             `json:"status"`
	PaymentType string             `json:"payment_type"`
	Total       decimal.Decimal    `json:"total"`
	Items       []SaleItemResponse `json:"items"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
