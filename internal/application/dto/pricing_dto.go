package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdatePriceRequest body para POST /api/pricing/update.
type UpdatePriceRequest struct {
	StoreID     string          `json:"store_id" validate:"required,uuid"`
	VariationID string          `json:"variation_id" validate:"required,uuid"`
	PriceType   string          `json:"price_type" validate:"required,oneof=COST LIST"`
	NewPrice    decimal.Decimal `json:"new_price"`
	Reason      string          `json:"reason,omitempty" validate:"max=255"`
	ChangedBy   string          `json:"changed_by,omitempty"`
}

// PriceHistoryResponse registro del historial de precios.
type PriceHistoryResponse struct {
	ID             string          `json:"id"`
	StoreProductID string          `json:"store_product_id"`
	PriceType      string          `json:"price_type"`
	OldPrice       decimal.Decimal `json:"old_price"`
	NewPrice       decimal.Decimal `json:"new_price"`
	Reason         string          `json:"reason,omitempty"`
	ChangedBy      string          `json:"changed_by,omitempty"`
	EffectiveDate  time.Time       `json:"effective_date"`
}

// PriceHistoryQuery query de GET /api/pricing/history.
type PriceHistoryQuery struct {
	StoreID     string `query:"storeID" validate:"required,uuid"`
	VariationID string `query:"variationID" validate:"required,uuid"`
}

// CreateOfferRequest body para POST /api/pricing/offers.
type CreateOfferRequest struct {
	StoreProductID string          `json:"store_product_id" validate:"required,uuid"`
	Description    string          `json:"description" validate:"max=255"`
	DiscountType   string          `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED_AMOUNT FIXED_PRICE"`
	Value          decimal.Decimal `json:"value"`
	StartDate      time.Time       `json:"start_date" validate:"required"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
}

// UpdateOfferRequest body para PATCH /api/pricing/offers/:id. Solo se aplican los campos presentes.
type UpdateOfferRequest struct {
	Description  *string          `json:"description,omitempty" validate:"omitempty,max=255"`
	DiscountType *string          `json:"discount_type,omitempty" validate:"omitempty,oneof=PERCENTAGE FIXED_AMOUNT FIXED_PRICE"`
	Value        *decimal.Decimal `json:"value,omitempty"`
	StartDate    *time.Time       `json:"start_date,omitempty"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	ClearEndDate bool             `json:"clear_end_date,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

// OfferResponse oferta especial.
type OfferResponse struct {
	ID             string          `json:"id"`
	StoreProductID string          `json:"store_product_id"`
	Description    string          `json:"description"`
	DiscountType   string          `json:"discount_type"`
	Value          decimal.Decimal `json:"value"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PriceCheckResponse precio final de un producto en tienda.
// DiscountDetails es nil cuando no hay oferta vigente.
type PriceCheckResponse struct {
	StoreProductID  string          `json:"store_product_id"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	DiscountApplied bool            `json:"discount_applied"`
	DiscountDetails *OfferResponse  `json:"discount_details"`
}

// CatalogItem proyección de lectura de un producto en tienda con su precio final.
type CatalogItem struct {
	StoreStockItem
	FinalPrice      decimal.Decimal `json:"final_price"`
	DiscountApplied bool            `json:"discount_applied"`
	OfferID         string          `json:"offer_id,omitempty"`
}

// CatalogResponse catálogo de una tienda.
type CatalogResponse struct {
	StoreID string        `json:"store_id"`
	Items   []CatalogItem `json:"items"`
}
