package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreProduct es la caché de stock y precios por (tienda, variación).
// Stock se mantiene solo a través del ledger de movimientos.
type StoreProduct struct {
	ID          string
	StoreID     string
	VariationID string
	Stock       int
	PriceCost   decimal.Decimal
	PriceList   *decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewStoreProduct crea la fila perezosa con stock 0 y precios en 0.
func NewStoreProduct(storeID, variationID string, now time.Time) *StoreProduct {
	zero := decimal.Zero
	return &StoreProduct{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		VariationID: variationID,
		PriceCost:   decimal.Zero,
		PriceList:   &zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ListPrice devuelve el precio de lista o 0 si es nulo.
func (sp *StoreProduct) ListPrice() decimal.Decimal {
	if sp.PriceList == nil {
		return decimal.Zero
	}
	return *sp.PriceList
}

// StoreStock es la fila de lectura de stock por tienda con metadatos de la variación.
type StoreStock struct {
	StoreProduct
	SKU         string
	ProductID   string
	ProductName string
	Size        string
	Color       string
}
