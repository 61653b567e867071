package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType forma de aplicar una oferta.
type DiscountType string

// Tipos de descuento.
const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
	DiscountFixedPrice  DiscountType = "FIXED_PRICE"
)

// Valid indica si el tipo es conocido.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixedAmount || t == DiscountFixedPrice
}

// SpecialOffer descuento acotado en el tiempo sobre un StoreProduct.
// EndDate nulo significa vigencia indefinida.
type SpecialOffer struct {
	ID             string
	StoreProductID string
	Description    string
	DiscountType   DiscountType
	Value          decimal.Decimal
	StartDate      time.Time
	EndDate        *time.Time
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
