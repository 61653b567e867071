package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceType indica qué precio cambió.
type PriceType string

// Tipos de precio.
const (
	PriceCost PriceType = "COST"
	PriceList PriceType = "LIST"
)

// Valid indica si el tipo es conocido.
func (t PriceType) Valid() bool { return t == PriceCost || t == PriceList }

// PriceHistory registro inmutable de un cambio de precio.
type PriceHistory struct {
	ID             string
	StoreProductID string
	PriceType      PriceType
	OldPrice       decimal.Decimal
	NewPrice       decimal.Decimal
	Reason         string
	ChangedBy      string
	EffectiveDate  time.Time
}
