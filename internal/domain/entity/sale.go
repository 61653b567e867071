package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType medio de pago de la venta.
type PaymentType string

// Medios de pago.
const (
	PaymentCash   PaymentType = "Efectivo"
	PaymentDebit  PaymentType = "Debito"
	PaymentCredit PaymentType = "Credito"
)

// Valid indica si el medio de pago es conocido.
func (t PaymentType) Valid() bool {
	return t == PaymentCash || t == PaymentDebit || t == PaymentCredit
}

// Sale venta en tienda. El stock se descuenta al crearla.
type Sale struct {
	ID          string
	StoreID     string
	Status      PaymentStatus
	PaymentType PaymentType
	Total       decimal.Decimal
	Items       []*SaleProduct
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaleProduct línea de venta.
type SaleProduct struct {
	ID          string
	SaleID      string
	VariationID string
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Quantity    int
	CreatedAt   time.Time
}
