package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de pago compartido por órdenes de compra y ventas.
type PaymentStatus string

// Estados de pago.
const (
	StatusPendiente PaymentStatus = "Pendiente"
	StatusPagado    PaymentStatus = "Pagado"
	StatusAnulado   PaymentStatus = "Anulado"
)

// Valid indica si el estado es conocido.
func (s PaymentStatus) Valid() bool {
	return s == StatusPendiente || s == StatusPagado || s == StatusAnulado
}

// PurchaseOrder orden de compra a proveedor con destino a una tienda.
type PurchaseOrder struct {
	ID            string
	Folio         string
	StoreID       string
	PaymentStatus PaymentStatus
	IsThirdParty  bool
	IssueDate     time.Time
	DueDate       *time.Time
	DTENumber     *string
	Discount      decimal.Decimal
	Subtotal      decimal.Decimal
	NetTotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	TotalProducts int
	Items         []*PurchaseOrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PurchaseOrderItem línea de la orden. QuantityReceived nunca disminuye.
type PurchaseOrderItem struct {
	ID                string
	PurchaseOrderID   string
	VariationID       string
	UnitPrice         decimal.Decimal
	Subtotal          decimal.Decimal
	QuantityRequested int
	QuantityReceived  int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
