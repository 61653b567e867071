package entity

import "time"

// MovementReason es la causa de un delta de stock.
type MovementReason string

// Motivos de movimiento de inventario.
const (
	ReasonSale        MovementReason = "SALE"
	ReasonPurchase    MovementReason = "PURCHASE"
	ReasonAdjustment  MovementReason = "ADJUSTMENT"
	ReasonTransferIn  MovementReason = "TRANSFER_IN"
	ReasonTransferOut MovementReason = "TRANSFER_OUT"
)

// Valid indica si el motivo es uno de los conocidos.
func (r MovementReason) Valid() bool {
	switch r {
	case ReasonSale, ReasonPurchase, ReasonAdjustment, ReasonTransferIn, ReasonTransferOut:
		return true
	}
	return false
}

// Outbound indica si el motivo descuenta stock de la tienda.
func (r MovementReason) Outbound() bool {
	return r == ReasonSale || r == ReasonTransferOut
}

// InventoryMovement es una fila del ledger (solo inserción).
type InventoryMovement struct {
	ID          string
	StoreID     string
	VariationID string
	Delta       int
	Reason      MovementReason
	ReferenceID string // venta, orden de compra o traslado; vacío si es manual
	CreatedAt   time.Time
}

// StockBalance compara la caché con la suma del ledger para un par (tienda, variación).
type StockBalance struct {
	StoreID     string
	VariationID string
	CachedStock int
	LedgerStock int
}

// Drift es la diferencia entre la caché y el ledger.
func (b StockBalance) Drift() int { return b.CachedStock - b.LedgerStock }
