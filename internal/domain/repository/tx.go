package repository

import "context"

// Repos agrupa los repositorios que comparten la misma conexión o transacción.
type Repos struct {
	Stores         StoreRepository
	Variations     VariationRepository
	StoreProducts  StoreProductRepository
	Movements      InventoryMovementRepository
	PriceHistory   PriceHistoryRepository
	Offers         SpecialOfferRepository
	PurchaseOrders PurchaseOrderRepository
	Transfers      TransferRepository
	Sales          SaleRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil, rollback en otro caso.
// Dentro de fn solo deben usarse los repos recibidos.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
