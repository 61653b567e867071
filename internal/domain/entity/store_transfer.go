package entity

import "time"

// TransferStatus estado de un traslado entre tiendas.
type TransferStatus string

// Estados de traslado.
const (
	TransferPending   TransferStatus = "PENDING"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// StoreTransfer traslado de stock en dos fases (borrador → completado).
type StoreTransfer struct {
	ID                 string
	OriginStoreID      string
	DestinationStoreID string
	Status             TransferStatus
	Notes              string
	Items              []*StoreTransferItem
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CompletedAt        *time.Time
}

// StoreTransferItem línea del traslado, única por (traslado, variación).
type StoreTransferItem struct {
	ID          string
	TransferID  string
	VariationID string
	Quantity    int
	CreatedAt   time.Time
}
