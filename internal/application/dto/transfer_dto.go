package dto

import "time"

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	OriginStoreID      string `json:"origin_store_id" validate:"required,uuid"`
	DestinationStoreID string `json:"destination_store_id" validate:"required,uuid"`
	Notes              string `json:"notes,omitempty" validate:"max=500"`
}

// TransferItemRequest línea de traslado.
type TransferItemRequest struct {
	VariationID string `json:"variation_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

// DispatchRequest body para POST /api/transfers/dispatch (desde la tienda central).
type DispatchRequest struct {
	DestinationStoreID string                `json:"destination_store_id" validate:"required,uuid"`
	Notes              string                `json:"notes,omitempty" validate:"max=500"`
	Items              []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransferItemResponse línea del traslado.
type TransferItemResponse struct {
	ID          string `json:"id"`
	VariationID string `json:"variation_id"`
	Quantity    int    `json:"quantity"`
}

// TransferResponse traslado con sus líneas.
type TransferResponse struct {
	ID                 string                 `json:"id"`
	OriginStoreID      string                 `json:"origin_store_id"`
	DestinationStoreID string                 `json:"destination_store_id"`
	Status             string                 `json:"status"`
	Notes              string                 `json:"notes,omitempty"`
	Items              []TransferItemResponse `json:"items"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
	CompletedAt        *time.Time             `json:"completed_at"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
