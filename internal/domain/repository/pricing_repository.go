package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// PriceHistoryRepository historial de precios (solo inserción).
type PriceHistoryRepository interface {
	Create(ctx context.Context, h *entity.PriceHistory) error
	ListByStoreProduct(ctx context.Context, storeProductID string) ([]*entity.PriceHistory, error)
}

// SpecialOfferRepository persistencia de ofertas.
type SpecialOfferRepository interface {
	Create(ctx context.Context, o *entity.SpecialOffer) error
	Update(ctx context.Context, o *entity.SpecialOffer) error
	GetByID(ctx context.Context, id string) (*entity.SpecialOffer, error)
	ListActiveByStoreProduct(ctx context.Context, storeProductID string) ([]*entity.SpecialOffer, error)
	ListActiveByStore(ctx context.Context, storeID string) ([]*entity.SpecialOffer, error)
}
