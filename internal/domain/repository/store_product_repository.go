package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// StoreProductRepository define el puerto de la caché de stock/precios por tienda+variación.
// Los métodos *ForUpdate bloquean la fila hasta el fin de la transacción.
type StoreProductRepository interface {
	// LockOrCreate obtiene la fila bloqueada, creándola con valores en cero si no existe.
	LockOrCreate(ctx context.Context, storeID, variationID string) (*entity.StoreProduct, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StoreProduct, error)
	Get(ctx context.Context, storeID, variationID string) (*entity.StoreProduct, error)
	GetByID(ctx context.Context, id string) (*entity.StoreProduct, error)
	Update(ctx context.Context, sp *entity.StoreProduct) error
	ListByStore(ctx context.Context, storeID string) ([]*entity.StoreStock, error)
}
