package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// MovementFilter filtros para listar el ledger. Campos vacíos no filtran.
type MovementFilter struct {
	StoreID     string
	VariationID string
	ReferenceID string
	Limit       int
	Offset      int
}

// MovementTotal suma de deltas por (tienda, variación).
type MovementTotal struct {
	StoreID     string
	VariationID string
	Delta       int
}

// InventoryMovementRepository define el puerto del ledger de movimientos (solo inserción).
type InventoryMovementRepository interface {
	Create(ctx context.Context, m *entity.InventoryMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.InventoryMovement, error)
	// NetByReference suma los deltas de un motivo para una referencia, agrupados por tienda+variación.
	NetByReference(ctx context.Context, referenceID string, reason entity.MovementReason) ([]MovementTotal, error)
	// Balances compara stock en caché contra la suma del ledger. storeID vacío = todas las tiendas.
	Balances(ctx context.Context, storeID string) ([]entity.StockBalance, error)
}
