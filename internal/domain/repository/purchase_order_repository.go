package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// PurchaseOrderRepository persistencia de órdenes de compra con sus líneas.
// Create devuelve domain.ErrDuplicate si el folio ya existe.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	AddItem(ctx context.Context, it *entity.PurchaseOrderItem) error
	UpdateItem(ctx context.Context, it *entity.PurchaseOrderItem) error
	List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error)
}
