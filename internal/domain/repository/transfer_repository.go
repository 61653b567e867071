package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// TransferRepository persistencia de traslados. AddItem devuelve domain.ErrDuplicate
// si la variación ya está en el traslado.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.StoreTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StoreTransfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StoreTransfer, error)
	Update(ctx context.Context, t *entity.StoreTransfer) error
	AddItem(ctx context.Context, it *entity.StoreTransferItem) error
	List(ctx context.Context, limit, offset int) ([]*entity.StoreTransfer, error)
}
