package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

type purchaseOrderRepo struct{ c *conn }

var _ repository.PurchaseOrderRepository = (*purchaseOrderRepo)(nil)

func (r *purchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	return r.c.write(func(st *state) error {
		if _, taken := st.folios[po.Folio]; taken {
			return domain.ErrDuplicate
		}
		st.folios[po.Folio] = po.ID
		header := *po
		header.Items = nil
		header.DueDate = copyTime(po.DueDate)
		header.DTENumber = copyString(po.DTENumber)
		st.orders[po.ID] = header
		items := make([]entity.PurchaseOrderItem, 0, len(po.Items))
		for _, it := range po.Items {
			if it.ID == "" {
				it.ID = uuid.New().String()
			}
			it.PurchaseOrderID = po.ID
			items = append(items, *it)
		}
		st.orderItems[po.ID] = items
		return nil
	})
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.c.read(func(st *state) error {
		if po, ok := st.orders[id]; ok {
			out = copyOrder(st, po)
		}
		return nil
	})
	return out, err
}

func (r *purchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	return r.c.write(func(st *state) error {
		if _, ok := st.orders[po.ID]; !ok {
			return domain.ErrNotFound
		}
		header := *po
		header.Items = nil
		header.DueDate = copyTime(po.DueDate)
		header.DTENumber = copyString(po.DTENumber)
		st.orders[po.ID] = header
		return nil
	})
}

func (r *purchaseOrderRepo) AddItem(_ context.Context, it *entity.PurchaseOrderItem) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	return r.c.write(func(st *state) error {
		if _, ok := st.orders[it.PurchaseOrderID]; !ok {
			return domain.ErrNotFound
		}
		st.orderItems[it.PurchaseOrderID] = append(st.orderItems[it.PurchaseOrderID], *it)
		return nil
	})
}

func (r *purchaseOrderRepo) UpdateItem(_ context.Context, it *entity.PurchaseOrderItem) error {
	return r.c.write(func(st *state) error {
		items := st.orderItems[it.PurchaseOrderID]
		for i := range items {
			if items[i].ID == it.ID {
				items[i] = *it
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *purchaseOrderRepo) List(_ context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.c.read(func(st *state) error {
		for _, po := range st.orders {
			out = append(out, copyOrder(st, po))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), err
}
