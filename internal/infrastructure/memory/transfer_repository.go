package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

type transferRepo struct{ c *conn }

var _ repository.TransferRepository = (*transferRepo)(nil)

func (r *transferRepo) Create(_ context.Context, t *entity.StoreTransfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return r.c.write(func(st *state) error {
		header := *t
		header.Items = nil
		header.CompletedAt = copyTime(t.CompletedAt)
		st.transfers[t.ID] = header
		st.transferItems[t.ID] = nil
		return nil
	})
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.StoreTransfer, error) {
	var out *entity.StoreTransfer
	err := r.c.read(func(st *state) error {
		if t, ok := st.transfers[id]; ok {
			out = copyTransfer(st, t)
		}
		return nil
	})
	return out, err
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.StoreTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r *transferRepo) Update(_ context.Context, t *entity.StoreTransfer) error {
	return r.c.write(func(st *state) error {
		if _, ok := st.transfers[t.ID]; !ok {
			return domain.ErrNotFound
		}
		header := *t
		header.Items = nil
		header.CompletedAt = copyTime(t.CompletedAt)
		st.transfers[t.ID] = header
		return nil
	})
}

func (r *transferRepo) AddItem(_ context.Context, it *entity.StoreTransferItem) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	return r.c.write(func(st *state) error {
		if _, ok := st.transfers[it.TransferID]; !ok {
			return domain.ErrNotFound
		}
		for _, existing := range st.transferItems[it.TransferID] {
			if existing.VariationID == it.VariationID {
				return domain.ErrDuplicate
			}
		}
		st.transferItems[it.TransferID] = append(st.transferItems[it.TransferID], *it)
		return nil
	})
}

func (r *transferRepo) List(_ context.Context, limit, offset int) ([]*entity.StoreTransfer, error) {
	var out []*entity.StoreTransfer
	err := r.c.read(func(st *state) error {
		for _, t := range st.transfers {
			out = append(out, copyTransfer(st, t))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), err
}
