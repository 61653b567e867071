package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

type saleRepo struct{ c *conn }

var _ repository.SaleRepository = (*saleRepo)(nil)

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return r.c.write(func(st *state) error {
		header := *s
		header.Items = nil
		st.sales[s.ID] = header
		items := make([]entity.SaleProduct, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ID == "" {
				it.ID = uuid.New().String()
			}
			it.SaleID = s.ID
			items = append(items, *it)
		}
		st.saleItems[s.ID] = items
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.c.read(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = copySale(st, s)
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) Update(_ context.Context, s *entity.Sale) error {
	return r.c.write(func(st *state) error {
		if _, ok := st.sales[s.ID]; !ok {
			return domain.ErrNotFound
		}
		header := *s
		header.Items = nil
		st.sales[s.ID] = header
		return nil
	})
}

func (r *saleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.c.read(func(st *state) error {
		for _, s := range st.sales {
			out = append(out, copySale(st, s))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), err
}
