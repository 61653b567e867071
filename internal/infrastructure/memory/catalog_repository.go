package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

type storeRepo struct{ c *conn }

func (r *storeRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	var out *entity.Store
	err := r.c.read(func(st *state) error {
		if s, ok := st.stores[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *storeRepo) GetCentral(_ context.Context) (*entity.Store, error) {
	var out *entity.Store
	err := r.c.read(func(st *state) error {
		for _, s := range st.stores {
			if s.IsCentral {
				s := s
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

type variationRepo struct{ c *conn }

func (r *variationRepo) GetByID(_ context.Context, id string) (*entity.Variation, error) {
	var out *entity.Variation
	err := r.c.read(func(st *state) error {
		if v, ok := st.variations[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

type storeProductRepo struct{ c *conn }

var _ repository.StoreProductRepository = (*storeProductRepo)(nil)

func (r *storeProductRepo) LockOrCreate(_ context.Context, storeID, variationID string) (*entity.StoreProduct, error) {
	var out *entity.StoreProduct
	err := r.c.write(func(st *state) error {
		key := spKey{storeID, variationID}
		if id, ok := st.spIndex[key]; ok {
			out = copyStoreProduct(st.storeProducts[id])
			return nil
		}
		if _, ok := st.stores[storeID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.variations[variationID]; !ok {
			return domain.ErrNotFound
		}
		sp := entity.NewStoreProduct(storeID, variationID, time.Now().UTC())
		st.storeProducts[sp.ID] = *copyStoreProduct(*sp)
		st.spIndex[key] = sp.ID
		out = sp
		return nil
	})
	return out, err
}

func (r *storeProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StoreProduct, error) {
	return r.GetByID(ctx, id)
}

func (r *storeProductRepo) Get(_ context.Context, storeID, variationID string) (*entity.StoreProduct, error) {
	var out *entity.StoreProduct
	err := r.c.read(func(st *state) error {
		if id, ok := st.spIndex[spKey{storeID, variationID}]; ok {
			out = copyStoreProduct(st.storeProducts[id])
		}
		return nil
	})
	return out, err
}

func (r *storeProductRepo) GetByID(_ context.Context, id string) (*entity.StoreProduct, error) {
	var out *entity.StoreProduct
	err := r.c.read(func(st *state) error {
		if sp, ok := st.storeProducts[id]; ok {
			out = copyStoreProduct(sp)
		}
		return nil
	})
	return out, err
}

func (r *storeProductRepo) Update(_ context.Context, sp *entity.StoreProduct) error {
	return r.c.write(func(st *state) error {
		if _, ok := st.storeProducts[sp.ID]; !ok {
			return domain.ErrNotFound
		}
		st.storeProducts[sp.ID] = *copyStoreProduct(*sp)
		return nil
	})
}

func (r *storeProductRepo) ListByStore(_ context.Context, storeID string) ([]*entity.StoreStock, error) {
	out := []*entity.StoreStock{}
	err := r.c.read(func(st *state) error {
		for _, sp := range st.storeProducts {
			if sp.StoreID != storeID {
				continue
			}
			v := st.variations[sp.VariationID]
			out = append(out, &entity.StoreStock{
				StoreProduct: *copyStoreProduct(sp),
				SKU:          v.SKU,
				ProductID:    v.ProductID,
				ProductName:  v.ProductName,
				Size:         v.Size,
				Color:        v.Color,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].SKU < out[j].SKU
	})
	return out, err
}
