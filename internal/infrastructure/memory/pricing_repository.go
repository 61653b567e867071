package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

type priceHistoryRepo struct{ c *conn }

var _ repository.PriceHistoryRepository = (*priceHistoryRepo)(nil)

func (r *priceHistoryRepo) Create(_ context.Context, h *entity.PriceHistory) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return r.c.write(func(st *state) error {
		st.priceHistory = append(st.priceHistory, *h)
		return nil
	})
}

func (r *priceHistoryRepo) ListByStoreProduct(_ context.Context, storeProductID string) ([]*entity.PriceHistory, error) {
	out := []*entity.PriceHistory{}
	err := r.c.read(func(st *state) error {
		for i := len(st.priceHistory) - 1; i >= 0; i-- {
			h := st.priceHistory[i]
			if h.StoreProductID == storeProductID {
				out = append(out, &h)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].EffectiveDate.After(out[j].EffectiveDate) })
	return out, err
}

type offerRepo struct{ c *conn }

var _ repository.SpecialOfferRepository = (*offerRepo)(nil)

func (r *offerRepo) Create(_ context.Context, o *entity.SpecialOffer) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return r.c.write(func(st *state) error {
		st.offers[o.ID] = *copyOffer(*o)
		return nil
	})
}

func (r *offerRepo) Update(_ context.Context, o *entity.SpecialOffer) error {
	return r.c.write(func(st *state) error {
		if _, ok := st.offers[o.ID]; !ok {
			return domain.ErrNotFound
		}
		st.offers[o.ID] = *copyOffer(*o)
		return nil
	})
}

func (r *offerRepo) GetByID(_ context.Context, id string) (*entity.SpecialOffer, error) {
	var out *entity.SpecialOffer
	err := r.c.read(func(st *state) error {
		if o, ok := st.offers[id]; ok {
			out = copyOffer(o)
		}
		return nil
	})
	return out, err
}

func (r *offerRepo) ListActiveByStoreProduct(_ context.Context, storeProductID string) ([]*entity.SpecialOffer, error) {
	return r.filter(func(st *state, o entity.SpecialOffer) bool {
		return o.IsActive && o.StoreProductID == storeProductID
	})
}

func (r *offerRepo) ListActiveByStore(_ context.Context, storeID string) ([]*entity.SpecialOffer, error) {
	return r.filter(func(st *state, o entity.SpecialOffer) bool {
		sp, ok := st.storeProducts[o.StoreProductID]
		return o.IsActive && ok && sp.StoreID == storeID
	})
}

func (r *offerRepo) filter(keep func(st *state, o entity.SpecialOffer) bool) ([]*entity.SpecialOffer, error) {
	out := []*entity.SpecialOffer{}
	err := r.c.read(func(st *state) error {
		for _, o := range st.offers {
			if keep(st, o) {
				out = append(out, copyOffer(o))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, err
}
