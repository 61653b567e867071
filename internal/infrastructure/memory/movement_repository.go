package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

type movementRepo struct{ c *conn }

var _ repository.InventoryMovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return r.c.write(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var matched []*entity.InventoryMovement
	err := r.c.read(func(st *state) error {
		// más recientes primero: se recorre al revés el orden de inserción
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if f.StoreID != "" && m.StoreID != f.StoreID {
				continue
			}
			if f.VariationID != "" && m.VariationID != f.VariationID {
				continue
			}
			if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
				continue
			}
			matched = append(matched, &m)
		}
		return nil
	})
	return page(matched, f.Limit, f.Offset), err
}

func (r *movementRepo) NetByReference(_ context.Context, referenceID string, reason entity.MovementReason) ([]repository.MovementTotal, error) {
	totals := map[spKey]int{}
	err := r.c.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ReferenceID == referenceID && m.Reason == reason {
				totals[spKey{m.StoreID, m.VariationID}] += m.Delta
			}
		}
		return nil
	})
	out := make([]repository.MovementTotal, 0, len(totals))
	for k, d := range totals {
		out = append(out, repository.MovementTotal{StoreID: k.storeID, VariationID: k.variationID, Delta: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StoreID != out[j].StoreID {
			return out[i].StoreID < out[j].StoreID
		}
		return out[i].VariationID < out[j].VariationID
	})
	return out, err
}

func (r *movementRepo) Balances(_ context.Context, storeID string) ([]entity.StockBalance, error) {
	var out []entity.StockBalance
	err := r.c.read(func(st *state) error {
		ledger := map[spKey]int{}
		for _, m := range st.movements {
			ledger[spKey{m.StoreID, m.VariationID}] += m.Delta
		}
		for _, sp := range st.storeProducts {
			if storeID != "" && sp.StoreID != storeID {
				continue
			}
			out = append(out, entity.StockBalance{
				StoreID:     sp.StoreID,
				VariationID: sp.VariationID,
				CachedStock: sp.Stock,
				LedgerStock: ledger[spKey{sp.StoreID, sp.VariationID}],
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].StoreID != out[j].StoreID {
			return out[i].StoreID < out[j].StoreID
		}
		return out[i].VariationID < out[j].VariationID
	})
	return out, err
}
