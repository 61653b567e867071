package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// Pair clave (tienda, variación) de un StoreProduct.
type Pair struct {
	StoreID     string
	VariationID string
}

// LockPairs bloquea las filas en un orden global fijo (tienda, variación) para que
// dos operaciones que tocan las mismas filas no se bloqueen mutuamente.
func LockPairs(ctx context.Context, r repository.Repos, pairs []Pair) error {
	sorted := make([]Pair, 0, len(pairs))
	seen := make(map[Pair]bool, len(pairs))
	for _, p := range pairs {
		if !seen[p] {
			seen[p] = true
			sorted = append(sorted, p)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StoreID != sorted[j].StoreID {
			return sorted[i].StoreID < sorted[j].StoreID
		}
		return sorted[i].VariationID < sorted[j].VariationID
	})
	for _, p := range sorted {
		if _, err := r.StoreProducts.LockOrCreate(ctx, p.StoreID, p.VariationID); err != nil {
			return err
		}
	}
	return nil
}
