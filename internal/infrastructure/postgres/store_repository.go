package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var (
	_ repository.StoreRepository     = (*StoreRepo)(nil)
	_ repository.VariationRepository = (*VariationRepo)(nil)
)

// StoreRepo lectura de tiendas sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const selectStore = `SELECT id, name, location, is_central, created_at, updated_at FROM stores`

func (r *StoreRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Store, error) {
	var s entity.Store
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.Name, &s.Location, &s.IsCentral, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return &s, nil
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	return r.scanOne(ctx, selectStore+` WHERE id = $1`, id)
}

// GetCentral obtiene la tienda central.
func (r *StoreRepo) GetCentral(ctx context.Context) (*entity.Store, error) {
	return r.scanOne(ctx, selectStore+` WHERE is_central ORDER BY created_at LIMIT 1`)
}

// VariationRepo lectura de variaciones con el nombre del producto.
type VariationRepo struct {
	q Querier
}

// NewVariationRepository construye el adaptador.
func NewVariationRepository(q Querier) *VariationRepo {
	return &VariationRepo{q: q}
}

// GetByID obtiene una variación por ID.
func (r *VariationRepo) GetByID(ctx context.Context, id string) (*entity.Variation, error) {
	query := `
		SELECT v.id, v.product_id, p.name, v.sku, COALESCE(v.size, ''), COALESCE(v.color, ''), v.created_at
		FROM product_variations v
		JOIN products p ON p.id = v.product_id
		WHERE v.id = $1`
	var v entity.Variation
	err := r.q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.ProductID, &v.ProductName, &v.SKU, &v.Size, &v.Color, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variation: %w", err)
	}
	return &v, nil
}
