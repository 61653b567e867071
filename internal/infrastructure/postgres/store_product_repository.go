package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var _ repository.StoreProductRepository = (*StoreProductRepo)(nil)

// StoreProductRepo caché de stock/precios por tienda+variación sobre PostgreSQL.
type StoreProductRepo struct {
	q Querier
}

// NewStoreProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreProductRepository(q Querier) *StoreProductRepo {
	return &StoreProductRepo{q: q}
}

const selectStoreProduct = `
	SELECT id, store_id, variation_id, stock, price_cost, price_list, created_at, updated_at
	FROM store_products`

func (r *StoreProductRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.StoreProduct, error) {
	var sp entity.StoreProduct
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&sp.ID, &sp.StoreID, &sp.VariationID, &sp.Stock, &sp.PriceCost, &sp.PriceList,
		&sp.CreatedAt, &sp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store product: %w", err)
	}
	return &sp, nil
}

// LockOrCreate inserta la fila si falta (sin pisar una existente) y luego la bloquea con FOR UPDATE.
func (r *StoreProductRepo) LockOrCreate(ctx context.Context, storeID, variationID string) (*entity.StoreProduct, error) {
	now := time.Now().UTC()
	_, err := r.q.Exec(ctx, `
		INSERT INTO store_products (id, store_id, variation_id, stock, price_cost, price_list, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, $4, $4)
		ON CONFLICT (store_id, variation_id) DO NOTHING`,
		uuid.New().String(), storeID, variationID, now,
	)
	if err != nil {
		return nil, translate("ensure store product", err)
	}
	sp, err := r.scanOne(ctx, selectStoreProduct+` WHERE store_id = $1 AND variation_id = $2 FOR UPDATE`, storeID, variationID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, fmt.Errorf("store product %s/%s desapareció tras insertar", storeID, variationID)
	}
	return sp, nil
}

// GetByIDForUpdate obtiene y bloquea la fila por ID.
func (r *StoreProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StoreProduct, error) {
	return r.scanOne(ctx, selectStoreProduct+` WHERE id = $1 FOR UPDATE`, id)
}

// Get obtiene la fila sin bloquear.
func (r *StoreProductRepo) Get(ctx context.Context, storeID, variationID string) (*entity.StoreProduct, error) {
	return r.scanOne(ctx, selectStoreProduct+` WHERE store_id = $1 AND variation_id = $2`, storeID, variationID)
}

// GetByID obtiene la fila por ID sin bloquear.
func (r *StoreProductRepo) GetByID(ctx context.Context, id string) (*entity.StoreProduct, error) {
	return r.scanOne(ctx, selectStoreProduct+` WHERE id = $1`, id)
}

// Update persiste stock y precios.
func (r *StoreProductRepo) Update(ctx context.Context, sp *entity.StoreProduct) error {
	_, err := r.q.Exec(ctx, `
		UPDATE store_products
		SET stock = $2, price_cost = $3, price_list = $4, updated_at = $5
		WHERE id = $1`,
		sp.ID, sp.Stock, sp.PriceCost, sp.PriceList, sp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update store product: %w", err)
	}
	return nil
}

// ListByStore lista las filas de una tienda con los datos de la variación y del producto.
func (r *StoreProductRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.StoreStock, error) {
	query := `
		SELECT sp.id, sp.store_id, sp.variation_id, sp.stock, sp.price_cost, sp.price_list,
		       sp.created_at, sp.updated_at,
		       v.sku, v.product_id, p.name, COALESCE(v.size, ''), COALESCE(v.color, '')
		FROM store_products sp
		JOIN product_variations v ON v.id = sp.variation_id
		JOIN products p ON p.id = v.product_id
		WHERE sp.store_id = $1
		ORDER BY p.name, v.sku`
	rows, err := r.q.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store products: %w", err)
	}
	defer rows.Close()
	var out []*entity.StoreStock
	for rows.Next() {
		var s entity.StoreStock
		if err := rows.Scan(
			&s.ID, &s.StoreID, &s.VariationID, &s.Stock, &s.PriceCost, &s.PriceList,
			&s.CreatedAt, &s.UpdatedAt,
			&s.SKU, &s.ProductID, &s.ProductName, &s.Size, &s.Color,
		); err != nil {
			return nil, fmt.Errorf("scan store product: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
