package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var (
	_ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)
	_ repository.SpecialOfferRepository = (*SpecialOfferRepo)(nil)
)

// PriceHistoryRepo historial de precios sobre PostgreSQL.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador.
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

// Create persiste un cambio de precio.
func (r *PriceHistoryRepo) Create(ctx context.Context, h *entity.PriceHistory) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO price_history (id, store_product_id, price_type, old_price, new_price, reason, changed_by, effective_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.ID, h.StoreProductID, string(h.PriceType), h.OldPrice, h.NewPrice,
		nullString(h.Reason), nullString(h.ChangedBy), h.EffectiveDate,
	)
	if err != nil {
		return translate("create price history", err)
	}
	return nil
}

// ListByStoreProduct historial ordenado por fecha efectiva descendente.
func (r *PriceHistoryRepo) ListByStoreProduct(ctx context.Context, storeProductID string) ([]*entity.PriceHistory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, store_product_id, price_type, old_price, new_price, reason, changed_by, effective_date
		FROM price_history WHERE store_product_id = $1
		ORDER BY effective_date DESC`, storeProductID)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()
	var out []*entity.PriceHistory
	for rows.Next() {
		var h entity.PriceHistory
		var priceType string
		var reason, changedBy *string
		if err := rows.Scan(&h.ID, &h.StoreProductID, &priceType, &h.OldPrice, &h.NewPrice,
			&reason, &changedBy, &h.EffectiveDate); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		h.PriceType = entity.PriceType(priceType)
		h.Reason = derefString(reason)
		h.ChangedBy = derefString(changedBy)
		out = append(out, &h)
	}
	return out, rows.Err()
}

// SpecialOfferRepo ofertas sobre PostgreSQL.
type SpecialOfferRepo struct {
	q Querier
}

// NewSpecialOfferRepository construye el adaptador.
func NewSpecialOfferRepository(q Querier) *SpecialOfferRepo {
	return &SpecialOfferRepo{q: q}
}

const selectOffer = `
	SELECT o.id, o.store_product_id, o.description, o.discount_type, o.value,
	       o.start_date, o.end_date, o.is_active, o.created_at, o.updated_at
	FROM special_offers o`

func scanOffer(row pgx.Row) (*entity.SpecialOffer, error) {
	var o entity.SpecialOffer
	var discountType string
	if err := row.Scan(&o.ID, &o.StoreProductID, &o.Description, &discountType, &o.Value,
		&o.StartDate, &o.EndDate, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.DiscountType = entity.DiscountType(discountType)
	return &o, nil
}

// Create persiste una oferta.
func (r *SpecialOfferRepo) Create(ctx context.Context, o *entity.SpecialOffer) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO special_offers (id, store_product_id, description, discount_type, value,
		                            start_date, end_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, o.StoreProductID, o.Description, string(o.DiscountType), o.Value,
		o.StartDate, o.EndDate, o.IsActive, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return translate("create special offer", err)
	}
	return nil
}

// Update persiste todos los campos editables de la oferta.
func (r *SpecialOfferRepo) Update(ctx context.Context, o *entity.SpecialOffer) error {
	_, err := r.q.Exec(ctx, `
		UPDATE special_offers
		SET description = $2, discount_type = $3, value = $4, start_date = $5, end_date = $6,
		    is_active = $7, updated_at = $8
		WHERE id = $1`,
		o.ID, o.Description, string(o.DiscountType), o.Value, o.StartDate, o.EndDate, o.IsActive, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update special offer: %w", err)
	}
	return nil
}

// GetByID obtiene una oferta por ID.
func (r *SpecialOfferRepo) GetByID(ctx context.Context, id string) (*entity.SpecialOffer, error) {
	o, err := scanOffer(r.q.QueryRow(ctx, selectOffer+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get special offer: %w", err)
	}
	return o, nil
}

// ListActiveByStoreProduct ofertas activas de un StoreProduct, inicio más reciente primero.
func (r *SpecialOfferRepo) ListActiveByStoreProduct(ctx context.Context, storeProductID string) ([]*entity.SpecialOffer, error) {
	return r.list(ctx, selectOffer+`
		WHERE o.store_product_id = $1 AND o.is_active
		ORDER BY o.start_date DESC, o.created_at DESC, o.id DESC`, storeProductID)
}

// ListActiveByStore ofertas activas de todos los productos de una tienda.
func (r *SpecialOfferRepo) ListActiveByStore(ctx context.Context, storeID string) ([]*entity.SpecialOffer, error) {
	return r.list(ctx, selectOffer+`
		JOIN store_products sp ON sp.id = o.store_product_id
		WHERE sp.store_id = $1 AND o.is_active
		ORDER BY o.start_date DESC, o.created_at DESC, o.id DESC`, storeID)
}

func (r *SpecialOfferRepo) list(ctx context.Context, query string, args ...any) ([]*entity.SpecialOffer, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list special offers: %w", err)
	}
	defer rows.Close()
	var out []*entity.SpecialOffer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan special offer: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
