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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y sus líneas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const selectSale = `SELECT id, store_id, status, payment_type, total, created_at, updated_at FROM sales`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var status, paymentType string
	if err := row.Scan(&s.ID, &s.StoreID, &status, &paymentType, &s.Total, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Status = entity.PaymentStatus(status)
	s.PaymentType = entity.PaymentType(paymentType)
	return &s, nil
}

// Create inserta la venta y sus líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, store_id, status, payment_type, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.StoreID, string(s.Status), string(s.PaymentType), s.Total, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return translate("create sale", err)
	}
	for _, it := range s.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.SaleID = s.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_products (id, sale_id, variation_id, unit_price, subtotal, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, it.SaleID, it.VariationID, it.UnitPrice, it.Subtotal, it.Quantity, it.CreatedAt,
		)
		if err != nil {
			return translate("create sale product", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, selectSale+` WHERE id = $1`, id)
}

// GetForUpdate obtiene la venta bloqueando su fila.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, selectSale+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]*entity.SaleProduct, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, variation_id, unit_price, subtotal, quantity, created_at
		FROM sale_products WHERE sale_id = $1 ORDER BY created_at, id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale products: %w", err)
	}
	defer rows.Close()
	var out []*entity.SaleProduct
	for rows.Next() {
		var it entity.SaleProduct
		if err := rows.Scan(&it.ID, &it.SaleID, &it.VariationID, &it.UnitPrice, &it.Subtotal,
			&it.Quantity, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale product: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// Update persiste estado y total.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `UPDATE sales SET status = $2, total = $3, updated_at = $4 WHERE id = $1`,
		s.ID, string(s.Status), s.Total, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// List ventas más recientes primero.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, selectSale+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var out []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	for _, s := range out {
		if s.Items, err = r.items(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}
