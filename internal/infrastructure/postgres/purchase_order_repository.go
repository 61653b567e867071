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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra y sus líneas sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const selectPurchaseOrder = `
	SELECT id, folio, store_id, payment_status, is_third_party, issue_date, due_date, dte_number,
	       discount, subtotal, net_total, tax, total, total_products, created_at, updated_at
	FROM purchase_orders`

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var status string
	if err := row.Scan(&po.ID, &po.Folio, &po.StoreID, &status, &po.IsThirdParty, &po.IssueDate,
		&po.DueDate, &po.DTENumber, &po.Discount, &po.Subtotal, &po.NetTotal, &po.Tax, &po.Total,
		&po.TotalProducts, &po.CreatedAt, &po.UpdatedAt); err != nil {
		return nil, err
	}
	po.PaymentStatus = entity.PaymentStatus(status)
	return &po, nil
}

// Create inserta la orden y sus líneas. Un folio repetido devuelve domain.ErrDuplicate.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, folio, store_id, payment_status, is_third_party, issue_date,
		                             due_date, dte_number, discount, subtotal, net_total, tax, total,
		                             total_products, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		po.ID, po.Folio, po.StoreID, string(po.PaymentStatus), po.IsThirdParty, po.IssueDate,
		po.DueDate, po.DTENumber, po.Discount, po.Subtotal, po.NetTotal, po.Tax, po.Total,
		po.TotalProducts, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		return translate("create purchase order", err)
	}
	for _, it := range po.Items {
		it.PurchaseOrderID = po.ID
		if err := r.AddItem(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, selectPurchaseOrder+` WHERE id = $1`, id)
}

// GetForUpdate obtiene la orden bloqueando su fila (SELECT FOR UPDATE).
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, selectPurchaseOrder+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if po.Items, err = r.items(ctx, po.ID); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) items(ctx context.Context, orderID string) ([]*entity.PurchaseOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, variation_id, unit_price, subtotal,
		       quantity_requested, quantity_received, created_at, updated_at
		FROM purchase_order_items WHERE purchase_order_id = $1
		ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var out []*entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.VariationID, &it.UnitPrice, &it.Subtotal,
			&it.QuantityRequested, &it.QuantityReceived, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// Update persiste cabecera, estado y totales.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_orders
		SET store_id = $2, payment_status = $3, is_third_party = $4, due_date = $5, dte_number = $6,
		    discount = $7, subtotal = $8, net_total = $9, tax = $10, total = $11,
		    total_products = $12, updated_at = $13
		WHERE id = $1`,
		po.ID, po.StoreID, string(po.PaymentStatus), po.IsThirdParty, po.DueDate, po.DTENumber,
		po.Discount, po.Subtotal, po.NetTotal, po.Tax, po.Total, po.TotalProducts, po.UpdatedAt,
	)
	if err != nil {
		return translate("update purchase order", err)
	}
	return nil
}

// AddItem inserta una línea.
func (r *PurchaseOrderRepo) AddItem(ctx context.Context, it *entity.PurchaseOrderItem) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_order_items (id, purchase_order_id, variation_id, unit_price, subtotal,
		                                  quantity_requested, quantity_received, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		it.ID, it.PurchaseOrderID, it.VariationID, it.UnitPrice, it.Subtotal,
		it.QuantityRequested, it.QuantityReceived, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return translate("create purchase order item", err)
	}
	return nil
}

// UpdateItem persiste cantidades, precio y subtotal de una línea.
func (r *PurchaseOrderRepo) UpdateItem(ctx context.Context, it *entity.PurchaseOrderItem) error {
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_order_items
		SET unit_price = $2, subtotal = $3, quantity_requested = $4, quantity_received = $5, updated_at = $6
		WHERE id = $1`,
		it.ID, it.UnitPrice, it.Subtotal, it.QuantityRequested, it.QuantityReceived, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order item: %w", err)
	}
	return nil
}

// List órdenes más recientes primero, con sus líneas.
func (r *PurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, selectPurchaseOrder+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	var out []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, po)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	// las líneas se cargan después de cerrar rows: una tx no admite dos consultas abiertas
	for _, po := range out {
		if po.Items, err = r.items(ctx, po.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}
