package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, store_id, variation_id, delta, reason, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.StoreID, m.VariationID, m.Delta, string(m.Reason), nullString(m.ReferenceID), m.CreatedAt,
	)
	if err != nil {
		return translate("create inventory movement", err)
	}
	return nil
}

// List lista movimientos filtrados, más recientes primero.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, store_id, variation_id, delta, reason, reference_id, created_at
		FROM inventory_movements WHERE 1=1`
	args := []any{}
	pos := 1
	if f.StoreID != "" {
		query += fmt.Sprintf(" AND store_id = $%d", pos)
		args = append(args, f.StoreID)
		pos++
	}
	if f.VariationID != "" {
		query += fmt.Sprintf(" AND variation_id = $%d", pos)
		args = append(args, f.VariationID)
		pos++
	}
	if f.ReferenceID != "" {
		query += fmt.Sprintf(" AND reference_id = $%d", pos)
		args = append(args, f.ReferenceID)
		pos++
	}
	limit, offset := pageArgs(f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var reason string
		var ref *string
		if err := rows.Scan(&m.ID, &m.StoreID, &m.VariationID, &m.Delta, &reason, &ref, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Reason = entity.MovementReason(reason)
		m.ReferenceID = derefString(ref)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// NetByReference suma deltas de un motivo para una referencia.
func (r *InventoryMovementRepo) NetByReference(ctx context.Context, referenceID string, reason entity.MovementReason) ([]repository.MovementTotal, error) {
	query := `
		SELECT store_id, variation_id, SUM(delta)::int
		FROM inventory_movements
		WHERE reference_id = $1 AND reason = $2
		GROUP BY store_id, variation_id
		ORDER BY store_id, variation_id`
	rows, err := r.q.Query(ctx, query, referenceID, string(reason))
	if err != nil {
		return nil, fmt.Errorf("net by reference: %w", err)
	}
	defer rows.Close()
	var out []repository.MovementTotal
	for rows.Next() {
		var t repository.MovementTotal
		if err := rows.Scan(&t.StoreID, &t.VariationID, &t.Delta); err != nil {
			return nil, fmt.Errorf("scan net by reference: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Balances compara stock en caché contra la suma del ledger.
func (r *InventoryMovementRepo) Balances(ctx context.Context, storeID string) ([]entity.StockBalance, error) {
	query := `
		SELECT sp.store_id, sp.variation_id, sp.stock, COALESCE(SUM(m.delta), 0)::int
		FROM store_products sp
		LEFT JOIN inventory_movements m
		       ON m.store_id = sp.store_id AND m.variation_id = sp.variation_id`
	args := []any{}
	if storeID != "" {
		query += ` WHERE sp.store_id = $1`
		args = append(args, storeID)
	}
	query += ` GROUP BY sp.store_id, sp.variation_id, sp.stock ORDER BY sp.store_id, sp.variation_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stock balances: %w", err)
	}
	defer rows.Close()
	var out []entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.StoreID, &b.VariationID, &b.CachedStock, &b.LedgerStock); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
