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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados entre tiendas sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const selectTransfer = `
	SELECT id, origin_store_id, destination_store_id, status, notes, created_at, updated_at, completed_at
	FROM store_transfers`

func scanTransfer(row pgx.Row) (*entity.StoreTransfer, error) {
	var t entity.StoreTransfer
	var status string
	if err := row.Scan(&t.ID, &t.OriginStoreID, &t.DestinationStoreID, &status, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt, &t.CompletedAt); err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	return &t, nil
}

// Create persiste el traslado (sin líneas).
func (r *TransferRepo) Create(ctx context.Context, t *entity.StoreTransfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO store_transfers (id, origin_store_id, destination_store_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.OriginStoreID, t.DestinationStoreID, string(t.Status), t.Notes, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return translate("create transfer", err)
	}
	return nil
}

// GetByID obtiene el traslado con sus líneas.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.StoreTransfer, error) {
	return r.get(ctx, selectTransfer+` WHERE id = $1`, id)
}

// GetForUpdate obtiene el traslado bloqueando su fila.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.StoreTransfer, error) {
	return r.get(ctx, selectTransfer+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepo) get(ctx context.Context, query, id string) (*entity.StoreTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if t.Items, err = r.items(ctx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransferRepo) items(ctx context.Context, transferID string) ([]*entity.StoreTransferItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, transfer_id, variation_id, quantity, created_at
		FROM store_transfer_items WHERE transfer_id = $1
		ORDER BY created_at, id`, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer items: %w", err)
	}
	defer rows.Close()
	var out []*entity.StoreTransferItem
	for rows.Next() {
		var it entity.StoreTransferItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.VariationID, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transfer item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// Update persiste estado y fecha de completado.
func (r *TransferRepo) Update(ctx context.Context, t *entity.StoreTransfer) error {
	_, err := r.q.Exec(ctx, `
		UPDATE store_transfers SET status = $2, notes = $3, updated_at = $4, completed_at = $5
		WHERE id = $1`,
		t.ID, string(t.Status), t.Notes, t.UpdatedAt, t.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

// AddItem inserta una línea; la variación repetida devuelve domain.ErrDuplicate.
func (r *TransferRepo) AddItem(ctx context.Context, it *entity.StoreTransferItem) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO store_transfer_items (id, transfer_id, variation_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		it.ID, it.TransferID, it.VariationID, it.Quantity, it.CreatedAt,
	)
	if err != nil {
		return translate("create transfer item", err)
	}
	return nil
}

// List traslados más recientes primero.
func (r *TransferRepo) List(ctx context.Context, limit, offset int) ([]*entity.StoreTransfer, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, selectTransfer+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	var out []*entity.StoreTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	for _, t := range out {
		if t.Items, err = r.items(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}
