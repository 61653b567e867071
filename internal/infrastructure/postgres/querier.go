package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx; los repos funcionan con cualquiera.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// NewRepos construye todos los repositorios sobre q (pool o transacción).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Stores:         NewStoreRepository(q),
		Variations:     NewVariationRepository(q),
		StoreProducts:  NewStoreProductRepository(q),
		Movements:      NewInventoryMovementRepository(q),
		PriceHistory:   NewPriceHistoryRepository(q),
		Offers:         NewSpecialOfferRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Transfers:      NewTransferRepository(q),
		Sales:          NewSaleRepository(q),
	}
}
