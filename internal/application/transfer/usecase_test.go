package transfer

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

const (
	central = memory.DemoCentralStoreID
	storeA  = memory.DemoStoreAID
	storeB  = memory.DemoStoreBID
	varV    = memory.DemoVariation1ID
	varW    = memory.DemoVariation2ID
)

type fixture struct {
	uc     *TransferUseCase
	ledger *inventory.LedgerUseCase
	db     *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	memory.SeedDemo(db)
	ledger := inventory.NewLedgerUseCase(db, db.Repos(), nil, nil, logger.Nop(), false)
	return &fixture{uc: NewTransferUseCase(db, db.Repos(), ledger, logger.Nop()), ledger: ledger, db: db}
}

func (f *fixture) stock(t *testing.T, storeID, variationID string, qty int) {
	t.Helper()
	_, err := f.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		StoreID: storeID, VariationID: variationID, Reason: entity.ReasonPurchase, Quantity: &qty,
	})
	require.NoError(t, err)
}

func (f *fixture) stockOf(t *testing.T, storeID, variationID string) int {
	t.Helper()
	sp, err := f.db.Repos().StoreProducts.Get(context.Background(), storeID, variationID)
	require.NoError(t, err)
	if sp == nil {
		return 0
	}
	return sp.Stock
}

func TestComplete_MovimientosPareados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, storeA, varV, 8)

	tr, err := f.uc.Create(ctx, dto.CreateTransferRequest{OriginStoreID: storeA, DestinationStoreID: storeB})
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferPending), tr.Status)

	_, err = f.uc.AddItem(ctx, tr.ID, dto.TransferItemRequest{VariationID: varV, Quantity: 5})
	require.NoError(t, err)

	done, err := f.uc.Complete(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferCompleted), done.Status)
	require.NotNil(t, done.CompletedAt)

	movs, err := f.db.Repos().Movements.List(ctx, repository.MovementFilter{ReferenceID: tr.ID})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	byReason := map[entity.MovementReason]*entity.InventoryMovement{}
	for _, m := range movs {
		byReason[m.Reason] = m
	}
	out, in := byReason[entity.ReasonTransferOut], byReason[entity.ReasonTransferIn]
	require.NotNil(t, out)
	require.NotNil(t, in)
	assert.Equal(t, storeA, out.StoreID)
	assert.Equal(t, -5, out.Delta)
	assert.Equal(t, storeB, in.StoreID)
	assert.Equal(t, 5, in.Delta)
	assert.Equal(t, varV, in.VariationID)

	assert.Equal(t, 3, f.stockOf(t, storeA, varV))
	assert.Equal(t, 5, f.stockOf(t, storeB, varV))
}

func TestCreate_MismaTienda(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), dto.CreateTransferRequest{OriginStoreID: storeA, DestinationStoreID: storeA})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(context.Background(), dto.CreateTransferRequest{OriginStoreID: storeA, DestinationStoreID: "00000000-0000-0000-0000-00000000ffff"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddItem_Reglas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.uc.Create(ctx, dto.CreateTransferRequest{OriginStoreID: storeA, DestinationStoreID: storeB})
	require.NoError(t, err)

	_, err = f.uc.AddItem(ctx, tr.ID, dto.TransferItemRequest{VariationID: varV, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.AddItem(ctx, tr.ID, dto.TransferItemRequest{VariationID: varV, Quantity: 2})
	require.NoError(t, err)
	_, err = f.uc.AddItem(ctx, tr.ID, dto.TransferItemRequest{VariationID: varV, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.AddItem(ctx, "00000000-0000-0000-0000-00000000ffff", dto.TransferItemRequest{VariationID: varV, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Cancel(ctx, tr.ID)
	require.NoError(t, err)
	_, err = f.uc.AddItem(ctx, tr.ID, dto.TransferItemRequest{VariationID: varW, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestComplete_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.uc.Create(ctx, dto.CreateTransferRequest{OriginStoreID: storeA, DestinationStoreID: storeB})
	require.NoError(t, err)
	_, err = f.uc.Complete(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	short, err := f.uc.Create(ctx, dto.CreateTransferRequest{OriginStoreID: storeA, DestinationStoreID: storeB})
	require.NoError(t, err)
	f.stock(t, storeA, varV, 2)
	_, err = f.uc.AddItem(ctx, short.ID, dto.TransferItemRequest{VariationID: varV, Quantity: 3})
	require.NoError(t, err)
	_, err = f.uc.Complete(ctx, short.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.stockOf(t, storeA, varV))
	assert.Equal(t, 0, f.stockOf(t, storeB, varV))

	got, err := f.uc.Get(ctx, short.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferPending), got.Status)

	f.stock(t, storeA, varV, 1)
	_, err = f.uc.Complete(ctx, short.ID)
	require.NoError(t, err)
	_, err = f.uc.Complete(ctx, short.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Cancel(ctx, short.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDispatchFromCentral(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, central, varV, 10)
	f.stock(t, central, varW, 4)
	cost := decimal.NewFromInt(4500)
	_, err := f.ledger.UpdateStoreProduct(ctx, central, varV, "admin", dto.UpdateStoreProductRequest{PriceCost: &cost})
	require.NoError(t, err)

	tr, err := f.uc.DispatchFromCentral(ctx, dto.DispatchRequest{
		DestinationStoreID: storeA,
		Items: []dto.TransferItemRequest{
			{VariationID: varV, Quantity: 6},
			{VariationID: varW, Quantity: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, central, tr.OriginStoreID)
	assert.Equal(t, string(entity.TransferCompleted), tr.Status)
	assert.Len(t, tr.Items, 2)

	assert.Equal(t, 4, f.stockOf(t, central, varV))
	assert.Equal(t, 0, f.stockOf(t, central, varW))
	assert.Equal(t, 6, f.stockOf(t, storeA, varV))

	sp, err := f.db.Repos().StoreProducts.Get(ctx, storeA, varV)
	require.NoError(t, err)
	assert.True(t, cost.Equal(sp.PriceCost))

	_, err = f.uc.DispatchFromCentral(ctx, dto.DispatchRequest{DestinationStoreID: central, Items: []dto.TransferItemRequest{{VariationID: varV, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// sin stock suficiente no queda traslado a medias
	before, err := f.uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	_, err = f.uc.DispatchFromCentral(ctx, dto.DispatchRequest{DestinationStoreID: storeB, Items: []dto.TransferItemRequest{{VariationID: varW, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	after, err := f.uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, after.Items, len(before.Items))
}
