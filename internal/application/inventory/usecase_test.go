package inventory

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

const (
	storeA = memory.DemoStoreAID
	varV   = memory.DemoVariation1ID
)

func newLedger(t *testing.T, allowNegative bool) (*LedgerUseCase, *memory.Store) {
	t.Helper()
	db := memory.New()
	memory.SeedDemo(db)
	return NewLedgerUseCase(db, db.Repos(), nil, nil, logger.Nop(), allowNegative), db
}

func intPtr(n int) *int { return &n }

func stockOf(t *testing.T, db *memory.Store, storeID, variationID string) int {
	t.Helper()
	sp, err := db.Repos().StoreProducts.Get(context.Background(), storeID, variationID)
	require.NoError(t, err)
	if sp == nil {
		return 0
	}
	return sp.Stock
}

func ledgerSum(t *testing.T, db *memory.Store, storeID, variationID string) int {
	t.Helper()
	list, err := db.Repos().Movements.List(context.Background(), repository.MovementFilter{StoreID: storeID, VariationID: variationID})
	require.NoError(t, err)
	sum := 0
	for _, m := range list {
		sum += m.Delta
	}
	return sum
}

func TestRecordMovement_CacheIgualASumaDeDeltas(t *testing.T) {
	uc, db := newLedger(t, true)
	ctx := context.Background()

	steps := []MovementInput{
		{Reason: entity.ReasonPurchase, Quantity: intPtr(10)},
		{Reason: entity.ReasonSale, Quantity: intPtr(3)},
		{Reason: entity.ReasonTransferIn, Quantity: intPtr(4)},
		{Reason: entity.ReasonTransferOut, Quantity: intPtr(2)},
		{Reason: entity.ReasonAdjustment, NewStock: intPtr(20)},
		{Reason: entity.ReasonSale, Quantity: intPtr(25)}, // permitido con stock negativo habilitado
	}
	for _, s := range steps {
		s.StoreID, s.VariationID = storeA, varV
		_, err := uc.RecordMovement(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, ledgerSum(t, db, storeA, varV), stockOf(t, db, storeA, varV))
	}
	assert.Equal(t, -5, stockOf(t, db, storeA, varV))
}

func TestRecordMovement_AjusteFijaElStock(t *testing.T) {
	uc, db := newLedger(t, false)
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonPurchase, Quantity: intPtr(7)})
	require.NoError(t, err)

	mov, err := uc.RecordMovement(ctx, MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonAdjustment, NewStock: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, -5, mov.Delta)
	assert.Equal(t, 2, stockOf(t, db, storeA, varV))

	mov, err = uc.RecordMovement(ctx, MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonAdjustment, NewStock: intPtr(11)})
	require.NoError(t, err)
	assert.Equal(t, 9, mov.Delta)
	assert.Equal(t, 11, stockOf(t, db, storeA, varV))
}

func TestRecordMovement_Validaciones(t *testing.T) {
	uc, db := newLedger(t, false)
	ctx := context.Background()

	cases := []struct {
		name string
		in   MovementInput
		want error
	}{
		{"venta sin cantidad", MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonSale}, domain.ErrInvalidInput},
		{"compra sin cantidad", MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonPurchase}, domain.ErrInvalidInput},
		{"compra con cantidad cero", MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonPurchase, Quantity: intPtr(0)}, domain.ErrInvalidInput},
		{"compra con cantidad negativa", MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonPurchase, Quantity: intPtr(math.MinInt)}, domain.ErrInvalidInput},
		{"traspaso de entrada negativo", MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonTransferIn, Quantity: intPtr(-4)}, domain.ErrInvalidInput},
		{"ajuste sin newStock", MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonAdjustment, Quantity: intPtr(3)}, domain.ErrInvalidInput},
		{"ajuste negativo", MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonAdjustment, NewStock: intPtr(-1)}, domain.ErrInvalidInput},
		{"motivo desconocido", MovementInput{StoreID: storeA, VariationID: varV, Reason: "RETURN", Quantity: intPtr(1)}, domain.ErrInvalidInput},
		{"tienda inexistente", MovementInput{StoreID: "00000000-0000-0000-0000-00000000ffff", VariationID: varV, Reason: entity.ReasonPurchase, Quantity: intPtr(1)}, domain.ErrNotFound},
		{"variación inexistente", MovementInput{StoreID: storeA, VariationID: "00000000-0000-0000-0000-00000000ffff", Reason: entity.ReasonPurchase, Quantity: intPtr(1)}, domain.ErrNotFound},
		{"stock insuficiente", MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonSale, Quantity: intPtr(1)}, domain.ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RecordMovement(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	list, err := db.Repos().Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "ningún intento fallido deja movimientos")
}

func TestApply_ErrorDentroDeLaTransaccionNoDejaRastro(t *testing.T) {
	uc, db := newLedger(t, false)
	ctx := context.Background()

	err := db.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		_, _, err := uc.Apply(ctx, r, Entry{StoreID: storeA, VariationID: varV, Reason: entity.ReasonPurchase, Delta: 5})
		require.NoError(t, err)
		_, _, err = uc.Apply(ctx, r, Entry{StoreID: storeA, VariationID: varV, Reason: entity.ReasonSale, Delta: -9, CheckStock: true})
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, stockOf(t, db, storeA, varV))
	assert.Equal(t, 0, ledgerSum(t, db, storeA, varV))
}

func TestApply_SobrescribeCosto(t *testing.T) {
	uc, db := newLedger(t, false)
	ctx := context.Background()
	cost := decimal.RequireFromString("1990.50")

	err := db.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		_, _, err := uc.Apply(ctx, r, Entry{StoreID: storeA, VariationID: varV, Reason: entity.ReasonPurchase, Delta: 3, PriceCost: &cost, ReferenceID: "po-1"})
		return err
	})
	require.NoError(t, err)

	sp, err := db.Repos().StoreProducts.Get(ctx, storeA, varV)
	require.NoError(t, err)
	assert.True(t, cost.Equal(sp.PriceCost))
	assert.Equal(t, 3, sp.Stock)
}

func TestGetStoreStockYListMovements(t *testing.T) {
	uc, _ := newLedger(t, false)
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonPurchase, Quantity: intPtr(4), ReferenceID: "manual-1"})
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, MovementInput{StoreID: storeA, VariationID: memory.DemoVariation3ID, Reason: entity.ReasonPurchase, Quantity: intPtr(1)})
	require.NoError(t, err)

	stock, err := uc.GetStoreStock(ctx, storeA)
	require.NoError(t, err)
	require.Len(t, stock.Items, 2)
	assert.Equal(t, "Jeans slim", stock.Items[0].ProductName)
	assert.Equal(t, "POL-BAS-M-NEG", stock.Items[1].SKU)
	assert.Equal(t, 4, stock.Items[1].Stock)

	_, err = uc.GetStoreStock(ctx, "00000000-0000-0000-0000-00000000ffff")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.ListMovements(ctx, dto.MovementListRequest{StoreID: storeA})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, memory.DemoVariation3ID, list.Items[0].VariationID, "más reciente primero")
	assert.Equal(t, 20, list.Page.Limit)

	byRef, err := uc.ListMovements(ctx, dto.MovementListRequest{ReferenceID: "manual-1"})
	require.NoError(t, err)
	assert.Len(t, byRef.Items, 1)
}

func TestUpdateStoreProduct(t *testing.T) {
	uc, db := newLedger(t, false)
	ctx := context.Background()
	list := decimal.NewFromInt(12990)
	cost := decimal.NewFromInt(6000)

	item, err := uc.UpdateStoreProduct(ctx, storeA, varV, "admin-1", dto.UpdateStoreProductRequest{
		Stock:     intPtr(8),
		PriceCost: &cost,
		PriceList: &list,
		Reason:    "carga inicial",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, item.Stock)
	assert.Equal(t, "POL-BAS-M-NEG", item.SKU)
	assert.True(t, list.Equal(*item.PriceList))
	assert.True(t, cost.Equal(item.PriceCost))

	movs, err := db.Repos().Movements.List(ctx, repository.MovementFilter{StoreID: storeA})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.ReasonAdjustment, movs[0].Reason)
	assert.Equal(t, 8, movs[0].Delta)

	sp, err := db.Repos().StoreProducts.Get(ctx, storeA, varV)
	require.NoError(t, err)
	hist, err := db.Repos().PriceHistory.ListByStoreProduct(ctx, sp.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 2)

	_, err = uc.UpdateStoreProduct(ctx, storeA, varV, "", dto.UpdateStoreProductRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type fakeExporter struct{ rows int }

func (f *fakeExporter) StoreStock(_ *entity.Store, rows []*entity.StoreStock) ([]byte, error) {
	f.rows = len(rows)
	return []byte("xlsx"), nil
}

func TestExportStoreStock(t *testing.T) {
	db := memory.New()
	memory.SeedDemo(db)
	exp := &fakeExporter{}
	uc := NewLedgerUseCase(db, db.Repos(), exp, nil, logger.Nop(), false)
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, MovementInput{StoreID: storeA, VariationID: varV, Reason: entity.ReasonPurchase, Quantity: intPtr(1)})
	require.NoError(t, err)

	out, err := uc.ExportStoreStock(ctx, storeA)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), out)
	assert.Equal(t, 1, exp.rows)
}
