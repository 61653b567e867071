package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

func seeded(t *testing.T) *memory.Store {
	t.Helper()
	db := memory.New()
	memory.SeedDemo(db)
	ledger := inventory.NewLedgerUseCase(db, db.Repos(), nil, nil, logger.Nop(), false)
	ctx := context.Background()
	for _, in := range []struct {
		store, variation string
		qty              int
	}{
		{memory.DemoStoreAID, memory.DemoVariation1ID, 5},
		{memory.DemoStoreAID, memory.DemoVariation2ID, 2},
		{memory.DemoStoreBID, memory.DemoVariation1ID, 7},
	} {
		qty := in.qty
		_, err := ledger.RecordMovement(ctx, inventory.MovementInput{
			StoreID: in.store, VariationID: in.variation, Reason: entity.ReasonPurchase, Quantity: &qty,
		})
		require.NoError(t, err)
	}
	return db
}

func TestRun_SinDiferencias(t *testing.T) {
	db := seeded(t)
	svc := NewService(db.Repos(), logger.Nop())

	report, err := svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Checked)
	assert.Empty(t, report.Drifted)
}

func TestRun_DetectaDiferenciaSinCorregir(t *testing.T) {
	db := seeded(t)
	ctx := context.Background()
	repos := db.Repos()

	// escritura directa a la caché, fuera del ledger
	sp, err := repos.StoreProducts.Get(ctx, memory.DemoStoreAID, memory.DemoVariation2ID)
	require.NoError(t, err)
	sp.Stock = 9
	require.NoError(t, repos.StoreProducts.Update(ctx, sp))

	svc := NewService(repos, logger.Nop())
	report, err := svc.Run(ctx, memory.DemoStoreAID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	require.Len(t, report.Drifted, 1)
	d := report.Drifted[0]
	assert.Equal(t, memory.DemoVariation2ID, d.VariationID)
	assert.Equal(t, 9, d.CachedStock)
	assert.Equal(t, 2, d.LedgerStock)
	assert.Equal(t, 7, d.Drift)

	again, err := repos.StoreProducts.Get(ctx, memory.DemoStoreAID, memory.DemoVariation2ID)
	require.NoError(t, err)
	assert.Equal(t, 9, again.Stock)

	other, err := svc.Run(ctx, memory.DemoStoreBID)
	require.NoError(t, err)
	assert.Empty(t, other.Drifted)
}

func TestRun_TiendaInexistente(t *testing.T) {
	db := seeded(t)
	_, err := NewService(db.Repos(), logger.Nop()).Run(context.Background(), "00000000-0000-0000-0000-00000000ffff")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
