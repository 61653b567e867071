package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

type fakeCache struct {
	data  map[string]interface{}
	until map[string]time.Time
	bumps int
	now   func() time.Time
}

func (f *fakeCache) BuildKey(_ context.Context, parts ...string) (string, error) {
	k := ""
	for _, p := range parts {
		k += p + ":"
	}
	return k + string(rune('0'+f.bumps)), nil
}

func (f *fakeCache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, time.Time, error)) error {
	if v, ok := f.data[key]; ok {
		if u := f.until[key]; u.IsZero() || f.now().Before(u) {
			*dest.(*dto.PriceCheckResponse) = *v.(*dto.PriceCheckResponse)
			return nil
		}
	}
	v, until, err := loader(ctx)
	if err != nil {
		return err
	}
	f.data[key], f.until[key] = v, until
	*dest.(*dto.PriceCheckResponse) = *v.(*dto.PriceCheckResponse)
	return nil
}

func (f *fakeCache) Bump(context.Context) error {
	f.bumps++
	return nil
}

type fixture struct {
	uc    *PricingUseCase
	db    *memory.Store
	cache *fakeCache
	spID  string
}

// newFixture deja un StoreProduct con precio de lista 10000 en la tienda A.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	memory.SeedDemo(db)
	cache := &fakeCache{data: map[string]interface{}{}, until: map[string]time.Time{}}
	uc := NewPricingUseCase(db, db.Repos(), cache, logger.Nop())
	uc.now = func() time.Time { return date(2024, 3, 15) }
	cache.now = uc.now

	_, err := uc.UpdatePrice(context.Background(), dto.UpdatePriceRequest{
		StoreID:     memory.DemoStoreAID,
		VariationID: memory.DemoVariation1ID,
		PriceType:   string(entity.PriceList),
		NewPrice:    decimal.NewFromInt(10000),
		Reason:      "lanzamiento",
	})
	require.NoError(t, err)
	sp, err := db.Repos().StoreProducts.Get(context.Background(), memory.DemoStoreAID, memory.DemoVariation1ID)
	require.NoError(t, err)
	return &fixture{uc: uc, db: db, cache: cache, spID: sp.ID}
}

func TestUpdatePrice_HistorialYSobrescritura(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.uc.now = func() time.Time { return date(2024, 4, 1) }

	h, err := f.uc.UpdatePrice(ctx, dto.UpdatePriceRequest{
		StoreID:     memory.DemoStoreAID,
		VariationID: memory.DemoVariation1ID,
		PriceType:   "LIST",
		NewPrice:    decimal.RequireFromString("8990.456"),
		ChangedBy:   "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "10000", h.OldPrice.String())
	assert.Equal(t, "8990.46", h.NewPrice.String())

	hist, err := f.uc.GetPriceHistory(ctx, memory.DemoStoreAID, memory.DemoVariation1ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, h.ID, hist[0].ID, "más reciente primero")
	assert.Equal(t, "0", hist[1].OldPrice.String())

	sp, err := f.db.Repos().StoreProducts.GetByID(ctx, f.spID)
	require.NoError(t, err)
	assert.Equal(t, "8990.46", sp.PriceList.String())
	assert.GreaterOrEqual(t, f.cache.bumps, 2)
}

func TestUpdatePrice_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.UpdatePrice(ctx, dto.UpdatePriceRequest{StoreID: memory.DemoStoreAID, VariationID: memory.DemoVariation1ID, PriceType: "MSRP", NewPrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdatePrice(ctx, dto.UpdatePriceRequest{StoreID: memory.DemoStoreAID, VariationID: memory.DemoVariation1ID, PriceType: "COST", NewPrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdatePrice(ctx, dto.UpdatePriceRequest{StoreID: memory.DemoStoreAID, VariationID: "00000000-0000-0000-0000-00000000ffff", PriceType: "COST", NewPrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	hist, err := f.uc.GetPriceHistory(ctx, memory.DemoStoreBID, memory.DemoVariation1ID)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestCreateSpecialOffer_Superposicion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.CreateSpecialOffer(ctx, dto.CreateOfferRequest{
		StoreProductID: f.spID,
		DiscountType:   "PERCENTAGE",
		Value:          decimal.NewFromInt(20),
		StartDate:      date(2024, 1, 1),
		EndDate:        datePtr(2024, 6, 1),
	})
	require.NoError(t, err)

	_, err = f.uc.CreateSpecialOffer(ctx, dto.CreateOfferRequest{
		StoreProductID: f.spID,
		DiscountType:   "FIXED_AMOUNT",
		Value:          decimal.NewFromInt(500),
		StartDate:      date(2024, 1, 1),
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), first.ID)

	// ventana posterior, sin choque
	_, err = f.uc.CreateSpecialOffer(ctx, dto.CreateOfferRequest{
		StoreProductID: f.spID,
		DiscountType:   "FIXED_PRICE",
		Value:          decimal.NewFromInt(5000),
		StartDate:      date(2024, 6, 2),
	})
	require.NoError(t, err)

	// una oferta desactivada no bloquea
	inactive := false
	_, err = f.uc.UpdateSpecialOffer(ctx, first.ID, dto.UpdateOfferRequest{IsActive: &inactive})
	require.NoError(t, err)
	_, err = f.uc.CreateSpecialOffer(ctx, dto.CreateOfferRequest{
		StoreProductID: f.spID,
		DiscountType:   "PERCENTAGE",
		Value:          decimal.NewFromInt(5),
		StartDate:      date(2024, 2, 1),
		EndDate:        datePtr(2024, 2, 28),
	})
	require.NoError(t, err)
}

func TestCreateSpecialOffer_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateOfferRequest
		want error
	}{
		{"porcentaje sobre 100", dto.CreateOfferRequest{StoreProductID: f.spID, DiscountType: "PERCENTAGE", Value: decimal.NewFromInt(120), StartDate: date(2024, 1, 1)}, domain.ErrInvalidInput},
		{"valor cero", dto.CreateOfferRequest{StoreProductID: f.spID, DiscountType: "FIXED_AMOUNT", Value: decimal.Zero, StartDate: date(2024, 1, 1)}, domain.ErrInvalidInput},
		{"fin antes de inicio", dto.CreateOfferRequest{StoreProductID: f.spID, DiscountType: "FIXED_AMOUNT", Value: decimal.NewFromInt(1), StartDate: date(2024, 5, 1), EndDate: datePtr(2024, 4, 1)}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateOfferRequest{StoreProductID: "00000000-0000-0000-0000-00000000ffff", DiscountType: "FIXED_AMOUNT", Value: decimal.NewFromInt(1), StartDate: date(2024, 1, 1)}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CreateSpecialOffer(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := f.uc.UpdateSpecialOffer(ctx, "00000000-0000-0000-0000-00000000ffff", dto.UpdateOfferRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalculateFinalPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q, err := f.uc.CalculateFinalPrice(ctx, f.spID)
	require.NoError(t, err)
	assert.False(t, q.DiscountApplied)
	assert.Nil(t, q.DiscountDetails)
	assert.Equal(t, "10000", q.FinalPrice.String())

	offer, err := f.uc.CreateSpecialOffer(ctx, dto.CreateOfferRequest{
		StoreProductID: f.spID,
		DiscountType:   "PERCENTAGE",
		Value:          decimal.NewFromInt(20),
		StartDate:      date(2024, 3, 1),
	})
	require.NoError(t, err)

	q, err = f.uc.CalculateFinalPrice(ctx, f.spID)
	require.NoError(t, err)
	assert.True(t, q.DiscountApplied)
	assert.Equal(t, "8000.00", q.FinalPrice.StringFixed(2))
	assert.Equal(t, offer.ID, q.DiscountDetails.ID)

	active, err := f.uc.GetActiveOffer(ctx, f.spID)
	require.NoError(t, err)
	assert.Equal(t, offer.ID, active.ID)

	_, err = f.uc.CalculateFinalPrice(ctx, "00000000-0000-0000-0000-00000000ffff")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPriceCheck_UsaCacheHastaInvalidar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.PriceCheck(ctx, f.spID)
	require.NoError(t, err)
	assert.Equal(t, "10000", first.FinalPrice.String())

	// escritura directa sin invalidar: la caché sigue respondiendo el valor anterior
	sp, err := f.db.Repos().StoreProducts.GetByID(ctx, f.spID)
	require.NoError(t, err)
	p := decimal.NewFromInt(1)
	sp.PriceList = &p
	require.NoError(t, f.db.Repos().StoreProducts.Update(ctx, sp))

	cached, err := f.uc.PriceCheck(ctx, f.spID)
	require.NoError(t, err)
	assert.Equal(t, "10000", cached.FinalPrice.String())

	f.uc.Invalidate(ctx)
	fresh, err := f.uc.PriceCheck(ctx, f.spID)
	require.NoError(t, err)
	assert.Equal(t, "1", fresh.FinalPrice.String())
}

func TestPriceCheck_VenceAlTerminarLaOferta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := date(2024, 3, 15)
	f.uc.now = func() time.Time { return now }
	f.cache.now = func() time.Time { return now }

	end := date(2024, 3, 20)
	_, err := f.uc.CreateSpecialOffer(ctx, dto.CreateOfferRequest{
		StoreProductID: f.spID,
		DiscountType:   "PERCENTAGE",
		Value:          decimal.NewFromInt(50),
		StartDate:      date(2024, 3, 1),
		EndDate:        &end,
	})
	require.NoError(t, err)

	during, err := f.uc.PriceCheck(ctx, f.spID)
	require.NoError(t, err)
	assert.Equal(t, "5000", during.FinalPrice.String())

	key, err := f.cache.BuildKey(ctx, "pricing", "check", f.spID)
	require.NoError(t, err)
	assert.Equal(t, end.Add(time.Nanosecond), f.cache.until[key])

	// sin escrituras: solo pasa el tiempo
	now = date(2024, 3, 21)
	after, err := f.uc.PriceCheck(ctx, f.spID)
	require.NoError(t, err)
	assert.False(t, after.DiscountApplied)
	assert.Equal(t, "10000", after.FinalPrice.String())
}

func TestPriceCheck_VenceAlEmpezarUnaOferta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := date(2024, 3, 15)
	f.uc.now = func() time.Time { return now }
	f.cache.now = func() time.Time { return now }

	_, err := f.uc.CreateSpecialOffer(ctx, dto.CreateOfferRequest{
		StoreProductID: f.spID,
		DiscountType:   "FIXED_PRICE",
		Value:          decimal.NewFromInt(7000),
		StartDate:      date(2024, 4, 1),
	})
	require.NoError(t, err)

	before, err := f.uc.PriceCheck(ctx, f.spID)
	require.NoError(t, err)
	assert.Equal(t, "10000", before.FinalPrice.String())

	now = date(2024, 4, 1)
	started, err := f.uc.PriceCheck(ctx, f.spID)
	require.NoError(t, err)
	assert.True(t, started.DiscountApplied)
	assert.Equal(t, "7000", started.FinalPrice.String())
}

func TestGetStoreCatalog_Proyeccion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateSpecialOffer(ctx, dto.CreateOfferRequest{
		StoreProductID: f.spID,
		DiscountType:   "FIXED_AMOUNT",
		Value:          decimal.NewFromInt(2500),
		StartDate:      date(2024, 3, 1),
		EndDate:        datePtr(2024, 3, 31),
	})
	require.NoError(t, err)

	cat, err := f.uc.GetStoreCatalog(ctx, memory.DemoStoreAID)
	require.NoError(t, err)
	require.Len(t, cat.Items, 1)
	assert.Equal(t, "7500", cat.Items[0].FinalPrice.String())
	assert.True(t, cat.Items[0].DiscountApplied)

	// la fila persistida conserva su precio de lista
	sp, err := f.db.Repos().StoreProducts.GetByID(ctx, f.spID)
	require.NoError(t, err)
	assert.Equal(t, "10000", sp.PriceList.String())

	_, err = f.uc.GetStoreCatalog(ctx, "00000000-0000-0000-0000-00000000ffff")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
