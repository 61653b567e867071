package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/money"
	"github.com/jhoicas/Tiendas-api/internal/domain/pricing"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

// QuoteCache caché versionada de consultas de precio (redis en producción).
// Bump invalida todas las entradas de golpe.
type QuoteCache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, time.Time, error)) error
	Bump(ctx context.Context) error
}

// PricingUseCase historial de precios, ofertas especiales y cálculo de precio final.
type PricingUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	cache    QuoteCache
	log      *logger.Logger
	now      func() time.Time
}

// NewPricingUseCase construye el caso de uso. cache puede ser nil.
func NewPricingUseCase(txRunner repository.TxRunner, repos repository.Repos, cache QuoteCache, log *logger.Logger) *PricingUseCase {
	return &PricingUseCase{
		txRunner: txRunner,
		repos:    repos,
		cache:    cache,
		log:      log.Component("pricing"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// PriceChange cambio de un precio sobre un StoreProduct.
type PriceChange struct {
	Type      entity.PriceType
	NewPrice  decimal.Decimal
	Reason    string
	ChangedBy string
}

// RecordPriceChange escribe la fila de historial y sobrescribe el precio en sp.
// sp debe venir bloqueado; el llamador persiste sp dentro de la misma transacción.
func RecordPriceChange(ctx context.Context, r repository.Repos, sp *entity.StoreProduct, ch PriceChange, now time.Time) (*entity.PriceHistory, error) {
	if !ch.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo de precio %q", domain.ErrInvalidInput, ch.Type)
	}
	if ch.NewPrice.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	newPrice := money.Round(ch.NewPrice)

	var old decimal.Decimal
	switch ch.Type {
	case entity.PriceCost:
		old = sp.PriceCost
		sp.PriceCost = newPrice
	case entity.PriceList:
		old = sp.ListPrice()
		p := newPrice
		sp.PriceList = &p
	}
	sp.UpdatedAt = now

	h := &entity.PriceHistory{
		ID:             uuid.New().String(),
		StoreProductID: sp.ID,
		PriceType:      ch.Type,
		OldPrice:       old,
		NewPrice:       newPrice,
		Reason:         ch.Reason,
		ChangedBy:      ch.ChangedBy,
		EffectiveDate:  now,
	}
	if err := r.PriceHistory.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// UpdatePrice cambia el costo o el precio de lista de un producto en tienda dejando historial.
// Crea el StoreProduct si aún no existe.
func (uc *PricingUseCase) UpdatePrice(ctx context.Context, in dto.UpdatePriceRequest) (*dto.PriceHistoryResponse, error) {
	if in.StoreID == "" || in.VariationID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.PriceHistory
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		store, err := r.Stores.GetByID(ctx, in.StoreID)
		if err != nil {
			return err
		}
		v, err := r.Variations.GetByID(ctx, in.VariationID)
		if err != nil {
			return err
		}
		if store == nil || v == nil {
			return fmt.Errorf("%w: tienda %s / variación %s", domain.ErrNotFound, in.StoreID, in.VariationID)
		}
		sp, err := r.StoreProducts.LockOrCreate(ctx, in.StoreID, in.VariationID)
		if err != nil {
			return err
		}
		h, err := RecordPriceChange(ctx, r, sp, PriceChange{
			Type:      entity.PriceType(in.PriceType),
			NewPrice:  in.NewPrice,
			Reason:    in.Reason,
			ChangedBy: in.ChangedBy,
		}, uc.now())
		if err != nil {
			return err
		}
		out = h
		return r.StoreProducts.Update(ctx, sp)
	})
	if err != nil {
		return nil, err
	}
	uc.Invalidate(ctx)
	return toPriceHistoryResponse(out), nil
}

// GetPriceHistory historial de un producto en tienda, más reciente primero.
func (uc *PricingUseCase) GetPriceHistory(ctx context.Context, storeID, variationID string) ([]dto.PriceHistoryResponse, error) {
	sp, err := uc.repos.StoreProducts.Get(ctx, storeID, variationID)
	if err != nil {
		return nil, err
	}
	out := []dto.PriceHistoryResponse{}
	if sp == nil {
		return out, nil
	}
	list, err := uc.repos.PriceHistory.ListByStoreProduct(ctx, sp.ID)
	if err != nil {
		return nil, err
	}
	for _, h := range list {
		out = append(out, *toPriceHistoryResponse(h))
	}
	return out, nil
}

// CreateSpecialOffer crea una oferta si no se superpone con otra activa del mismo producto.
// La fila del StoreProduct queda bloqueada para serializar creaciones concurrentes.
func (uc *PricingUseCase) CreateSpecialOffer(ctx context.Context, in dto.CreateOfferRequest) (*dto.OfferResponse, error) {
	dt := entity.DiscountType(in.DiscountType)
	if err := pricing.ValidateOffer(dt, in.Value, in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	now := uc.now()
	offer := &entity.SpecialOffer{
		ID:             uuid.New().String(),
		StoreProductID: in.StoreProductID,
		Description:    in.Description,
		DiscountType:   dt,
		Value:          in.Value,
		StartDate:      in.StartDate.UTC(),
		EndDate:        utcPtr(in.EndDate),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		sp, err := r.StoreProducts.GetByIDForUpdate(ctx, in.StoreProductID)
		if err != nil {
			return err
		}
		if sp == nil {
			return fmt.Errorf("%w: producto en tienda %s", domain.ErrNotFound, in.StoreProductID)
		}
		existing, err := r.Offers.ListActiveByStoreProduct(ctx, sp.ID)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if pricing.Overlaps(e, offer.StartDate, offer.EndDate) {
				return fmt.Errorf("%w: se superpone con la oferta %s (%s)", domain.ErrConflict, e.ID, describeRange(e))
			}
		}
		return r.Offers.Create(ctx, offer)
	})
	if err != nil {
		return nil, err
	}
	uc.Invalidate(ctx)
	uc.log.Info().Str("offer_id", offer.ID).Str("store_product_id", offer.StoreProductID).Msg("oferta creada")
	return toOfferResponse(offer), nil
}

// UpdateSpecialOffer aplica un parche parcial. La superposición solo se valida al crear.
func (uc *PricingUseCase) UpdateSpecialOffer(ctx context.Context, id string, in dto.UpdateOfferRequest) (*dto.OfferResponse, error) {
	var out *entity.SpecialOffer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		o, err := r.Offers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, id)
		}
		if in.Description != nil {
			o.Description = *in.Description
		}
		if in.DiscountType != nil {
			o.DiscountType = entity.DiscountType(*in.DiscountType)
		}
		if in.Value != nil {
			o.Value = *in.Value
		}
		if in.StartDate != nil {
			o.StartDate = in.StartDate.UTC()
		}
		if in.ClearEndDate {
			o.EndDate = nil
		} else if in.EndDate != nil {
			o.EndDate = utcPtr(in.EndDate)
		}
		if in.IsActive != nil {
			o.IsActive = *in.IsActive
		}
		if err := pricing.ValidateOffer(o.DiscountType, o.Value, o.StartDate, o.EndDate); err != nil {
			return err
		}
		o.UpdatedAt = uc.now()
		out = o
		return r.Offers.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.Invalidate(ctx)
	return toOfferResponse(out), nil
}

// GetActiveOffer oferta vigente ahora para el producto en tienda, o nil si no hay.
func (uc *PricingUseCase) GetActiveOffer(ctx context.Context, storeProductID string) (*dto.OfferResponse, error) {
	o, err := uc.activeOffer(ctx, storeProductID)
	if err != nil || o == nil {
		return nil, err
	}
	return toOfferResponse(o), nil
}

func (uc *PricingUseCase) activeOffer(ctx context.Context, storeProductID string) (*entity.SpecialOffer, error) {
	offers, err := uc.repos.Offers.ListActiveByStoreProduct(ctx, storeProductID)
	if err != nil {
		return nil, err
	}
	return pricing.PickActive(offers, uc.now()), nil
}

// CalculateFinalPrice precio de lista con la oferta vigente aplicada, sin caché.
func (uc *PricingUseCase) CalculateFinalPrice(ctx context.Context, storeProductID string) (*dto.PriceCheckResponse, error) {
	out, _, err := uc.quote(ctx, storeProductID)
	return out, err
}

// quote calcula el precio final y el instante hasta el que vale (cero si no cambia solo).
func (uc *PricingUseCase) quote(ctx context.Context, storeProductID string) (*dto.PriceCheckResponse, time.Time, error) {
	sp, err := uc.repos.StoreProducts.GetByID(ctx, storeProductID)
	if err != nil {
		return nil, time.Time{}, err
	}
	if sp == nil {
		return nil, time.Time{}, fmt.Errorf("%w: producto en tienda %s", domain.ErrNotFound, storeProductID)
	}
	offers, err := uc.repos.Offers.ListActiveByStoreProduct(ctx, sp.ID)
	if err != nil {
		return nil, time.Time{}, err
	}
	now := uc.now()
	q := pricing.FinalPrice(sp, pricing.PickActive(offers, now))
	validUntil, _ := pricing.NextChange(offers, now)
	return &dto.PriceCheckResponse{
		StoreProductID:  sp.ID,
		OriginalPrice:   q.OriginalPrice,
		FinalPrice:      q.FinalPrice,
		DiscountApplied: q.DiscountApplied,
		DiscountDetails: toOfferResponse(q.Offer),
	}, validUntil, nil
}

// PriceCheck CalculateFinalPrice servido a través de la caché. Cada entrada vence
// a más tardar cuando una oferta empieza o termina.
func (uc *PricingUseCase) PriceCheck(ctx context.Context, storeProductID string) (*dto.PriceCheckResponse, error) {
	if uc.cache == nil {
		return uc.CalculateFinalPrice(ctx, storeProductID)
	}
	key, err := uc.cache.BuildKey(ctx, "pricing", "check", storeProductID)
	if err != nil {
		uc.log.Warn().Err(err).Msg("caché de precios no disponible")
		return uc.CalculateFinalPrice(ctx, storeProductID)
	}
	var out dto.PriceCheckResponse
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, time.Time, error) {
		return uc.quote(ctx, storeProductID)
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		uc.log.Warn().Err(err).Msg("caché de precios no disponible")
		return uc.CalculateFinalPrice(ctx, storeProductID)
	}
	return &out, nil
}

// GetStoreCatalog productos de una tienda con su precio final proyectado.
func (uc *PricingUseCase) GetStoreCatalog(ctx context.Context, storeID string) (*dto.CatalogResponse, error) {
	store, err := uc.repos.Stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, storeID)
	}
	rows, err := uc.repos.StoreProducts.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	offers, err := uc.repos.Offers.ListActiveByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &dto.CatalogResponse{
		StoreID: storeID,
		Items:   ProjectCatalog(rows, offers, uc.now()),
	}, nil
}

// Invalidate descarta las consultas de precio cacheadas. Un fallo de redis solo se registra.
func (uc *PricingUseCase) Invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Bump(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de precios")
	}
}

func isDomainError(err error) bool {
	for _, target := range []error{domain.ErrNotFound, domain.ErrInvalidInput} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func describeRange(o *entity.SpecialOffer) string {
	end := "sin término"
	if o.EndDate != nil {
		end = o.EndDate.Format("2006-01-02")
	}
	return o.StartDate.Format("2006-01-02") + " - " + end
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
