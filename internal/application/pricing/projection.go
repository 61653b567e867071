package pricing

import (
	"time"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/pricing"
)

// ProjectCatalog arma la vista de catálogo sin tocar las filas persistidas.
// offers puede traer ofertas de varios productos de la tienda.
func ProjectCatalog(rows []*entity.StoreStock, offers []*entity.SpecialOffer, now time.Time) []dto.CatalogItem {
	bySP := make(map[string][]*entity.SpecialOffer, len(offers))
	for _, o := range offers {
		bySP[o.StoreProductID] = append(bySP[o.StoreProductID], o)
	}
	out := make([]dto.CatalogItem, 0, len(rows))
	for _, row := range rows {
		sp := row.StoreProduct
		q := pricing.FinalPrice(&sp, pricing.PickActive(bySP[sp.ID], now))
		item := dto.CatalogItem{
			StoreStockItem:  ToStoreStockItem(row),
			FinalPrice:      q.FinalPrice,
			DiscountApplied: q.DiscountApplied,
		}
		if q.Offer != nil {
			item.OfferID = q.Offer.ID
		}
		out = append(out, item)
	}
	return out
}

// ToStoreStockItem fila de stock para respuestas.
func ToStoreStockItem(s *entity.StoreStock) dto.StoreStockItem {
	return dto.StoreStockItem{
		StoreProductID: s.ID,
		VariationID:    s.VariationID,
		ProductID:      s.ProductID,
		ProductName:    s.ProductName,
		SKU:            s.SKU,
		Size:           s.Size,
		Color:          s.Color,
		Stock:          s.Stock,
		PriceCost:      s.PriceCost,
		PriceList:      s.PriceList,
	}
}

func toOfferResponse(o *entity.SpecialOffer) *dto.OfferResponse {
	if o == nil {
		return nil
	}
	return &dto.OfferResponse{
		ID:             o.ID,
		StoreProductID: o.StoreProductID,
		Description:    o.Description,
		DiscountType:   string(o.DiscountType),
		Value:          o.Value,
		StartDate:      o.StartDate,
		EndDate:        o.EndDate,
		IsActive:       o.IsActive,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func toPriceHistoryResponse(h *entity.PriceHistory) *dto.PriceHistoryResponse {
	return &dto.PriceHistoryResponse{
		ID:             h.ID,
		StoreProductID: h.StoreProductID,
		PriceType:      string(h.PriceType),
		OldPrice:       h.OldPrice,
		NewPrice:       h.NewPrice,
		Reason:         h.Reason,
		ChangedBy:      h.ChangedBy,
		EffectiveDate:  h.EffectiveDate,
	}
}
