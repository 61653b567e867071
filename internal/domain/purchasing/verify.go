package purchasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/money"
)

// Scan cantidad recibida de una variación. UnitPrice opcional reemplaza el precio de la línea.
type Scan struct {
	VariationID string
	Received    int
	UnitPrice   *decimal.Decimal
}

// Summary conteos de la conciliación.
type Summary struct {
	Completos   int `json:"completos"`
	Faltantes   int `json:"faltantes"`
	DeMas       int `json:"deMas"`
	NoEsperados int `json:"noEsperados"`
}

// Reconcile concilia lo escaneado contra las líneas de po, modificando las
// líneas existentes y agregando las no esperadas. Devuelve las líneas nuevas.
// Falla con ErrInvariantViolation si una cantidad recibida disminuye.
func Reconcile(po *entity.PurchaseOrder, scans []Scan, now time.Time) (Summary, []*entity.PurchaseOrderItem, error) {
	var sum Summary
	var added []*entity.PurchaseOrderItem

	byVariation := make(map[string]*entity.PurchaseOrderItem, len(po.Items))
	for _, it := range po.Items {
		byVariation[it.VariationID] = it
	}
	scanned := make(map[string]bool, len(scans))

	for _, s := range scans {
		if s.VariationID == "" || s.Received <= 0 {
			return Summary{}, nil, fmt.Errorf("%w: cada escaneo requiere variationID y received > 0", domain.ErrInvalidInput)
		}
		scanned[s.VariationID] = true

		it, ok := byVariation[s.VariationID]
		if !ok {
			price := decimal.Zero
			if s.UnitPrice != nil {
				price = *s.UnitPrice
			}
			it = &entity.PurchaseOrderItem{
				ID:                uuid.New().String(),
				PurchaseOrderID:   po.ID,
				VariationID:       s.VariationID,
				UnitPrice:         price,
				QuantityRequested: s.Received,
				QuantityReceived:  s.Received,
				Subtotal:          money.Line(price, s.Received),
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			po.Items = append(po.Items, it)
			byVariation[s.VariationID] = it
			added = append(added, it)
			sum.NoEsperados += s.Received
			continue
		}

		if s.Received < it.QuantityReceived {
			return Summary{}, nil, fmt.Errorf("%w: variación %s recibida %d, previamente %d",
				domain.ErrInvariantViolation, s.VariationID, s.Received, it.QuantityReceived)
		}
		diff := s.Received - it.QuantityRequested
		switch {
		case diff == 0:
			sum.Completos++
		case diff > 0:
			sum.DeMas += diff
		default:
			sum.Faltantes += -diff
		}
		it.QuantityReceived = s.Received
		if s.Received > it.QuantityRequested {
			it.QuantityRequested = s.Received
		}
		if s.UnitPrice != nil {
			it.UnitPrice = *s.UnitPrice
		}
		it.Subtotal = money.Line(it.UnitPrice, it.QuantityRequested)
		it.UpdatedAt = now
	}

	for _, it := range po.Items {
		if scanned[it.VariationID] {
			continue
		}
		if short := it.QuantityRequested - it.QuantityReceived; short > 0 {
			sum.Faltantes += short
		}
	}
	return sum, added, nil
}
