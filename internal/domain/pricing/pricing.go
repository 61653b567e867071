// Package pricing reúne las reglas puras de ofertas y precio final.
package pricing

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/money"
)

var hundred = decimal.NewFromInt(100)

// Quote resultado del cálculo de precio final.
type Quote struct {
	OriginalPrice   decimal.Decimal
	FinalPrice      decimal.Decimal
	DiscountApplied bool
	Offer           *entity.SpecialOffer
}

// Overlaps indica si la ventana [start, end] choca con la de existing.
// Un fin nulo se interpreta como +infinito en ambos lados.
func Overlaps(existing *entity.SpecialOffer, start time.Time, end *time.Time) bool {
	if end != nil && existing.StartDate.After(*end) {
		return false
	}
	return existing.EndDate == nil || !existing.EndDate.Before(start)
}

// ActiveAt indica si la oferta aplica en el instante now.
func ActiveAt(o *entity.SpecialOffer, now time.Time) bool {
	if !o.IsActive || o.StartDate.After(now) {
		return false
	}
	return o.EndDate == nil || !o.EndDate.Before(now)
}

// PickActive elige la oferta vigente: la de inicio más reciente; en empate,
// la creada más tarde y luego el ID mayor.
func PickActive(offers []*entity.SpecialOffer, now time.Time) *entity.SpecialOffer {
	candidates := make([]*entity.SpecialOffer, 0, len(offers))
	for _, o := range offers {
		if ActiveAt(o, now) {
			candidates = append(candidates, o)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return candidates[0]
}

// NextChange primer instante posterior a now en que alguna oferta empieza o deja
// de aplicar. ok=false si ninguna cambia.
func NextChange(offers []*entity.SpecialOffer, now time.Time) (next time.Time, ok bool) {
	consider := func(t time.Time) {
		if t.After(now) && (!ok || t.Before(next)) {
			next, ok = t, true
		}
	}
	for _, o := range offers {
		if !o.IsActive {
			continue
		}
		consider(o.StartDate)
		if o.EndDate != nil {
			// la oferta aplica hasta endDate inclusive
			consider(o.EndDate.Add(time.Nanosecond))
		}
	}
	return next, ok
}

// Apply aplica exactamente una transformación de la oferta al precio.
func Apply(price decimal.Decimal, o *entity.SpecialOffer) decimal.Decimal {
	switch o.DiscountType {
	case entity.DiscountPercentage:
		return price.Mul(decimal.NewFromInt(1).Sub(o.Value.Div(hundred)))
	case entity.DiscountFixedAmount:
		return decimal.Max(decimal.Zero, price.Sub(o.Value))
	case entity.DiscountFixedPrice:
		return o.Value
	}
	return price
}

// FinalPrice calcula el precio final de sp con la oferta activa (puede ser nil).
func FinalPrice(sp *entity.StoreProduct, active *entity.SpecialOffer) Quote {
	original := sp.ListPrice()
	q := Quote{OriginalPrice: original, FinalPrice: money.Round(original)}
	if active == nil {
		return q
	}
	q.FinalPrice = money.Round(Apply(original, active))
	q.DiscountApplied = true
	q.Offer = active
	return q
}

// ValidateOffer revisa valor, tipo y fechas de una oferta.
func ValidateOffer(t entity.DiscountType, value decimal.Decimal, start time.Time, end *time.Time) error {
	if !t.Valid() {
		return fmt.Errorf("%w: tipo de descuento desconocido %q", domain.ErrInvalidInput, t)
	}
	if !value.IsPositive() {
		return fmt.Errorf("%w: el valor de la oferta debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if t == entity.DiscountPercentage && value.GreaterThan(hundred) {
		return fmt.Errorf("%w: el porcentaje no puede superar 100", domain.ErrInvalidInput)
	}
	if start.IsZero() {
		return fmt.Errorf("%w: startDate requerido", domain.ErrInvalidInput)
	}
	if end != nil && end.Before(start) {
		return fmt.Errorf("%w: endDate anterior a startDate", domain.ErrInvalidInput)
	}
	return nil
}
