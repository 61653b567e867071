// Package purchasing contiene el cálculo de totales y la conciliación de
// recepción de órdenes de compra.
package purchasing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/money"
)

// DefaultTaxRate IVA aplicado sobre el neto.
var DefaultTaxRate = decimal.RequireFromString("0.19")

// Totals montos calculados de una orden.
type Totals struct {
	Subtotal decimal.Decimal
	NetTotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Calculate aplica subtotal → neto (sin bajar de 0) → IVA → total, redondeando a centavos en cada paso.
func Calculate(items []*entity.PurchaseOrderItem, discount, taxRate decimal.Decimal) Totals {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal)
	}
	subtotal := money.Round(sum)
	net := money.Round(decimal.Max(subtotal.Sub(discount), decimal.Zero))
	tax := money.Round(net.Mul(taxRate))
	return Totals{
		Subtotal: subtotal,
		NetTotal: net,
		Tax:      tax,
		Total:    money.Round(net.Add(tax)),
	}
}

// Recalculate actualiza los totales y totalProducts de la orden a partir de sus líneas.
func Recalculate(po *entity.PurchaseOrder, taxRate decimal.Decimal) {
	t := Calculate(po.Items, po.Discount, taxRate)
	po.Subtotal = t.Subtotal
	po.NetTotal = t.NetTotal
	po.Tax = t.Tax
	po.Total = t.Total
	n := 0
	for _, it := range po.Items {
		n += it.QuantityRequested
	}
	po.TotalProducts = n
}
