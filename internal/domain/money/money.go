// Package money concentra el redondeo monetario a centavos.
package money

import "github.com/shopspring/decimal"

// Round redondea a 2 decimales, mitad hacia arriba para valores positivos.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Line devuelve precio × cantidad redondeado.
func Line(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return Round(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}
