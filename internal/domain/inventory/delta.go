// Package inventory contiene las reglas de dominio del ledger de stock.
package inventory

import (
	"fmt"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// Delta calcula el delta firmado de un movimiento según su motivo.
// SALE y TRANSFER_OUT restan quantity; PURCHASE y TRANSFER_IN la suman.
// quantity debe ser positiva. ADJUSTMENT lleva el stock a newStock partiendo del valor actual.
func Delta(reason entity.MovementReason, quantity, newStock *int, current int) (int, error) {
	switch reason {
	case entity.ReasonSale, entity.ReasonTransferOut:
		if err := requirePositive(reason, quantity); err != nil {
			return 0, err
		}
		return -*quantity, nil
	case entity.ReasonPurchase, entity.ReasonTransferIn:
		if err := requirePositive(reason, quantity); err != nil {
			return 0, err
		}
		return *quantity, nil
	case entity.ReasonAdjustment:
		if newStock == nil {
			return 0, fmt.Errorf("%w: newStock requerido para ADJUSTMENT", domain.ErrInvalidInput)
		}
		if *newStock < 0 {
			return 0, fmt.Errorf("%w: newStock no puede ser negativo", domain.ErrInvalidInput)
		}
		return *newStock - current, nil
	default:
		return 0, fmt.Errorf("%w: motivo de movimiento desconocido %q", domain.ErrInvalidInput, reason)
	}
}

func requirePositive(reason entity.MovementReason, quantity *int) error {
	if quantity == nil {
		return fmt.Errorf("%w: quantity requerido para %s", domain.ErrInvalidInput, reason)
	}
	if *quantity <= 0 {
		return fmt.Errorf("%w: quantity debe ser mayor a 0 para %s", domain.ErrInvalidInput, reason)
	}
	return nil
}
