package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/fsm"
	"github.com/jhoicas/Tiendas-api/internal/domain/money"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

// SaleUseCase ventas en tienda. El stock se descuenta al crear la venta, no al pagarla.
type SaleUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	ledger   *inventory.LedgerUseCase
	log      *logger.Logger
	machine  *fsm.Machine[entity.PaymentStatus, *entity.Sale]
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner repository.TxRunner, repos repository.Repos, ledger *inventory.LedgerUseCase, log *logger.Logger) *SaleUseCase {
	// el estado de pago no tiene efectos sobre el stock
	m := fsm.New[entity.PaymentStatus, *entity.Sale]("venta")
	all := []entity.PaymentStatus{entity.StatusPendiente, entity.StatusPagado, entity.StatusAnulado}
	for _, from := range all {
		for _, to := range all {
			if from != to {
				m.Allow(from, to, nil)
			}
		}
	}
	return &SaleUseCase{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		log:      log.Component("sales"),
		machine:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create registra la venta y descuenta cada línea del stock de la tienda.
// Si alguna línea deja stock negativo no se guarda nada.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	pt := entity.PaymentType(in.PaymentType)
	if !pt.Valid() {
		return nil, fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, in.PaymentType)
	}
	if in.StoreID == "" || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: store_id e items son obligatorios", domain.ErrInvalidInput)
	}
	for _, it := range in.Items {
		if it.VariationID == "" || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: cada línea requiere variación, cantidad > 0 y precio >= 0", domain.ErrInvalidInput)
		}
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:          uuid.New().String(),
		StoreID:     in.StoreID,
		Status:      entity.StatusPendiente,
		PaymentType: pt,
		Total:       decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, it := range in.Items {
		line := &entity.SaleProduct{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			VariationID: it.VariationID,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    money.Line(it.UnitPrice, it.Quantity),
			CreatedAt:   now,
		}
		sale.Items = append(sale.Items, line)
		sale.Total = sale.Total.Add(line.Subtotal)
	}
	sale.Total = money.Round(sale.Total)

	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		store, err := r.Stores.GetByID(ctx, sale.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("%w: tienda %s", domain.ErrNotFound, sale.StoreID)
		}
		pairs := make([]inventory.Pair, 0, len(sale.Items))
		for _, it := range sale.Items {
			if err := inventory.RequireVariation(ctx, r, it.VariationID); err != nil {
				return err
			}
			pairs = append(pairs, inventory.Pair{StoreID: sale.StoreID, VariationID: it.VariationID})
		}
		if err := inventory.LockPairs(ctx, r, pairs); err != nil {
			return err
		}
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, it := range sale.Items {
			if _, _, err := uc.ledger.Apply(ctx, r, inventory.Entry{
				StoreID:     sale.StoreID,
				VariationID: it.VariationID,
				Reason:      entity.ReasonSale,
				Delta:       -it.Quantity,
				ReferenceID: sale.ID,
				CheckStock:  true,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", sale.ID).Str("store_id", sale.StoreID).Str("total", sale.Total.String()).Msg("venta registrada")
	return ToResponse(sale), nil
}

// UpdateStatus cambia solo el estado de pago; no mueve stock.
func (uc *SaleUseCase) UpdateStatus(ctx context.Context, id string, status entity.PaymentStatus) (*dto.SaleResponse, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	var out *entity.Sale
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		s, err := r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
		}
		out = s
		changed, err := uc.machine.Fire(ctx, s.Status, status, s)
		if err != nil || !changed {
			return err
		}
		s.Status = status
		s.UpdatedAt = uc.now()
		return r.Sales.Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return ToResponse(out), nil
}

// GetByID obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return ToResponse(s), nil
}

// List ventas más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Sales.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// ToResponse venta para respuestas.
func ToResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:          it.ID,
			VariationID: it.VariationID,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:          s.ID,
		StoreID:     s.StoreID,
		Status:      string(s.Status),
		PaymentType: string(s.PaymentType),
		Total:       s.Total,
		Items:       items,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
