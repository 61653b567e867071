package purchasing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/fsm"
	"github.com/jhoicas/Tiendas-api/internal/domain/money"
	"github.com/jhoicas/Tiendas-api/internal/domain/purchasing"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

const folioAttempts = 5

// Renderer genera el documento PDF de una orden.
type Renderer interface {
	PurchaseOrder(po *entity.PurchaseOrder, store *entity.Store, variations map[string]*entity.Variation) ([]byte, error)
}

// statusChange contexto de los efectos de transición: repos de la transacción y la orden bloqueada.
type statusChange struct {
	r  repository.Repos
	po *entity.PurchaseOrder
}

// PurchaseOrderUseCase ciclo de vida de órdenes de compra. El stock solo se mueve
// al pasar a Pagado o al salir de Pagado.
type PurchaseOrderUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	ledger   *inventory.LedgerUseCase
	renderer Renderer
	log      *logger.Logger
	taxRate  decimal.Decimal
	machine  *fsm.Machine[entity.PaymentStatus, *statusChange]
	now      func() time.Time
	folio    func() (string, error)
}

// NewPurchaseOrderUseCase construye el caso de uso. renderer puede ser nil.
func NewPurchaseOrderUseCase(
	txRunner repository.TxRunner,
	repos repository.Repos,
	ledger *inventory.LedgerUseCase,
	renderer Renderer,
	log *logger.Logger,
	taxRate decimal.Decimal,
) *PurchaseOrderUseCase {
	uc := &PurchaseOrderUseCase{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		renderer: renderer,
		log:      log.Component("purchase_orders"),
		taxRate:  taxRate,
		now:      func() time.Time { return time.Now().UTC() },
		folio:    NewFolio,
	}
	uc.machine = fsm.New[entity.PaymentStatus, *statusChange]("orden de compra").
		Allow(entity.StatusPendiente, entity.StatusPagado, uc.applyStock).
		Allow(entity.StatusAnulado, entity.StatusPagado, uc.applyStock).
		Allow(entity.StatusPagado, entity.StatusPendiente, uc.reverseStock).
		Allow(entity.StatusPagado, entity.StatusAnulado, uc.reverseStock).
		Allow(entity.StatusPendiente, entity.StatusAnulado, nil).
		Allow(entity.StatusAnulado, entity.StatusPendiente, nil)
	return uc
}

// NewFolio token corto de 6 caracteres hexadecimales en mayúscula.
func NewFolio() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// Create registra la orden en estado Pendiente con sus líneas y totales. No mueve stock.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.StoreID == "" || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: store_id e items son obligatorios", domain.ErrInvalidInput)
	}
	if in.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: el descuento no puede ser negativo", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.Items))
	for _, it := range in.Items {
		if it.VariationID == "" || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: cada línea requiere variación, cantidad > 0 y precio >= 0", domain.ErrInvalidInput)
		}
		if seen[it.VariationID] {
			return nil, fmt.Errorf("%w: variación %s repetida", domain.ErrInvalidInput, it.VariationID)
		}
		seen[it.VariationID] = true
	}

	for attempt := 1; attempt <= folioAttempts; attempt++ {
		folio, err := uc.folio()
		if err != nil {
			return nil, err
		}
		po := uc.newOrder(folio, in)
		err = uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
			if err := requireStore(ctx, r, po.StoreID); err != nil {
				return err
			}
			for _, it := range po.Items {
				if err := inventory.RequireVariation(ctx, r, it.VariationID); err != nil {
					return err
				}
			}
			return r.PurchaseOrders.Create(ctx, po)
		})
		if errors.Is(err, domain.ErrDuplicate) {
			uc.log.Warn().Str("folio", folio).Int("attempt", attempt).Msg("folio repetido, reintentando")
			continue
		}
		if err != nil {
			return nil, err
		}
		uc.log.Info().Str("purchase_order_id", po.ID).Str("folio", po.Folio).Str("store_id", po.StoreID).Msg("orden de compra creada")
		return ToResponse(po), nil
	}
	return nil, fmt.Errorf("%w: no se pudo generar un folio único", domain.ErrConflict)
}

func (uc *PurchaseOrderUseCase) newOrder(folio string, in dto.CreatePurchaseOrderRequest) *entity.PurchaseOrder {
	now := uc.now()
	issue := now
	if in.IssueDate != nil {
		issue = in.IssueDate.UTC()
	}
	po := &entity.PurchaseOrder{
		ID:            uuid.New().String(),
		Folio:         folio,
		StoreID:       in.StoreID,
		PaymentStatus: entity.StatusPendiente,
		IsThirdParty:  in.IsThirdParty,
		IssueDate:     issue,
		DueDate:       in.DueDate,
		DTENumber:     in.DTENumber,
		Discount:      money.Round(in.Discount),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, it := range in.Items {
		po.Items = append(po.Items, &entity.PurchaseOrderItem{
			ID:                uuid.New().String(),
			PurchaseOrderID:   po.ID,
			VariationID:       it.VariationID,
			UnitPrice:         it.UnitPrice,
			Subtotal:          money.Line(it.UnitPrice, it.Quantity),
			QuantityRequested: it.Quantity,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	purchasing.Recalculate(po, uc.taxRate)
	return po
}

// Update modifica campos que no son el estado y recalcula totales.
// Cambiar la tienda no traslada stock ya aplicado: la reversión siempre vuelve a la tienda original.
func (uc *PurchaseOrderUseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.Discount != nil && in.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: el descuento no puede ser negativo", domain.ErrInvalidInput)
	}
	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		po, err := lockOrder(ctx, r, id)
		if err != nil {
			return err
		}
		if in.StoreID != nil && *in.StoreID != po.StoreID {
			if err := requireStore(ctx, r, *in.StoreID); err != nil {
				return err
			}
			po.StoreID = *in.StoreID
		}
		if in.IsThirdParty != nil {
			po.IsThirdParty = *in.IsThirdParty
		}
		if in.DueDate != nil {
			po.DueDate = in.DueDate
		}
		if in.DTENumber != nil {
			po.DTENumber = in.DTENumber
		}
		if in.Discount != nil {
			po.Discount = money.Round(*in.Discount)
		}
		purchasing.Recalculate(po, uc.taxRate)
		po.UpdatedAt = uc.now()
		out = po
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return ToResponse(out), nil
}

// UpdateStatus aplica la transición de pago. Repetir el estado actual no hace nada.
func (uc *PurchaseOrderUseCase) UpdateStatus(ctx context.Context, id string, status entity.PaymentStatus) (*dto.PurchaseOrderResponse, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	var (
		out     *entity.PurchaseOrder
		from    entity.PaymentStatus
		changed bool
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		po, err := lockOrder(ctx, r, id)
		if err != nil {
			return err
		}
		out, from = po, po.PaymentStatus
		changed, err = uc.machine.Fire(ctx, po.PaymentStatus, status, &statusChange{r: r, po: po})
		if err != nil || !changed {
			return err
		}
		po.PaymentStatus = status
		purchasing.Recalculate(po, uc.taxRate)
		po.UpdatedAt = uc.now()
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		uc.log.Info().Str("purchase_order_id", id).Str("from", string(from)).Str("to", string(status)).Msg("estado de orden de compra actualizado")
	}
	return ToResponse(out), nil
}

// applyStock suma lo solicitado de cada línea en la tienda de la orden y fija el costo.
func (uc *PurchaseOrderUseCase) applyStock(ctx context.Context, c *statusChange) error {
	pairs := make([]inventory.Pair, 0, len(c.po.Items))
	for _, it := range c.po.Items {
		pairs = append(pairs, inventory.Pair{StoreID: c.po.StoreID, VariationID: it.VariationID})
	}
	if err := inventory.LockPairs(ctx, c.r, pairs); err != nil {
		return err
	}
	for _, it := range c.po.Items {
		cost := it.UnitPrice
		if _, _, err := uc.ledger.Apply(ctx, c.r, inventory.Entry{
			StoreID:     c.po.StoreID,
			VariationID: it.VariationID,
			Reason:      entity.ReasonPurchase,
			Delta:       it.QuantityRequested,
			ReferenceID: c.po.ID,
			PriceCost:   &cost,
		}); err != nil {
			return err
		}
	}
	return nil
}

// reverseStock deshace exactamente lo que el ledger tiene aplicado para esta orden,
// en la tienda donde se aplicó.
func (uc *PurchaseOrderUseCase) reverseStock(ctx context.Context, c *statusChange) error {
	totals, err := c.r.Movements.NetByReference(ctx, c.po.ID, entity.ReasonPurchase)
	if err != nil {
		return err
	}
	pairs := make([]inventory.Pair, 0, len(totals))
	for _, t := range totals {
		pairs = append(pairs, inventory.Pair{StoreID: t.StoreID, VariationID: t.VariationID})
	}
	if err := inventory.LockPairs(ctx, c.r, pairs); err != nil {
		return err
	}
	for _, t := range totals {
		if t.Delta == 0 {
			continue
		}
		if _, _, err := uc.ledger.Apply(ctx, c.r, inventory.Entry{
			StoreID:     t.StoreID,
			VariationID: t.VariationID,
			Reason:      entity.ReasonPurchase,
			Delta:       -t.Delta,
			ReferenceID: c.po.ID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Verify concilia lo recibido contra lo solicitado. No toca stock.
func (uc *PurchaseOrderUseCase) Verify(ctx context.Context, id string, in dto.VerifyPurchaseOrderRequest) (*dto.VerifyPurchaseOrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items es obligatorio", domain.ErrInvalidInput)
	}
	scans := make([]purchasing.Scan, 0, len(in.Items))
	for _, s := range in.Items {
		if s.UnitPrice != nil && s.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo en variación %s", domain.ErrInvalidInput, s.VariationID)
		}
		scans = append(scans, purchasing.Scan{VariationID: s.VariationID, Received: s.Received, UnitPrice: s.UnitPrice})
	}

	var (
		out     *entity.PurchaseOrder
		summary purchasing.Summary
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		po, err := lockOrder(ctx, r, id)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(po.Items))
		for _, it := range po.Items {
			known[it.VariationID] = true
		}
		for _, s := range scans {
			if known[s.VariationID] {
				continue
			}
			if err := inventory.RequireVariation(ctx, r, s.VariationID); err != nil {
				return err
			}
		}

		now := uc.now()
		sum, added, err := purchasing.Reconcile(po, scans, now)
		if err != nil {
			return err
		}
		isNew := make(map[string]bool, len(added))
		for _, it := range added {
			isNew[it.ID] = true
			if err := r.PurchaseOrders.AddItem(ctx, it); err != nil {
				return err
			}
		}
		for _, it := range po.Items {
			if isNew[it.ID] {
				continue
			}
			if err := r.PurchaseOrders.UpdateItem(ctx, it); err != nil {
				return err
			}
		}
		purchasing.Recalculate(po, uc.taxRate)
		po.UpdatedAt = now
		out, summary = po, sum
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("purchase_order_id", id).
		Int("completos", summary.Completos).
		Int("faltantes", summary.Faltantes).
		Int("de_mas", summary.DeMas).
		Int("no_esperados", summary.NoEsperados).
		Msg("recepción verificada")
	return &dto.VerifyPurchaseOrderResponse{
		Summary: dto.VerifySummary{
			Completos:   summary.Completos,
			Faltantes:   summary.Faltantes,
			DeMas:       summary.DeMas,
			NoEsperados: summary.NoEsperados,
		},
		Order: *ToResponse(out),
	}, nil
}

// GetByID obtiene una orden con sus líneas.
func (uc *PurchaseOrderUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(po), nil
}

// List órdenes más recientes primero.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.PurchaseOrders.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *ToResponse(po))
	}
	return &dto.PurchaseOrderListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// RenderPDF documento de la orden con nombres de tienda y SKU.
func (uc *PurchaseOrderUseCase) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("generador de PDF no configurado")
	}
	po, err := uc.find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	store, err := uc.repos.Stores.GetByID(ctx, po.StoreID)
	if err != nil {
		return nil, "", err
	}
	variations := make(map[string]*entity.Variation, len(po.Items))
	for _, it := range po.Items {
		v, err := uc.repos.Variations.GetByID(ctx, it.VariationID)
		if err != nil {
			return nil, "", err
		}
		if v != nil {
			variations[v.ID] = v
		}
	}
	pdf, err := uc.renderer.PurchaseOrder(po, store, variations)
	if err != nil {
		return nil, "", err
	}
	return pdf, "OC-" + po.Folio + ".pdf", nil
}

func (uc *PurchaseOrderUseCase) find(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.repos.PurchaseOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	return po, nil
}

func lockOrder(ctx context.Context, r repository.Repos, id string) (*entity.PurchaseOrder, error) {
	po, err := r.PurchaseOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	return po, nil
}

func requireStore(ctx context.Context, r repository.Repos, storeID string) error {
	s, err := r.Stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: tienda %s", domain.ErrNotFound, storeID)
	}
	return nil
}

// ToResponse orden para respuestas.
func ToResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, dto.PurchaseOrderItemResponse{
			ID:                it.ID,
			VariationID:       it.VariationID,
			UnitPrice:         it.UnitPrice,
			Subtotal:          it.Subtotal,
			QuantityRequested: it.QuantityRequested,
			QuantityReceived:  it.QuantityReceived,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:            po.ID,
		Folio:         po.Folio,
		StoreID:       po.StoreID,
		PaymentStatus: string(po.PaymentStatus),
		IsThirdParty:  po.IsThirdParty,
		IssueDate:     po.IssueDate,
		DueDate:       po.DueDate,
		DTENumber:     po.DTENumber,
		Discount:      po.Discount,
		Subtotal:      po.Subtotal,
		NetTotal:      po.NetTotal,
		Tax:           po.Tax,
		Total:         po.Total,
		TotalProducts: po.TotalProducts,
		Items:         items,
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	}
}
