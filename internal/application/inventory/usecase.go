package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/pricing"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/inventory"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

// StockExporter genera la planilla de stock de una tienda.
type StockExporter interface {
	StoreStock(store *entity.Store, rows []*entity.StoreStock) ([]byte, error)
}

// PriceInvalidator descarta precios cacheados tras un cambio de precio de lista.
type PriceInvalidator interface {
	Invalidate(ctx context.Context)
}

// LedgerUseCase es el único punto de escritura del stock: cada cambio deja una fila
// en inventory_movements y ajusta la caché StoreProduct en la misma transacción.
type LedgerUseCase struct {
	txRunner      repository.TxRunner
	repos         repository.Repos
	exporter      StockExporter
	prices        PriceInvalidator
	log           *logger.Logger
	allowNegative bool
	now           func() time.Time
}

// NewLedgerUseCase construye el caso de uso. exporter y prices pueden ser nil.
func NewLedgerUseCase(
	txRunner repository.TxRunner,
	repos repository.Repos,
	exporter StockExporter,
	prices PriceInvalidator,
	log *logger.Logger,
	allowNegative bool,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:      txRunner,
		repos:         repos,
		exporter:      exporter,
		prices:        prices,
		log:           log.Component("ledger"),
		allowNegative: allowNegative,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Entry movimiento ya resuelto a delta firmado.
type Entry struct {
	StoreID     string
	VariationID string
	Reason      entity.MovementReason
	Delta       int
	ReferenceID string
	// PriceCost, si viene, sobrescribe el costo del StoreProduct (recepción de compras).
	PriceCost *decimal.Decimal
	// CheckStock exige que el stock resultante no sea negativo.
	CheckStock bool
}

// Apply bloquea (o crea) el StoreProduct, inserta el movimiento y ajusta la caché.
// Corre dentro de la transacción del llamador: r deben ser los repos de esa transacción.
func (uc *LedgerUseCase) Apply(ctx context.Context, r repository.Repos, e Entry) (*entity.InventoryMovement, *entity.StoreProduct, error) {
	if !e.Reason.Valid() {
		return nil, nil, fmt.Errorf("%w: motivo %q", domain.ErrInvalidInput, e.Reason)
	}
	sp, err := r.StoreProducts.LockOrCreate(ctx, e.StoreID, e.VariationID)
	if err != nil {
		return nil, nil, err
	}
	next := sp.Stock + e.Delta
	if e.CheckStock && !uc.allowNegative && next < 0 {
		return nil, nil, fmt.Errorf("%w: variación %s en tienda %s tiene %d, se requieren %d",
			domain.ErrInsufficientStock, e.VariationID, e.StoreID, sp.Stock, -e.Delta)
	}

	now := uc.now()
	mov := &entity.InventoryMovement{
		ID:          uuid.New().String(),
		StoreID:     e.StoreID,
		VariationID: e.VariationID,
		Delta:       e.Delta,
		Reason:      e.Reason,
		ReferenceID: e.ReferenceID,
		CreatedAt:   now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, nil, err
	}

	sp.Stock = next
	if e.PriceCost != nil {
		sp.PriceCost = *e.PriceCost
	}
	sp.UpdatedAt = now
	if err := r.StoreProducts.Update(ctx, sp); err != nil {
		return nil, nil, err
	}
	return mov, sp, nil
}

// MovementInput entrada de RecordMovement.
// Quantity para SALE/PURCHASE/TRANSFER_*; NewStock para ADJUSTMENT.
type MovementInput struct {
	StoreID     string
	VariationID string
	Reason      entity.MovementReason
	Quantity    *int
	NewStock    *int
	ReferenceID string
}

// RecordMovement registra un movimiento manual y devuelve la fila del ledger.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, in MovementInput) (*dto.MovementResponse, error) {
	if in.StoreID == "" || in.VariationID == "" {
		return nil, fmt.Errorf("%w: store_id y variation_id son obligatorios", domain.ErrInvalidInput)
	}
	// valida motivo y campos antes de abrir la transacción
	if _, err := inventory.Delta(in.Reason, in.Quantity, in.NewStock, 0); err != nil {
		return nil, err
	}

	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := requireStoreAndVariation(ctx, r, in.StoreID, in.VariationID); err != nil {
			return err
		}
		current := 0
		if in.Reason == entity.ReasonAdjustment {
			sp, err := r.StoreProducts.LockOrCreate(ctx, in.StoreID, in.VariationID)
			if err != nil {
				return err
			}
			current = sp.Stock
		}
		delta, err := inventory.Delta(in.Reason, in.Quantity, in.NewStock, current)
		if err != nil {
			return err
		}
		m, _, err := uc.Apply(ctx, r, Entry{
			StoreID:     in.StoreID,
			VariationID: in.VariationID,
			Reason:      in.Reason,
			Delta:       delta,
			ReferenceID: in.ReferenceID,
			CheckStock:  in.Reason.Outbound(),
		})
		mov = m
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("store_id", mov.StoreID).
		Str("variation_id", mov.VariationID).
		Str("reason", string(mov.Reason)).
		Int("delta", mov.Delta).
		Msg("movimiento registrado")
	return ToMovementResponse(mov), nil
}

// GetStoreStock stock actual (caché) de todas las variaciones de una tienda.
func (uc *LedgerUseCase) GetStoreStock(ctx context.Context, storeID string) (*dto.StoreStockResponse, error) {
	store, rows, err := uc.storeRows(ctx, storeID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StoreStockItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, pricing.ToStoreStockItem(row))
	}
	return &dto.StoreStockResponse{StoreID: store.ID, StoreName: store.Name, Items: items}, nil
}

// ExportStoreStock planilla XLSX con el stock de la tienda.
func (uc *LedgerUseCase) ExportStoreStock(ctx context.Context, storeID string) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("exportador de stock no configurado")
	}
	store, rows, err := uc.storeRows(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return uc.exporter.StoreStock(store, rows)
}

func (uc *LedgerUseCase) storeRows(ctx context.Context, storeID string) (*entity.Store, []*entity.StoreStock, error) {
	store, err := uc.repos.Stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, storeID)
	}
	rows, err := uc.repos.StoreProducts.ListByStore(ctx, storeID)
	if err != nil {
		return nil, nil, err
	}
	return store, rows, nil
}

// ListMovements movimientos del ledger, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, in dto.MovementListRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	list, err := uc.repos.Movements.List(ctx, repository.MovementFilter{
		StoreID:     in.StoreID,
		VariationID: in.VariationID,
		ReferenceID: in.ReferenceID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// UpdateStoreProduct corrige stock y/o precios de un producto en tienda.
// El stock pasa por un ADJUSTMENT y cada precio deja historial.
func (uc *LedgerUseCase) UpdateStoreProduct(ctx context.Context, storeID, variationID, changedBy string, in dto.UpdateStoreProductRequest) (*dto.StoreStockItem, error) {
	if in.Stock == nil && in.PriceCost == nil && in.PriceList == nil {
		return nil, fmt.Errorf("%w: no hay cambios", domain.ErrInvalidInput)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}

	var out *entity.StoreProduct
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := requireStoreAndVariation(ctx, r, storeID, variationID); err != nil {
			return err
		}
		sp, err := r.StoreProducts.LockOrCreate(ctx, storeID, variationID)
		if err != nil {
			return err
		}
		now := uc.now()
		changes := []pricing.PriceChange{}
		if in.PriceCost != nil {
			changes = append(changes, pricing.PriceChange{Type: entity.PriceCost, NewPrice: *in.PriceCost, Reason: in.Reason, ChangedBy: changedBy})
		}
		if in.PriceList != nil {
			changes = append(changes, pricing.PriceChange{Type: entity.PriceList, NewPrice: *in.PriceList, Reason: in.Reason, ChangedBy: changedBy})
		}
		for _, ch := range changes {
			if _, err := pricing.RecordPriceChange(ctx, r, sp, ch, now); err != nil {
				return err
			}
		}
		if len(changes) > 0 {
			if err := r.StoreProducts.Update(ctx, sp); err != nil {
				return err
			}
		}
		out = sp
		if in.Stock == nil || *in.Stock == sp.Stock {
			return nil
		}
		_, updated, err := uc.Apply(ctx, r, Entry{
			StoreID:     storeID,
			VariationID: variationID,
			Reason:      entity.ReasonAdjustment,
			Delta:       *in.Stock - sp.Stock,
		})
		out = updated
		return err
	})
	if err != nil {
		return nil, err
	}
	if in.PriceList != nil && uc.prices != nil {
		uc.prices.Invalidate(ctx)
	}
	v, err := uc.repos.Variations.GetByID(ctx, variationID)
	if err != nil {
		return nil, err
	}
	row := &entity.StoreStock{StoreProduct: *out}
	if v != nil {
		row.SKU, row.ProductID, row.ProductName, row.Size, row.Color = v.SKU, v.ProductID, v.ProductName, v.Size, v.Color
	}
	item := pricing.ToStoreStockItem(row)
	return &item, nil
}

func requireStoreAndVariation(ctx context.Context, r repository.Repos, storeID, variationID string) error {
	store, err := r.Stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("%w: tienda %s", domain.ErrNotFound, storeID)
	}
	return RequireVariation(ctx, r, variationID)
}

// RequireVariation devuelve ErrNotFound si la variación no existe.
func RequireVariation(ctx context.Context, r repository.Repos, variationID string) error {
	v, err := r.Variations.GetByID(ctx, variationID)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("%w: variación %s", domain.ErrNotFound, variationID)
	}
	return nil
}

// ToMovementResponse fila del ledger para respuestas.
func ToMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:          m.ID,
		StoreID:     m.StoreID,
		VariationID: m.VariationID,
		Delta:       m.Delta,
		Reason:      string(m.Reason),
		ReferenceID: m.ReferenceID,
		CreatedAt:   m.CreatedAt,
	}
}
