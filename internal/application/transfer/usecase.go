package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/fsm"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

type transition struct {
	r        repository.Repos
	t        *entity.StoreTransfer
	copyCost bool
	now      time.Time
}

// TransferUseCase traslados de stock entre tiendas en dos fases: borrador con líneas y completado.
type TransferUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	ledger   *inventory.LedgerUseCase
	log      *logger.Logger
	machine  *fsm.Machine[entity.TransferStatus, *transition]
	now      func() time.Time
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(txRunner repository.TxRunner, repos repository.Repos, ledger *inventory.LedgerUseCase, log *logger.Logger) *TransferUseCase {
	uc := &TransferUseCase{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		log:      log.Component("transfers"),
		now:      func() time.Time { return time.Now().UTC() },
	}
	uc.machine = fsm.New[entity.TransferStatus, *transition]("traslado").
		Allow(entity.TransferPending, entity.TransferCompleted, uc.moveStock).
		Allow(entity.TransferPending, entity.TransferCancelled, nil)
	return uc
}

// Create abre un traslado PENDING entre dos tiendas distintas.
func (uc *TransferUseCase) Create(ctx context.Context, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	var out *entity.StoreTransfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		t, err := uc.create(ctx, r, in.OriginStoreID, in.DestinationStoreID, in.Notes)
		out = t
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToResponse(out), nil
}

func (uc *TransferUseCase) create(ctx context.Context, r repository.Repos, origin, destination, notes string) (*entity.StoreTransfer, error) {
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("%w: origen y destino son obligatorios", domain.ErrInvalidInput)
	}
	if origin == destination {
		return nil, fmt.Errorf("%w: origen y destino deben ser tiendas distintas", domain.ErrInvalidInput)
	}
	for _, id := range []string{origin, destination} {
		s, err := r.Stores.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, id)
		}
	}
	now := uc.now()
	t := &entity.StoreTransfer{
		ID:                 uuid.New().String(),
		OriginStoreID:      origin,
		DestinationStoreID: destination,
		Status:             entity.TransferPending,
		Notes:              notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := r.Transfers.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddItem agrega una línea a un traslado PENDING. Una variación solo puede aparecer una vez.
func (uc *TransferUseCase) AddItem(ctx context.Context, transferID string, in dto.TransferItemRequest) (*dto.TransferResponse, error) {
	var out *entity.StoreTransfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		t, err := lockTransfer(ctx, r, transferID)
		if err != nil {
			return err
		}
		if err := uc.addItem(ctx, r, t, in); err != nil {
			return err
		}
		t.UpdatedAt = uc.now()
		out = t
		return r.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return ToResponse(out), nil
}

func (uc *TransferUseCase) addItem(ctx context.Context, r repository.Repos, t *entity.StoreTransfer, in dto.TransferItemRequest) error {
	if t.Status != entity.TransferPending {
		return fmt.Errorf("%w: el traslado %s está %s", domain.ErrInvalidTransition, t.ID, t.Status)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if err := inventory.RequireVariation(ctx, r, in.VariationID); err != nil {
		return err
	}
	it := &entity.StoreTransferItem{
		ID:          uuid.New().String(),
		TransferID:  t.ID,
		VariationID: in.VariationID,
		Quantity:    in.Quantity,
		CreatedAt:   uc.now(),
	}
	if err := r.Transfers.AddItem(ctx, it); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return fmt.Errorf("%w: la variación %s ya está en el traslado", domain.ErrConflict, in.VariationID)
		}
		return err
	}
	t.Items = append(t.Items, it)
	return nil
}

// Complete emite por cada línea un TRANSFER_OUT en origen y un TRANSFER_IN en destino
// con el ID del traslado como referencia.
func (uc *TransferUseCase) Complete(ctx context.Context, transferID string) (*dto.TransferResponse, error) {
	return uc.fire(ctx, transferID, entity.TransferCompleted)
}

// Cancel descarta un traslado PENDING sin mover stock.
func (uc *TransferUseCase) Cancel(ctx context.Context, transferID string) (*dto.TransferResponse, error) {
	return uc.fire(ctx, transferID, entity.TransferCancelled)
}

func (uc *TransferUseCase) fire(ctx context.Context, transferID string, to entity.TransferStatus) (*dto.TransferResponse, error) {
	var out *entity.StoreTransfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		t, err := lockTransfer(ctx, r, transferID)
		if err != nil {
			return err
		}
		out = t
		return uc.transition(ctx, &transition{r: r, t: t, now: uc.now()}, to)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", transferID).Str("status", string(to)).Msg("traslado actualizado")
	return ToResponse(out), nil
}

func (uc *TransferUseCase) transition(ctx context.Context, c *transition, to entity.TransferStatus) error {
	if c.t.Status != entity.TransferPending {
		return fmt.Errorf("%w: el traslado %s ya está %s", domain.ErrInvalidTransition, c.t.ID, c.t.Status)
	}
	if _, err := uc.machine.Fire(ctx, c.t.Status, to, c); err != nil {
		return err
	}
	c.t.Status = to
	c.t.UpdatedAt = c.now
	if to == entity.TransferCompleted {
		completed := c.now
		c.t.CompletedAt = &completed
	}
	return c.r.Transfers.Update(ctx, c.t)
}

// moveStock efecto de PENDING → COMPLETED.
func (uc *TransferUseCase) moveStock(ctx context.Context, c *transition) error {
	t := c.t
	if len(t.Items) == 0 {
		return fmt.Errorf("%w: el traslado %s no tiene líneas", domain.ErrInvalidInput, t.ID)
	}
	pairs := make([]inventory.Pair, 0, 2*len(t.Items))
	for _, it := range t.Items {
		pairs = append(pairs,
			inventory.Pair{StoreID: t.OriginStoreID, VariationID: it.VariationID},
			inventory.Pair{StoreID: t.DestinationStoreID, VariationID: it.VariationID})
	}
	if err := inventory.LockPairs(ctx, c.r, pairs); err != nil {
		return err
	}
	for _, it := range t.Items {
		_, origin, err := uc.ledger.Apply(ctx, c.r, inventory.Entry{
			StoreID:     t.OriginStoreID,
			VariationID: it.VariationID,
			Reason:      entity.ReasonTransferOut,
			Delta:       -it.Quantity,
			ReferenceID: t.ID,
			CheckStock:  true,
		})
		if err != nil {
			return err
		}
		in := inventory.Entry{
			StoreID:     t.DestinationStoreID,
			VariationID: it.VariationID,
			Reason:      entity.ReasonTransferIn,
			Delta:       it.Quantity,
			ReferenceID: t.ID,
		}
		if c.copyCost {
			cost := origin.PriceCost
			in.PriceCost = &cost
		}
		if _, _, err := uc.ledger.Apply(ctx, c.r, in); err != nil {
			return err
		}
	}
	return nil
}

// DispatchFromCentral crea, llena y completa en una sola transacción un traslado
// desde la tienda central. El destino hereda el costo de origen.
func (uc *TransferUseCase) DispatchFromCentral(ctx context.Context, in dto.DispatchRequest) (*dto.TransferResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items es obligatorio", domain.ErrInvalidInput)
	}
	var out *entity.StoreTransfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		central, err := r.Stores.GetCentral(ctx)
		if err != nil {
			return err
		}
		if central == nil {
			return fmt.Errorf("%w: no hay tienda central configurada", domain.ErrNotFound)
		}
		t, err := uc.create(ctx, r, central.ID, in.DestinationStoreID, in.Notes)
		if err != nil {
			return err
		}
		for _, item := range in.Items {
			if err := uc.addItem(ctx, r, t, item); err != nil {
				return err
			}
		}
		out = t
		return uc.transition(ctx, &transition{r: r, t: t, copyCost: true, now: uc.now()}, entity.TransferCompleted)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", out.ID).Str("store_id", out.DestinationStoreID).Int("items", len(out.Items)).Msg("despacho desde central completado")
	return ToResponse(out), nil
}

// Get obtiene un traslado con sus líneas.
func (uc *TransferUseCase) Get(ctx context.Context, id string) (*dto.TransferResponse, error) {
	t, err := uc.repos.Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
	}
	return ToResponse(t), nil
}

// List traslados más recientes primero.
func (uc *TransferUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.TransferListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Transfers.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *ToResponse(t))
	}
	return &dto.TransferListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

func lockTransfer(ctx context.Context, r repository.Repos, id string) (*entity.StoreTransfer, error) {
	t, err := r.Transfers.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
	}
	return t, nil
}

// ToResponse traslado para respuestas.
func ToResponse(t *entity.StoreTransfer) *dto.TransferResponse {
	items := make([]dto.TransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.TransferItemResponse{ID: it.ID, VariationID: it.VariationID, Quantity: it.Quantity})
	}
	return &dto.TransferResponse{
		ID:                 t.ID,
		OriginStoreID:      t.OriginStoreID,
		DestinationStoreID: t.DestinationStoreID,
		Status:             string(t.Status),
		Notes:              t.Notes,
		Items:              items,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
		CompletedAt:        t.CompletedAt,
	}
}
