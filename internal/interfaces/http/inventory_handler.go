package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// ReconcileEnqueuer encola conciliaciones en el worker (jobs.Client).
type ReconcileEnqueuer interface {
	EnqueueReconcile(ctx context.Context, storeID string) (*asynq.TaskInfo, error)
}

// ReconcileRunner ejecuta la conciliación en línea cuando no hay cola configurada.
type ReconcileRunner interface {
	Run(ctx context.Context, storeID string) (*dto.ReconcileReport, error)
}

// InventoryHandler ledger de movimientos y stock por tienda.
type InventoryHandler struct {
	uc       *inventory.LedgerUseCase
	enqueuer ReconcileEnqueuer
	runner   ReconcileRunner
	bind     *binder
}

// NewInventoryHandler construye el handler. enqueuer puede ser nil.
func NewInventoryHandler(uc *inventory.LedgerUseCase, enqueuer ReconcileEnqueuer, runner ReconcileRunner) *InventoryHandler {
	return &InventoryHandler{uc: uc, enqueuer: enqueuer, runner: runner, bind: newBinder()}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  SALE y TRANSFER_OUT descuentan, PURCHASE y TRANSFER_IN suman, ADJUSTMENT fija el stock.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := h.bind.body(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RecordMovement(c.UserContext(), inventory.MovementInput{
		StoreID:     in.StoreID,
		VariationID: in.VariationID,
		Reason:      entity.MovementReason(in.Reason),
		Quantity:    in.Quantity,
		NewStock:    in.NewStock,
		ReferenceID: in.ReferenceID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos (más recientes primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id      query  string  false  "Tienda"
// @Param        variation_id  query  string  false  "Variación"
// @Param        limit         query  int     false  "Límite"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := h.bind.query(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ListMovements(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetStoreStock stock de todas las variaciones de una tienda.
func (h *InventoryHandler) GetStoreStock(c *fiber.Ctx) error {
	out, err := h.uc.GetStoreStock(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ExportStoreStock descarga el stock de la tienda como XLSX.
func (h *InventoryHandler) ExportStoreStock(c *fiber.Ctx) error {
	storeID := c.Params("id")
	data, err := h.uc.ExportStoreStock(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stock-%s.xlsx"`, storeID))
	return c.Send(data)
}

// UpdateStoreProduct godoc
// @Summary      Corregir stock o precios de una variación en una tienda
// @Description  El stock se ajusta con un movimiento ADJUSTMENT; los precios quedan en el historial.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        storeId      path  string  true  "Tienda"
// @Param        variationId  path  string  true  "Variación"
// @Param        body  body  dto.UpdateStoreProductRequest  true  "Cambios"
// @Success      200  {object}  dto.StoreStockItem
// @Router       /api/inventory/store/{storeId}/products/{variationId} [patch]
func (h *InventoryHandler) UpdateStoreProduct(c *fiber.Ctx) error {
	var in dto.UpdateStoreProductRequest
	if err := h.bind.body(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateStoreProduct(c.UserContext(), c.Params("storeId"), c.Params("variationId"), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Reconcile encola la conciliación ledger/caché; sin cola la ejecuta en línea.
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if len(c.Body()) > 0 {
		if err := h.bind.body(c, &in); err != nil {
			return err
		}
	}
	if h.enqueuer == nil {
		report, err := h.runner.Run(c.UserContext(), in.StoreID)
		if err != nil {
			return err
		}
		return c.JSON(report)
	}
	info, err := h.enqueuer.EnqueueReconcile(c.UserContext(), in.StoreID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.ReconcileEnqueuedResponse{TaskID: info.ID, Queue: info.Queue})
}
