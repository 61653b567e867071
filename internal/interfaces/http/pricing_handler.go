package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/pricing"
)

// PricingHandler historial de precios, ofertas y consulta de precio final.
type PricingHandler struct {
	uc   *pricing.PricingUseCase
	bind *binder
}

// NewPricingHandler construye el handler.
func NewPricingHandler(uc *pricing.PricingUseCase) *PricingHandler {
	return &PricingHandler{uc: uc, bind: newBinder()}
}

// UpdatePrice godoc
// @Summary      Cambiar precio de costo o de lista
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdatePriceRequest  true  "Nuevo precio"
// @Success      201   {object}  dto.PriceHistoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pricing/update [post]
func (h *PricingHandler) UpdatePrice(c *fiber.Ctx) error {
	var in dto.UpdatePriceRequest
	if err := h.bind.body(c, &in); err != nil {
		return err
	}
	if in.ChangedBy == "" {
		in.ChangedBy = GetUserID(c)
	}
	out, err := h.uc.UpdatePrice(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetPriceHistory historial de una variación en una tienda (más reciente primero).
func (h *PricingHandler) GetPriceHistory(c *fiber.Ctx) error {
	var q dto.PriceHistoryQuery
	if err := h.bind.query(c, &q); err != nil {
		return err
	}
	out, err := h.uc.GetPriceHistory(c.UserContext(), q.StoreID, q.VariationID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreateOffer godoc
// @Summary      Crear oferta especial
// @Description  Rechaza ofertas que se solapan con otra activa del mismo producto.
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOfferRequest  true  "Oferta"
// @Success      201   {object}  dto.OfferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pricing/offers [post]
func (h *PricingHandler) CreateOffer(c *fiber.Ctx) error {
	var in dto.CreateOfferRequest
	if err := h.bind.body(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateSpecialOffer(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateOffer actualización parcial de una oferta.
func (h *PricingHandler) UpdateOffer(c *fiber.Ctx) error {
	var in dto.UpdateOfferRequest
	if err := h.bind.body(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateSpecialOffer(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PriceCheck precio final vigente de un StoreProduct.
func (h *PricingHandler) PriceCheck(c *fiber.Ctx) error {
	out, err := h.uc.PriceCheck(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *PricingHandler) Catalog(c *fiber.Ctx) error {
	out, err := h.uc.GetStoreCatalog(c.UserContext(), c.Params("storeId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
