package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/invorya/vendor-console/internal/application/dto"
	"github.com/invorya/vendor-console/internal/application/ledger"
)

// PriceHandler precio y flags de activación por (variante, sede) (protegido).
type PriceHandler struct {
	registry *ledger.Registry
	gateway  ledger.RemoteLedgerGateway
	log      zerolog.Logger
}

// NewPriceHandler construye el handler.
func NewPriceHandler(registry *ledger.Registry, gateway ledger.RemoteLedgerGateway, log zerolog.Logger) *PriceHandler {
	return &PriceHandler{registry: registry, gateway: gateway, log: log}
}

// Upsert godoc
// @Summary      Fijar el precio de venta de una variante en una sede
// @Description  Upsert idempotente: la misma operación crea o reemplaza el
//
//	precio. Con éxito dispara el refresh completo de la vista.
//
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "Producto (UUID)"
// @Param        body  body  dto.UpsertPriceRequest  true  "variante, sede y precio"
// @Success      200  {object}  dto.ProductLedgerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/prices [put]
func (h *PriceHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ctx := requestContext(c)
	o := h.registry.Get(GetOperatorID(c), c.Params("id"))
	if o.Product() == nil {
		if err := o.LoadProduct(ctx); err != nil {
			return respondError(c, err)
		}
	}
	variant, err := o.FindVariant(in.LocationID, in.VariantID)
	if err != nil {
		return respondError(c, err)
	}
	editor := ledger.NewPriceActivationEditor(h.gateway, in.LocationID, *variant)
	if err := editor.Save(ctx, in.Price); err != nil {
		return respondError(c, err)
	}
	if err := o.RefreshAfterMutation(ctx); err != nil {
		h.log.Warn().Err(err).Msg("refresh tras guardar precio")
	}
	return c.JSON(ledgerResponse(o))
}

// Toggle godoc
// @Summary      Invertir la activación del precio o un flag de canal
// @Description  Flag vacío invierte la activación general; marketplace|offline|
//
//	own_site invierten el canal. El cambio es optimista: se aplica localmente y
//	se revierte si el remoto rechaza. Los canales exigen disponible > 0.
//
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "Producto (UUID)"
// @Param        body  body  dto.TogglePriceFlagRequest  true  "variante, sede y flag"
// @Success      200  {object}  dto.ProductLedgerResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/prices/toggle [post]
func (h *PriceHandler) Toggle(c *fiber.Ctx) error {
	var in dto.TogglePriceFlagRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ctx := requestContext(c)
	o := h.registry.Get(GetOperatorID(c), c.Params("id"))
	if o.Product() == nil {
		if err := o.LoadProduct(ctx); err != nil {
			return respondError(c, err)
		}
	}
	variant, err := o.FindVariant(in.LocationID, in.VariantID)
	if err != nil {
		return respondError(c, err)
	}
	editor := ledger.NewPriceActivationEditor(h.gateway, in.LocationID, *variant)
	if in.Flag == "" {
		err = editor.ToggleActive(ctx)
	} else {
		err = editor.ToggleChannelFlag(ctx, in.Flag)
	}
	if err != nil {
		return respondError(c, err)
	}
	// Toggle confirmado: se parchea el snapshot local, sin refresh completo.
	o.UpdateVariant(in.LocationID, editor.Variant())
	return c.JSON(ledgerResponse(o))
}
