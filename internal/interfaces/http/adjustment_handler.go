package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/invorya/vendor-console/internal/application/dto"
	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// AdjustmentHandler defectos y bajas sobre líneas de stock (protegido).
// Ambos tipos comparten la misma máquina de estados con tope de cantidad.
type AdjustmentHandler struct {
	registry *ledger.Registry
	gateway  ledger.RemoteLedgerGateway
	log      zerolog.Logger
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(registry *ledger.Registry, gateway ledger.RemoteLedgerGateway, log zerolog.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{registry: registry, gateway: gateway, log: log}
}

// CreateDefect godoc
// @Summary      Registrar un defecto
// @Description  Tope de creación: el disponible de la línea. Por encima se
//
//	rechaza en la consola sin tocar el remoto.
//
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Producto (UUID)"
// @Param        stockId  path  string                     true  "Línea de stock (UUID)"
// @Param        body     body  dto.SaveAdjustmentRequest  true  "quantity, reason"
// @Success      201  {object}  dto.ProductLedgerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stocks/{stockId}/defects [post]
func (h *AdjustmentHandler) CreateDefect(c *fiber.Ctx) error {
	return h.save(c, entity.AdjustmentDefect, "", c.Params("stockId"))
}

// UpdateDefect godoc
// @Summary      Editar un defecto
// @Description  Tope de edición: disponible + cantidad actual del registro.
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ProductLedgerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/defects/{defectId} [patch]
func (h *AdjustmentHandler) UpdateDefect(c *fiber.Ctx) error {
	return h.save(c, entity.AdjustmentDefect, c.Params("defectId"), "")
}

// RemoveDefect godoc
// @Summary      Eliminar un defecto
// @Description  Exige confirmación explícita; no es deshacible desde la consola.
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ProductLedgerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/defects/{defectId}/remove [post]
func (h *AdjustmentHandler) RemoveDefect(c *fiber.Ctx) error {
	return h.delete(c, c.Params("defectId"))
}

// CreateWriteoff godoc
// @Summary      Registrar una baja
// @Description  Causal del catálogo fijo (expired|damaged|lost|other) más
//
//	detalle opcional. Mismo tope de cantidad que los defectos.
//
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.ProductLedgerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stocks/{stockId}/writeoffs [post]
func (h *AdjustmentHandler) CreateWriteoff(c *fiber.Ctx) error {
	return h.save(c, entity.AdjustmentWriteoff, "", c.Params("stockId"))
}

// UpdateWriteoff godoc
// @Summary      Editar una baja
// @Description  Las bajas generadas por traslado son de solo lectura (409).
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ProductLedgerResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/writeoffs/{writeoffId} [patch]
func (h *AdjustmentHandler) UpdateWriteoff(c *fiber.Ctx) error {
	return h.save(c, entity.AdjustmentWriteoff, c.Params("writeoffId"), "")
}

// DeleteWriteoff godoc
// @Summary      Eliminar una baja
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ProductLedgerResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/writeoffs/{writeoffId} [delete]
func (h *AdjustmentHandler) DeleteWriteoff(c *fiber.Ctx) error {
	return h.delete(c, c.Params("writeoffId"))
}

// save flujo común create/edit: abre el formulario con el tope calculado,
// aplica los campos del body y guarda. Con éxito dispara el refresh completo.
func (h *AdjustmentHandler) save(c *fiber.Ctx, kind entity.AdjustmentKind, recordID, stockID string) error {
	var in dto.SaveAdjustmentRequest
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

	var existing *entity.StockAdjustment
	var line *entity.StockLine
	var err error
	if recordID != "" {
		existing, line, err = o.FindAdjustment(recordID)
	} else {
		line, err = o.StockLine(stockID)
	}
	if err != nil {
		return respondError(c, err)
	}

	form, err := ledger.OpenAdjustmentForm(h.gateway, kind, o.Product(), line, existing)
	if err != nil {
		return respondError(c, err)
	}
	// La cantidad llega de un solo envío, no del tecleo interactivo: fuera de
	// rango se rechaza con error, el clamp silencioso no aplica aquí.
	if in.Quantity != nil && in.Quantity.GreaterThan(form.Cap()) {
		return respondError(c, domain.ErrQuantityAboveCap)
	}
	form.SetQuantity(in.Quantity)
	form.SetReason(in.Reason)
	form.SetReasonDetail(in.ReasonDetail)

	if err := form.Save(ctx); err != nil {
		return respondError(c, err)
	}
	if err := o.RefreshAfterMutation(ctx); err != nil {
		h.log.Warn().Err(err).Msg("refresh tras guardar ajuste")
	}
	status := fiber.StatusOK
	if recordID == "" {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(ledgerResponse(o))
}

// delete flujo común de eliminación con confirmación explícita.
func (h *AdjustmentHandler) delete(c *fiber.Ctx, recordID string) error {
	var in dto.DeleteAdjustmentRequest
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
	record, _, err := o.FindAdjustment(recordID)
	if err != nil {
		return respondError(c, err)
	}
	if err := ledger.DeleteAdjustment(ctx, h.gateway, record, in.Confirmed); err != nil {
		return respondError(c, err)
	}
	if err := o.RefreshAfterMutation(ctx); err != nil {
		h.log.Warn().Err(err).Msg("refresh tras eliminar ajuste")
	}
	return c.JSON(ledgerResponse(o))
}
