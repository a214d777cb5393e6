package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/vendor-console/internal/application/drafts"
	"github.com/invorya/vendor-console/internal/application/dto"
)

// DraftHandler borradores de recepción, uno por (operador, producto) (protegido).
type DraftHandler struct {
	drafts *drafts.UseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(draftsUC *drafts.UseCase) *DraftHandler {
	return &DraftHandler{drafts: draftsUC}
}

// Get godoc
// @Summary      Borrador de recepción del producto
// @Tags         drafts
// @Produce      json
// @Param        id  path  string  true  "Producto (UUID)"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batch-draft [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	resp, err := h.drafts.Get(requestContext(c), GetOperatorID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Save godoc
// @Summary      Guardar el borrador de recepción
// @Description  Sobrescribe el borrador previo del operador para este producto.
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "Producto (UUID)"
// @Param        body  body  dto.SaveDraftRequest  true  "cabecera + líneas"
// @Success      200  {object}  dto.DraftResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batch-draft [put]
func (h *DraftHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.drafts.Save(requestContext(c), GetOperatorID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary      Descartar el borrador de recepción
// @Tags         drafts
// @Success      204
// @Router       /api/products/{id}/batch-draft [delete]
func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	if err := h.drafts.Delete(requestContext(c), GetOperatorID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
