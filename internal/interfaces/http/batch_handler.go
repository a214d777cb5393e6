package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/invorya/vendor-console/internal/application/drafts"
	"github.com/invorya/vendor-console/internal/application/dto"
	"github.com/invorya/vendor-console/internal/application/ledger"
)

// BatchHandler creación de recepciones (protegido).
type BatchHandler struct {
	registry *ledger.Registry
	gateway  ledger.RemoteLedgerGateway
	drafts   *drafts.UseCase
	log      zerolog.Logger
}

// NewBatchHandler construye el handler. drafts puede ser nil si la consola
// corre sin base de datos propia.
func NewBatchHandler(registry *ledger.Registry, gateway ledger.RemoteLedgerGateway, draftsUC *drafts.UseCase, log zerolog.Logger) *BatchHandler {
	return &BatchHandler{registry: registry, gateway: gateway, drafts: draftsUC, log: log}
}

// Create godoc
// @Summary      Crear un lote (recepción multi-línea)
// @Description  Reproduce las líneas sobre el builder para conservar sus
//
//	validaciones (sede → variante con precio → cantidad) y envía todo en una
//	sola petición atómica. Con éxito dispara el refresh completo de la vista y
//	descarta el borrador guardado.
//
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "Producto (UUID)"
// @Param        body  body  dto.CreateBatchRequest  true  "cabecera + líneas"
// @Success      201   {object}  dto.ProductLedgerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	productID := c.Params("id")
	operatorID := GetOperatorID(c)
	ctx := requestContext(c)

	o := h.registry.Get(operatorID, productID)
	if o.Product() == nil {
		if err := o.LoadProduct(ctx); err != nil {
			return respondError(c, err)
		}
	}

	builder := ledger.NewBatchCreationBuilder(h.gateway, productID, o.Locations())
	builder.SetHeader(in.BatchNumber, in.ReceivedDate, in.Supplier, in.Notes)
	for i, lineIn := range in.Lines {
		var lineID string
		if i == 0 {
			lineID = builder.Lines()[0].ID // el builder nace con una línea en blanco
		} else {
			lineID = builder.AddLine()
		}
		if err := builder.SetLocation(lineID, lineIn.LocationID); err != nil {
			return respondError(c, err)
		}
		if err := builder.SetVariant(lineID, lineIn.VariantID); err != nil {
			return respondError(c, err)
		}
		if err := builder.SetQuantity(lineID, lineIn.Quantity); err != nil {
			return respondError(c, err)
		}
		if lineIn.CostPrice != nil {
			if err := builder.SetCostPrice(lineID, lineIn.CostPrice); err != nil {
				return respondError(c, err)
			}
		}
		if lineIn.ReservedQuantity != nil {
			if err := builder.SetReserved(lineID, *lineIn.ReservedQuantity); err != nil {
				return respondError(c, err)
			}
		}
	}

	if err := builder.Submit(ctx); err != nil {
		return respondError(c, err)
	}

	if h.drafts != nil {
		if err := h.drafts.Delete(ctx, operatorID, productID); err != nil {
			h.log.Warn().Err(err).Str("product_id", productID).Msg("descartar borrador tras crear lote")
		}
	}
	if err := o.RefreshAfterMutation(ctx); err != nil {
		h.log.Warn().Err(err).Str("product_id", productID).Msg("refresh tras crear lote")
	}
	return c.Status(fiber.StatusCreated).JSON(ledgerResponse(o))
}
