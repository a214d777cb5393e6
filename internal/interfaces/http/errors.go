package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/vendor-console/internal/application/dto"
	"github.com/invorya/vendor-console/internal/domain"
)

// respondError mapea errores de dominio a la taxonomía HTTP de la consola:
// validación local → 400 inline; validación remota → 422 con campos; tope de
// cantidad → 409; sesión → 401; el resto → 502 (alerta bloqueante, sin retry).
func respondError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "REMOTE_VALIDATION", Message: vErr.Message, Fields: vErr.Fields,
		})
	}
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrQuantityAboveCap):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "QUANTITY_ABOVE_CAP", Message: err.Error()})
	case errors.Is(err, domain.ErrAdjustmentLocked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TRANSFER_LOCKED", Message: err.Error()})
	case errors.Is(err, domain.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BUSY", Message: err.Error()})
	case errors.Is(err, domain.ErrNoAvailability):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_AVAILABILITY", Message: err.Error()})
	case errors.Is(err, domain.ErrQuantityRequired),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrVariantWithoutPrice),
		errors.Is(err, domain.ErrBuilderEmpty),
		errors.Is(err, domain.ErrBuilderIncomplete),
		errors.Is(err, domain.ErrConfirmRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
	}
}
