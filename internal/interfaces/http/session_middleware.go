package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/vendor-console/internal/application/dto"
	"github.com/invorya/vendor-console/pkg/session"
)

// Locals keys para la identidad del operador en Fiber.
const (
	LocalOperatorID   = "operator_id"
	LocalVendorID     = "vendor_id"
	LocalSessionToken = "session_token"
)

// SessionMiddleware valida la cookie de sesión firmada y extrae OperatorID y
// VendorID a c.Locals. La emisión/refresco de sesiones vive aguas arriba; una
// cookie ausente o inválida es un error de página completa (401).
func SessionMiddleware(secret, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_SESSION", Message: "cookie de sesión requerida"})
		}
		operatorID, vendorID, err := session.Parse(secret, token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SESSION", Message: "sesión inválida o expirada"})
		}
		c.Locals(LocalOperatorID, operatorID)
		c.Locals(LocalVendorID, vendorID)
		c.Locals(LocalSessionToken, token)
		return c.Next()
	}
}

// GetOperatorID devuelve el OperatorID del contexto (después del middleware).
func GetOperatorID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalOperatorID).(string)
	return s
}

// GetVendorID devuelve el VendorID del contexto (después del middleware).
func GetVendorID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalVendorID).(string)
	return s
}

// requestContext contexto de la petición con el token de sesión embebido, para
// que el gateway lo reenvíe al API de inventario.
func requestContext(c *fiber.Ctx) context.Context {
	token, _ := c.Locals(LocalSessionToken).(string)
	return session.WithToken(c.Context(), token)
}
