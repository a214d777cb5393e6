// Package ledger contiene las reglas puras de tope de cantidad para las
// deducciones (defectos y bajas). El disponible viene del sistema remoto y se
// trata como opaco: aquí solo se usa como cota superior, nunca se recalcula.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/invorya/vendor-console/internal/domain"
)

// Cap tope efectivo para una deducción sobre una línea de stock.
//   - Creación: Max = disponible de la línea.
//   - Edición: Max = disponible + cantidad actual del registro, porque la
//     edición libera conceptualmente la asignación vieja antes de aplicar la nueva.
type Cap struct {
	Min decimal.Decimal // paso mínimo de la unidad del producto
	Max decimal.Decimal
}

// NewCap calcula el tope. existing es la cantidad actual del registro cuando se
// edita; decimal.Zero cuando se crea.
func NewCap(minStep, available, existing decimal.Decimal) Cap {
	return Cap{Min: minStep, Max: available.Add(existing)}
}

// Clamp ajusta silenciosamente un valor tecleado al rango [Min, Max].
func (c Cap) Clamp(q decimal.Decimal) decimal.Decimal {
	if q.LessThan(c.Min) {
		return c.Min
	}
	if q.GreaterThan(c.Max) {
		return c.Max
	}
	return q
}

// Validate rechaza la cantidad al guardar: vacía/cero o por encima del tope.
func (c Cap) Validate(q decimal.Decimal) error {
	if !q.IsPositive() {
		return domain.ErrQuantityRequired
	}
	if q.LessThan(c.Min) {
		return domain.ErrInvalidInput
	}
	if q.GreaterThan(c.Max) {
		return domain.ErrQuantityAboveCap
	}
	return nil
}
