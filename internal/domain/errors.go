package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUnauthorized        = errors.New("sesión inválida o expirada")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrQuantityAboveCap    = errors.New("la cantidad excede el disponible")
	ErrQuantityRequired    = errors.New("la cantidad es obligatoria y debe ser mayor que cero")
	ErrVariantWithoutPrice = errors.New("la variante no tiene precio en esta sede")
	ErrAdjustmentLocked    = errors.New("registro generado por traslado: solo lectura")
	ErrNoAvailability      = errors.New("sin disponible: no hay nada que vender")
	ErrBuilderEmpty        = errors.New("el lote debe tener al menos una línea")
	ErrBuilderIncomplete   = errors.New("seleccione sede, variante y cantidad en todas las líneas")
	ErrConfirmRequired     = errors.New("la eliminación requiere confirmación explícita")
	ErrBusy                = errors.New("hay una operación en curso para este control")
	ErrFormClosed          = errors.New("el formulario no está abierto")
)

// ValidationError error de validación del API remoto, con mensajes por campo.
// Cuando Fields está vacío se usa Message como error de formulario completo.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// Error implementa error. Incluye los campos para trazabilidad en logs.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// NewValidationError construye un ValidationError de formulario (sin campos).
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
