package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentKind discrimina los dos tipos de deducción sobre una línea de stock.
type AdjustmentKind string

const (
	AdjustmentDefect   AdjustmentKind = "defect"
	AdjustmentWriteoff AdjustmentKind = "writeoff"
)

// Causales fijas de baja (write-off).
const (
	WriteoffReasonExpired = "expired"
	WriteoffReasonDamaged = "damaged"
	WriteoffReasonLost    = "lost"
	WriteoffReasonOther   = "other"
)

// ValidWriteoffReason verifica que la causal pertenezca al catálogo fijo.
func ValidWriteoffReason(reason string) bool {
	switch reason {
	case WriteoffReasonExpired, WriteoffReasonDamaged, WriteoffReasonLost, WriteoffReasonOther:
		return true
	}
	return false
}

// StockAdjustment deducción registrada contra una línea de stock.
// Variante etiquetada: defecto (Reason libre) o baja (Reason del catálogo fijo
// más ReasonDetail opcional). TransferID presente solo en bajas generadas por
// un traslado; esos registros son de solo lectura para la consola.
type StockAdjustment struct {
	ID           string
	Kind         AdjustmentKind
	StockLineID  string
	Quantity     decimal.Decimal
	Reason       string
	ReasonDetail string // solo write-off
	TransferID   *string
	CreatedAt    time.Time
}

// Locked indica si el registro pertenece al subsistema de traslados y por
// tanto no admite edición ni eliminación desde la consola.
func (a *StockAdjustment) Locked() bool {
	return a.Kind == AdjustmentWriteoff && a.TransferID != nil && *a.TransferID != ""
}
