package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento del historial de movimientos.
const (
	MovementReceived   = "received"
	MovementSale       = "sale"
	MovementReturn     = "return"
	MovementDefect     = "defect"
	MovementWriteoff   = "writeoff"
	MovementAdjustment = "inventory_adjustment"
)

// MovementEvent evento del historial con cantidad con signo.
type MovementEvent struct {
	ID        string
	Type      string
	Quantity  decimal.Decimal // + entradas, - salidas
	Actor     string
	Reference string // factura, lote o recibo asociado (opcional)
	CreatedAt time.Time
}

// MovementDay grupo de eventos de un mismo día, como lo entrega el remoto.
type MovementDay struct {
	Date   time.Time
	Events []MovementEvent
}
