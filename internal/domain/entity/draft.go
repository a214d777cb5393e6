package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchDraft borrador de recepción en curso, estado propio de la consola
// (único dato que no vive en el sistema remoto). Uno por operador y producto.
type BatchDraft struct {
	ID          string
	OperatorID  string
	ProductID   string
	BatchNumber string
	Supplier    string
	Notes       string
	Lines       []BatchDraftLine
	UpdatedAt   time.Time
}

// BatchDraftLine línea guardada del borrador.
type BatchDraftLine struct {
	LocationID       string
	VariantID        string
	Quantity         decimal.Decimal
	CostPrice        *decimal.Decimal
	ReservedQuantity decimal.Decimal
}
