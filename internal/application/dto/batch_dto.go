package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body de POST /api/products/:id/batches. Las líneas se
// reproducen sobre el builder para conservar sus validaciones (sede → variante
// con precio → cantidad) antes de enviar nada al remoto.
type CreateBatchRequest struct {
	BatchNumber  string                   `json:"batch_number,omitempty"`
	ReceivedDate *time.Time               `json:"received_date,omitempty"`
	Supplier     string                   `json:"supplier,omitempty"`
	Notes        string                   `json:"notes,omitempty"`
	Lines        []CreateBatchLineRequest `json:"lines"`
}

// CreateBatchLineRequest línea de la recepción.
type CreateBatchLineRequest struct {
	LocationID       string           `json:"location_id"`
	VariantID        string           `json:"variant_id"`
	Quantity         decimal.Decimal  `json:"quantity"`
	CostPrice        *decimal.Decimal `json:"cost_price,omitempty"`
	ReservedQuantity *decimal.Decimal `json:"reserved_quantity,omitempty"`
}
