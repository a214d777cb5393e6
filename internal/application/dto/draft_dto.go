package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/vendor-console/internal/domain/entity"
)

// SaveDraftRequest body de PUT /api/products/:id/batch-draft.
type SaveDraftRequest struct {
	BatchNumber string             `json:"batch_number,omitempty"`
	Supplier    string             `json:"supplier,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Lines       []DraftLineRequest `json:"lines"`
}

// DraftLineRequest línea guardada del borrador.
type DraftLineRequest struct {
	LocationID       string           `json:"location_id"`
	VariantID        string           `json:"variant_id"`
	Quantity         decimal.Decimal  `json:"quantity"`
	CostPrice        *decimal.Decimal `json:"cost_price,omitempty"`
	ReservedQuantity *decimal.Decimal `json:"reserved_quantity,omitempty"`
}

// DraftResponse borrador persistido.
type DraftResponse struct {
	ID          string              `json:"id"`
	ProductID   string              `json:"product_id"`
	BatchNumber string              `json:"batch_number,omitempty"`
	Supplier    string              `json:"supplier,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	Lines       []DraftLineResponse `json:"lines"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// DraftLineResponse línea del borrador.
type DraftLineResponse struct {
	LocationID       string           `json:"location_id"`
	VariantID        string           `json:"variant_id"`
	Quantity         decimal.Decimal  `json:"quantity"`
	CostPrice        *decimal.Decimal `json:"cost_price,omitempty"`
	ReservedQuantity decimal.Decimal  `json:"reserved_quantity"`
}

// ToDraftResponse convierte la entidad a respuesta.
func ToDraftResponse(d *entity.BatchDraft) DraftResponse {
	lines := make([]DraftLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, DraftLineResponse{
			LocationID:       l.LocationID,
			VariantID:        l.VariantID,
			Quantity:         l.Quantity,
			CostPrice:        l.CostPrice,
			ReservedQuantity: l.ReservedQuantity,
		})
	}
	return DraftResponse{
		ID:          d.ID,
		ProductID:   d.ProductID,
		BatchNumber: d.BatchNumber,
		Supplier:    d.Supplier,
		Notes:       d.Notes,
		Lines:       lines,
		UpdatedAt:   d.UpdatedAt,
	}
}
