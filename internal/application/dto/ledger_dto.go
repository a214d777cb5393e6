package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/vendor-console/internal/domain/entity"
)

// ProductLedgerResponse proyección completa de la vista de libro por producto.
type ProductLedgerResponse struct {
	Product ProductResponse `json:"product"`
	Feeds   []FeedResponse  `json:"feeds"`
}

// ProductResponse producto con totales agregados y sedes proyectadas.
type ProductResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Category       string             `json:"category"`
	UnitLabel      string             `json:"unit_label"`
	FractionalUnit bool               `json:"fractional_unit"`
	TotalAvailable decimal.Decimal    `json:"total_available"`
	TotalDefect    decimal.Decimal    `json:"total_defect"`
	Locations      []LocationResponse `json:"locations"`
}

// LocationResponse sede con sus variantes proyectadas.
type LocationResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Variants []VariantResponse `json:"variants"`
}

// VariantResponse variante en sede: precio, flags y cantidades derivadas.
type VariantResponse struct {
	VariantID              string          `json:"variant_id"`
	Name                   string          `json:"name"`
	SKU                    string          `json:"sku"`
	Price                  decimal.Decimal `json:"price"`
	PriceID                *string         `json:"price_id"`
	IsPriceActive          bool            `json:"is_price_active"`
	IsActiveOnMarketplace  bool            `json:"is_active_on_marketplace"`
	IsActiveForOfflineSale bool            `json:"is_active_for_offline_sale"`
	IsActiveOnOwnSite      bool            `json:"is_active_on_own_site"`
	AvailableQuantity      decimal.Decimal `json:"available_quantity"`
	ReservedQuantity       decimal.Decimal `json:"reserved_quantity"`
	DefectQuantity         decimal.Decimal `json:"defect_quantity"`
}

// FeedResponse estado de un feed de lotes por sede.
type FeedResponse struct {
	LocationID string             `json:"location_id"`
	Filter     string             `json:"filter"`
	Sort       string             `json:"sort"`
	Batches    []BatchResponse    `json:"batches"`
	Pagination PaginationResponse `json:"pagination"`
	Loading    bool               `json:"loading"`
}

// BatchResponse lote con sus líneas de stock.
type BatchResponse struct {
	ID           string              `json:"id"`
	BatchNumber  string              `json:"batch_number"`
	ReceivedDate time.Time           `json:"received_date"`
	Supplier     string              `json:"supplier"`
	Notes        string              `json:"notes"`
	Stocks       []StockLineResponse `json:"stocks"`
}

// StockLineResponse línea de stock con sus deducciones anidadas.
// AvailableQuantity viene del remoto; la consola jamás la deriva.
type StockLineResponse struct {
	ID                  string               `json:"id"`
	VariantID           string               `json:"variant_id"`
	VariantName         string               `json:"variant_name"`
	LocationID          string               `json:"location_id"`
	Quantity            decimal.Decimal      `json:"quantity"`
	CostPrice           *decimal.Decimal     `json:"cost_price,omitempty"`
	ReservedQuantity    decimal.Decimal      `json:"reserved_quantity"`
	AvailableQuantity   decimal.Decimal      `json:"available_quantity"`
	SoldQuantity        decimal.Decimal      `json:"sold_quantity"`
	ReturnedQuantity    decimal.Decimal      `json:"returned_quantity"`
	DefectQuantity      decimal.Decimal      `json:"defect_quantity"`
	WriteoffQuantity    decimal.Decimal      `json:"writeoff_quantity"`
	InventoryAdjustment decimal.Decimal      `json:"inventory_adjustment"`
	Defects             []AdjustmentResponse `json:"defects"`
	Writeoffs           []AdjustmentResponse `json:"writeoffs"`
}

// AdjustmentResponse defecto o baja registrada. Editable=false cuando el
// registro pertenece al subsistema de traslados (sin acciones de edición).
type AdjustmentResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	ReasonDetail string          `json:"reason_detail,omitempty"`
	TransferID   *string         `json:"transfer_id,omitempty"`
	Editable     bool            `json:"editable"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SaveAdjustmentRequest body de creación/edición de defecto o baja.
type SaveAdjustmentRequest struct {
	Quantity     *decimal.Decimal `json:"quantity"`
	Reason       string           `json:"reason"`
	ReasonDetail string           `json:"reason_detail,omitempty"`
}

// DeleteAdjustmentRequest la eliminación exige confirmación explícita.
type DeleteAdjustmentRequest struct {
	Confirmed bool `json:"confirmed"`
}

// SetFilterRequest body de cambio de filtro de un feed.
type SetFilterRequest struct {
	Filter string `json:"filter"`
}

// SetLocationFilterRequest body del filtro de sede del orquestador.
type SetLocationFilterRequest struct {
	LocationID string `json:"location_id"`
}

// UpsertPriceRequest body de PUT /api/prices.
type UpsertPriceRequest struct {
	VariantID  string          `json:"variant_id"`
	LocationID string          `json:"location_id"`
	Price      decimal.Decimal `json:"selling_price"`
}

// TogglePriceFlagRequest body de POST /api/prices/toggle.
// Flag vacío invierte la activación general del precio.
type TogglePriceFlagRequest struct {
	VariantID  string `json:"variant_id"`
	LocationID string `json:"location_id"`
	Flag       string `json:"flag,omitempty"`
}

// MovementHistoryResponse historial agrupado por fecha.
type MovementHistoryResponse struct {
	Days       []MovementDayResponse `json:"days"`
	Pagination PaginationResponse    `json:"pagination"`
}

// MovementDayResponse eventos de un mismo día.
type MovementDayResponse struct {
	Date   string                  `json:"date"`
	Events []MovementEventResponse `json:"events"`
}

// MovementEventResponse evento con cantidad con signo.
type MovementEventResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Actor     string          `json:"actor"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ── Conversiones ──────────────────────────────────────────────────────────────

// ToProductResponse convierte la entidad a respuesta.
func ToProductResponse(p *entity.Product) ProductResponse {
	locations := make([]LocationResponse, 0, len(p.Locations))
	for _, loc := range p.Locations {
		locations = append(locations, ToLocationResponse(loc))
	}
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		UnitLabel:      p.UnitLabel,
		FractionalUnit: p.FractionalUnit,
		TotalAvailable: p.TotalAvailable,
		TotalDefect:    p.TotalDefect,
		Locations:      locations,
	}
}

// ToLocationResponse convierte una sede con sus variantes.
func ToLocationResponse(loc entity.Location) LocationResponse {
	variants := make([]VariantResponse, 0, len(loc.Variants))
	for _, v := range loc.Variants {
		variants = append(variants, VariantResponse{
			VariantID:              v.VariantID,
			Name:                   v.Name,
			SKU:                    v.SKU,
			Price:                  v.Price,
			PriceID:                v.PriceID,
			IsPriceActive:          v.IsPriceActive,
			IsActiveOnMarketplace:  v.IsActiveOnMarketplace,
			IsActiveForOfflineSale: v.IsActiveForOfflineSale,
			IsActiveOnOwnSite:      v.IsActiveOnOwnSite,
			AvailableQuantity:      v.AvailableQuantity,
			ReservedQuantity:       v.ReservedQuantity,
			DefectQuantity:         v.DefectQuantity,
		})
	}
	return LocationResponse{ID: loc.ID, Name: loc.Name, Variants: variants}
}

// ToBatchResponse convierte un lote con sus líneas.
func ToBatchResponse(b entity.Batch) BatchResponse {
	stocks := make([]StockLineResponse, 0, len(b.Stocks))
	for _, s := range b.Stocks {
		stocks = append(stocks, ToStockLineResponse(s))
	}
	return BatchResponse{
		ID:           b.ID,
		BatchNumber:  b.BatchNumber,
		ReceivedDate: b.ReceivedDate,
		Supplier:     b.Supplier,
		Notes:        b.Notes,
		Stocks:       stocks,
	}
}

// ToStockLineResponse convierte una línea de stock.
func ToStockLineResponse(s entity.StockLine) StockLineResponse {
	return StockLineResponse{
		ID:                  s.ID,
		VariantID:           s.VariantID,
		VariantName:         s.VariantName,
		LocationID:          s.LocationID,
		Quantity:            s.Quantity,
		CostPrice:           s.CostPrice,
		ReservedQuantity:    s.ReservedQuantity,
		AvailableQuantity:   s.AvailableQuantity,
		SoldQuantity:        s.SoldQuantity,
		ReturnedQuantity:    s.ReturnedQuantity,
		DefectQuantity:      s.DefectQuantity,
		WriteoffQuantity:    s.WriteoffQuantity,
		InventoryAdjustment: s.InventoryAdjustment,
		Defects:             toAdjustments(s.Defects),
		Writeoffs:           toAdjustments(s.Writeoffs),
	}
}

func toAdjustments(list []entity.StockAdjustment) []AdjustmentResponse {
	out := make([]AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, AdjustmentResponse{
			ID:           a.ID,
			Kind:         string(a.Kind),
			Quantity:     a.Quantity,
			Reason:       a.Reason,
			ReasonDetail: a.ReasonDetail,
			TransferID:   a.TransferID,
			Editable:     !a.Locked(),
			CreatedAt:    a.CreatedAt,
		})
	}
	return out
}

// ToMovementHistoryResponse convierte una página del historial.
func ToMovementHistoryResponse(days []entity.MovementDay, p entity.Pagination) MovementHistoryResponse {
	out := make([]MovementDayResponse, 0, len(days))
	for _, day := range days {
		events := make([]MovementEventResponse, 0, len(day.Events))
		for _, ev := range day.Events {
			events = append(events, MovementEventResponse{
				ID:        ev.ID,
				Type:      ev.Type,
				Quantity:  ev.Quantity,
				Actor:     ev.Actor,
				Reference: ev.Reference,
				CreatedAt: ev.CreatedAt,
			})
		}
		out = append(out, MovementDayResponse{Date: day.Date.Format("2006-01-02"), Events: events})
	}
	return MovementHistoryResponse{Days: out, Pagination: ToPagination(p)}
}
