package inventoryapi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// ── Wire types de lotes, deducciones y movimientos ───────────────────────────

type batchPageWire struct {
	Batches           []batchWire         `json:"batches"`
	BatchesPagination paginationWire      `json:"batches_pagination"`
	Defects           []adjustmentRecWire `json:"defects"`
	DefectsPagination paginationWire      `json:"defects_pagination"`
}

type batchWire struct {
	ID           string          `json:"id"`
	BatchNumber  string          `json:"batch_number"`
	ReceivedDate string          `json:"received_date"`
	Supplier     string          `json:"supplier"`
	Notes        string          `json:"notes"`
	Stocks       []stockLineWire `json:"stocks"`
}

type stockLineWire struct {
	ID                  string              `json:"id"`
	VariantID           string              `json:"variant_id"`
	VariantName         string              `json:"variant_name"`
	LocationID          string              `json:"location_id"`
	BatchID             string              `json:"batch_id"`
	Quantity            json.Number         `json:"quantity"`
	CostPrice           *json.Number        `json:"cost_price"`
	ReservedQuantity    json.Number         `json:"reserved_quantity"`
	AvailableQuantity   json.Number         `json:"available_quantity"`
	SoldQuantity        json.Number         `json:"sold_quantity"`
	ReturnedQuantity    json.Number         `json:"returned_quantity"`
	DefectQuantity      json.Number         `json:"defect_quantity"`
	WriteoffQuantity    json.Number         `json:"writeoff_quantity"`
	InventoryAdjustment json.Number         `json:"inventory_adjustment"`
	Defects             []adjustmentRecWire `json:"defects"`
	Writeoffs           []adjustmentRecWire `json:"writeoffs"`

	IsAvailableForSale     bool `json:"is_available_for_sale"`
	IsActiveOnMarketplace  bool `json:"is_active_on_marketplace"`
	IsActiveForOfflineSale bool `json:"is_active_for_offline_sale"`
	IsActiveOnOwnSite      bool `json:"is_active_on_own_site"`
}

type adjustmentRecWire struct {
	ID           string      `json:"id"`
	StockID      string      `json:"stock_id"`
	Quantity     json.Number `json:"quantity"`
	Reason       string      `json:"reason"`
	ReasonDetail string      `json:"reason_detail"`
	TransferID   *string     `json:"transfer_id"`
	CreatedAt    time.Time   `json:"created_at"`
}

type paginationWire struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
}

type movementPageWire struct {
	Days       []movementDayWire `json:"days"`
	Pagination paginationWire    `json:"pagination"`
}

type movementDayWire struct {
	Date   string              `json:"date"`
	Events []movementEventWire `json:"events"`
}

type movementEventWire struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Quantity  json.Number `json:"quantity"`
	Actor     string      `json:"actor"`
	Reference string      `json:"reference"`
	CreatedAt time.Time   `json:"created_at"`
}

// ── Conversión wire → entidad ────────────────────────────────────────────────

func num(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("número inválido %q: %w", n.String(), err)
	}
	return d, nil
}

func toProduct(w productWire) (*entity.Product, error) {
	avail, err := num(w.TotalAvailable)
	if err != nil {
		return nil, err
	}
	defect, err := num(w.TotalDefect)
	if err != nil {
		return nil, err
	}
	return &entity.Product{
		ID:             w.ID,
		Name:           w.Name,
		Category:       w.Category,
		UnitLabel:      w.UnitLabel,
		FractionalUnit: w.FractionalUnit,
		TotalAvailable: avail,
		TotalDefect:    defect,
	}, nil
}

func toLocation(w locationWire) (entity.Location, error) {
	loc := entity.Location{ID: w.ID, Name: w.Name}
	for _, vw := range w.Variants {
		price, err := num(vw.Price)
		if err != nil {
			return loc, err
		}
		avail, err := num(vw.AvailableQuantity)
		if err != nil {
			return loc, err
		}
		reserved, err := num(vw.ReservedQuantity)
		if err != nil {
			return loc, err
		}
		defect, err := num(vw.DefectQuantity)
		if err != nil {
			return loc, err
		}
		loc.Variants = append(loc.Variants, entity.VariantAtLocation{
			VariantID:              vw.VariantID,
			Name:                   vw.Name,
			SKU:                    vw.SKU,
			Price:                  price,
			PriceID:                vw.PriceID,
			IsPriceActive:          vw.IsPriceActive,
			IsActiveOnMarketplace:  vw.IsActiveOnMarketplace,
			IsActiveForOfflineSale: vw.IsActiveForOfflineSale,
			IsActiveOnOwnSite:      vw.IsActiveOnOwnSite,
			AvailableQuantity:      avail,
			ReservedQuantity:       reserved,
			DefectQuantity:         defect,
		})
	}
	return loc, nil
}

func toPagination(w paginationWire) entity.Pagination {
	return entity.Pagination{CurrentPage: w.CurrentPage, TotalPages: w.TotalPages, HasNext: w.HasNext}
}

func toAdjustment(kind entity.AdjustmentKind, w adjustmentRecWire) (entity.StockAdjustment, error) {
	q, err := num(w.Quantity)
	if err != nil {
		return entity.StockAdjustment{}, err
	}
	return entity.StockAdjustment{
		ID:           w.ID,
		Kind:         kind,
		StockLineID:  w.StockID,
		Quantity:     q,
		Reason:       w.Reason,
		ReasonDetail: w.ReasonDetail,
		TransferID:   w.TransferID,
		CreatedAt:    w.CreatedAt,
	}, nil
}

func toStockLine(w stockLineWire) (entity.StockLine, error) {
	line := entity.StockLine{
		ID:                     w.ID,
		VariantID:              w.VariantID,
		VariantName:            w.VariantName,
		LocationID:             w.LocationID,
		BatchID:                w.BatchID,
		IsAvailableForSale:     w.IsAvailableForSale,
		IsActiveOnMarketplace:  w.IsActiveOnMarketplace,
		IsActiveForOfflineSale: w.IsActiveForOfflineSale,
		IsActiveOnOwnSite:      w.IsActiveOnOwnSite,
	}
	var err error
	if line.Quantity, err = num(w.Quantity); err != nil {
		return line, err
	}
	if w.CostPrice != nil {
		cost, err := num(*w.CostPrice)
		if err != nil {
			return line, err
		}
		line.CostPrice = &cost
	}
	if line.ReservedQuantity, err = num(w.ReservedQuantity); err != nil {
		return line, err
	}
	if line.AvailableQuantity, err = num(w.AvailableQuantity); err != nil {
		return line, err
	}
	if line.SoldQuantity, err = num(w.SoldQuantity); err != nil {
		return line, err
	}
	if line.ReturnedQuantity, err = num(w.ReturnedQuantity); err != nil {
		return line, err
	}
	if line.DefectQuantity, err = num(w.DefectQuantity); err != nil {
		return line, err
	}
	if line.WriteoffQuantity, err = num(w.WriteoffQuantity); err != nil {
		return line, err
	}
	if line.InventoryAdjustment, err = num(w.InventoryAdjustment); err != nil {
		return line, err
	}
	for _, dw := range w.Defects {
		adj, err := toAdjustment(entity.AdjustmentDefect, dw)
		if err != nil {
			return line, err
		}
		line.Defects = append(line.Defects, adj)
	}
	for _, ww := range w.Writeoffs {
		adj, err := toAdjustment(entity.AdjustmentWriteoff, ww)
		if err != nil {
			return line, err
		}
		line.Writeoffs = append(line.Writeoffs, adj)
	}
	return line, nil
}

func toBatchPage(w batchPageWire) (*ledger.BatchPage, error) {
	page := &ledger.BatchPage{
		BatchesPagination: toPagination(w.BatchesPagination),
		DefectsPagination: toPagination(w.DefectsPagination),
	}
	for _, bw := range w.Batches {
		batch := entity.Batch{
			ID:          bw.ID,
			BatchNumber: bw.BatchNumber,
			Supplier:    bw.Supplier,
			Notes:       bw.Notes,
		}
		if bw.ReceivedDate != "" {
			t, err := time.Parse("2006-01-02", bw.ReceivedDate)
			if err != nil {
				return nil, fmt.Errorf("fecha de recepción inválida %q: %w", bw.ReceivedDate, err)
			}
			batch.ReceivedDate = t
		}
		for _, sw := range bw.Stocks {
			line, err := toStockLine(sw)
			if err != nil {
				return nil, err
			}
			if line.BatchID == "" {
				line.BatchID = bw.ID
			}
			batch.Stocks = append(batch.Stocks, line)
		}
		page.Batches = append(page.Batches, batch)
	}
	for _, dw := range w.Defects {
		adj, err := toAdjustment(entity.AdjustmentDefect, dw)
		if err != nil {
			return nil, err
		}
		page.Defects = append(page.Defects, adj)
	}
	return page, nil
}

func toMovementPage(w movementPageWire) (*ledger.MovementPage, error) {
	page := &ledger.MovementPage{Pagination: toPagination(w.Pagination)}
	for _, dw := range w.Days {
		date, err := time.Parse("2006-01-02", dw.Date)
		if err != nil {
			return nil, fmt.Errorf("fecha de grupo inválida %q: %w", dw.Date, err)
		}
		day := entity.MovementDay{Date: date}
		for _, ew := range dw.Events {
			q, err := num(ew.Quantity)
			if err != nil {
				return nil, err
			}
			day.Events = append(day.Events, entity.MovementEvent{
				ID:        ew.ID,
				Type:      ew.Type,
				Quantity:  q,
				Actor:     ew.Actor,
				Reference: ew.Reference,
				CreatedAt: ew.CreatedAt,
			})
		}
		page.Days = append(page.Days, day)
	}
	return page, nil
}
