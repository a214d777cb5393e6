package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch recepción física de mercancía: agrupa una o más líneas de stock.
// BatchNumber puede venir vacío en la creación; el remoto asigna uno.
type Batch struct {
	ID           string
	BatchNumber  string
	ReceivedDate time.Time
	Supplier     string
	Notes        string
	Stocks       []StockLine
}

// StockLine fila atómica del libro: una tripleta (variante, sede, lote).
// AvailableQuantity es derivada y autoritativa del sistema remoto.
type StockLine struct {
	ID                  string
	VariantID           string
	VariantName         string
	LocationID          string
	BatchID             string
	Quantity            decimal.Decimal  // recibida
	CostPrice           *decimal.Decimal // opcional
	ReservedQuantity    decimal.Decimal
	AvailableQuantity   decimal.Decimal
	SoldQuantity        decimal.Decimal
	ReturnedQuantity    decimal.Decimal
	DefectQuantity      decimal.Decimal
	WriteoffQuantity    decimal.Decimal
	InventoryAdjustment decimal.Decimal // con signo: + sobrante, - faltante en conteo
	Defects             []StockAdjustment
	Writeoffs           []StockAdjustment

	// Flags de canal al momento de crear la línea.
	IsAvailableForSale     bool
	IsActiveOnMarketplace  bool
	IsActiveForOfflineSale bool
	IsActiveOnOwnSite      bool
}
