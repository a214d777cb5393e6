package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/vendor-console/internal/domain/entity"
)

// Filtros de la vista de lotes por sede.
const (
	FilterAll      = "all"
	FilterHasStock = "has_stock"
	FilterSoldOut  = "sold_out"
)

// SortRecent orden por defecto: lo más reciente primero.
const SortRecent = "recent"

// FeedPageSize tamaño de página fijo de cada feed de lotes.
const FeedPageSize = 3

// BatchQuery parámetros de GET batchesAndDefects.
type BatchQuery struct {
	Sort           string
	Filter         string
	Page           int
	PageSize       int
	LocationID     string
	DefectSort     string
	DefectPage     int
	DefectPageSize int
}

// BatchPage respuesta de una página del libro de lotes.
type BatchPage struct {
	Batches           []entity.Batch
	BatchesPagination entity.Pagination
	Defects           []entity.StockAdjustment
	DefectsPagination entity.Pagination
}

// CreateBatchStock línea del payload de creación de lote.
type CreateBatchStock struct {
	VariantOnLocationID    string
	Quantity               decimal.Decimal
	CostPrice              *decimal.Decimal
	ReservedQuantity       decimal.Decimal
	IsAvailableForSale     bool
	IsActiveOnMarketplace  bool
	IsActiveForOfflineSale bool
	IsActiveOnOwnSite      bool
}

// CreateBatchPayload payload de POST createBatch.
type CreateBatchPayload struct {
	BatchNumber  string
	ReceivedDate *time.Time
	Supplier     string
	Notes        string
	Stocks       []CreateBatchStock
}

// AdjustmentPayload cuerpo de creación/edición de defecto o baja.
type AdjustmentPayload struct {
	Quantity     decimal.Decimal
	Reason       string
	ReasonDetail string // solo write-off
}

// PricePayload payload de upsertPrice (create-or-replace idempotente).
type PricePayload struct {
	VariantID              string
	LocationID             string
	SellingPrice           decimal.Decimal
	IsActive               bool
	IsActiveOnMarketplace  *bool
	IsActiveForOfflineSale *bool
	IsActiveOnOwnSite      *bool
}

// MovementPage página del historial de movimientos agrupado por fecha.
type MovementPage struct {
	Days       []entity.MovementDay
	Pagination entity.Pagination
}

// ExportFile binario exportado por el remoto (hoja de cálculo).
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RemoteLedgerGateway puerto de salida hacia el API de inventario (sistema de
// registro). Toda la aritmética del libro vive allá; la consola solo lee
// proyecciones y envía mutaciones. El ctx transporta la cookie de sesión.
type RemoteLedgerGateway interface {
	Product(ctx context.Context, productID string) (*entity.Product, error)
	ProductLocations(ctx context.Context, productID, locationID string) ([]entity.Location, error)
	BatchesAndDefects(ctx context.Context, productID string, q BatchQuery) (*BatchPage, error)

	CreateBatch(ctx context.Context, productID string, payload CreateBatchPayload) error

	CreateDefect(ctx context.Context, stockID string, p AdjustmentPayload) error
	UpdateDefect(ctx context.Context, defectID string, p AdjustmentPayload) error
	RemoveDefect(ctx context.Context, defectID string) error

	CreateWriteoff(ctx context.Context, stockID string, p AdjustmentPayload) error
	UpdateWriteoff(ctx context.Context, writeoffID string, p AdjustmentPayload) error
	DeleteWriteoff(ctx context.Context, writeoffID string) error

	UpsertPrice(ctx context.Context, p PricePayload) error

	MovementHistory(ctx context.Context, scopeID string, page, pageSize int) (*MovementPage, error)
	MovementHistoryExport(ctx context.Context, scopeID string) (*ExportFile, error)
}

// MovementReportGenerator puerto para el reporte PDF local del historial.
type MovementReportGenerator interface {
	GenerateMovementReport(ctx context.Context, scopeID string, days []entity.MovementDay) ([]byte, error)
}
