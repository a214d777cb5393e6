package ledger_test

import (
	"context"
	"sync"

	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del gateway remoto compartido por los tests del paquete
// ──────────────────────────────────────────────────────────────────────────────

// fakeGateway implementa ledger.RemoteLedgerGateway con hooks por operación y
// contador de llamadas, para verificar qué peticiones salen (y cuáles no).
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	productFn   func(ctx context.Context, productID string) (*entity.Product, error)
	locationsFn func(ctx context.Context, productID, locationID string) ([]entity.Location, error)
	batchesFn   func(ctx context.Context, productID string, q ledger.BatchQuery) (*ledger.BatchPage, error)

	createBatchFn func(ctx context.Context, productID string, p ledger.CreateBatchPayload) error

	createDefectFn   func(ctx context.Context, stockID string, p ledger.AdjustmentPayload) error
	updateDefectFn   func(ctx context.Context, defectID string, p ledger.AdjustmentPayload) error
	removeDefectFn   func(ctx context.Context, defectID string) error
	createWriteoffFn func(ctx context.Context, stockID string, p ledger.AdjustmentPayload) error
	updateWriteoffFn func(ctx context.Context, writeoffID string, p ledger.AdjustmentPayload) error
	deleteWriteoffFn func(ctx context.Context, writeoffID string) error

	upsertPriceFn func(ctx context.Context, p ledger.PricePayload) error

	movementsFn func(ctx context.Context, scopeID string, page, pageSize int) (*ledger.MovementPage, error)
	exportFn    func(ctx context.Context, scopeID string) (*ledger.ExportFile, error)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: make(map[string]int)}
}

func (g *fakeGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) record(op string) {
	g.mu.Lock()
	g.calls[op]++
	g.mu.Unlock()
}

func (g *fakeGateway) Product(ctx context.Context, productID string) (*entity.Product, error) {
	g.record("Product")
	if g.productFn != nil {
		return g.productFn(ctx, productID)
	}
	return &entity.Product{ID: productID}, nil
}

func (g *fakeGateway) ProductLocations(ctx context.Context, productID, locationID string) ([]entity.Location, error) {
	g.record("ProductLocations")
	if g.locationsFn != nil {
		return g.locationsFn(ctx, productID, locationID)
	}
	return nil, nil
}

func (g *fakeGateway) BatchesAndDefects(ctx context.Context, productID string, q ledger.BatchQuery) (*ledger.BatchPage, error) {
	g.record("BatchesAndDefects")
	if g.batchesFn != nil {
		return g.batchesFn(ctx, productID, q)
	}
	return &ledger.BatchPage{}, nil
}

func (g *fakeGateway) CreateBatch(ctx context.Context, productID string, p ledger.CreateBatchPayload) error {
	g.record("CreateBatch")
	if g.createBatchFn != nil {
		return g.createBatchFn(ctx, productID, p)
	}
	return nil
}

func (g *fakeGateway) CreateDefect(ctx context.Context, stockID string, p ledger.AdjustmentPayload) error {
	g.record("CreateDefect")
	if g.createDefectFn != nil {
		return g.createDefectFn(ctx, stockID, p)
	}
	return nil
}

func (g *fakeGateway) UpdateDefect(ctx context.Context, defectID string, p ledger.AdjustmentPayload) error {
	g.record("UpdateDefect")
	if g.updateDefectFn != nil {
		return g.updateDefectFn(ctx, defectID, p)
	}
	return nil
}

func (g *fakeGateway) RemoveDefect(ctx context.Context, defectID string) error {
	g.record("RemoveDefect")
	if g.removeDefectFn != nil {
		return g.removeDefectFn(ctx, defectID)
	}
	return nil
}

func (g *fakeGateway) CreateWriteoff(ctx context.Context, stockID string, p ledger.AdjustmentPayload) error {
	g.record("CreateWriteoff")
	if g.createWriteoffFn != nil {
		return g.createWriteoffFn(ctx, stockID, p)
	}
	return nil
}

func (g *fakeGateway) UpdateWriteoff(ctx context.Context, writeoffID string, p ledger.AdjustmentPayload) error {
	g.record("UpdateWriteoff")
	if g.updateWriteoffFn != nil {
		return g.updateWriteoffFn(ctx, writeoffID, p)
	}
	return nil
}

func (g *fakeGateway) DeleteWriteoff(ctx context.Context, writeoffID string) error {
	g.record("DeleteWriteoff")
	if g.deleteWriteoffFn != nil {
		return g.deleteWriteoffFn(ctx, writeoffID)
	}
	return nil
}

func (g *fakeGateway) UpsertPrice(ctx context.Context, p ledger.PricePayload) error {
	g.record("UpsertPrice")
	if g.upsertPriceFn != nil {
		return g.upsertPriceFn(ctx, p)
	}
	return nil
}

func (g *fakeGateway) MovementHistory(ctx context.Context, scopeID string, page, pageSize int) (*ledger.MovementPage, error) {
	g.record("MovementHistory")
	if g.movementsFn != nil {
		return g.movementsFn(ctx, scopeID, page, pageSize)
	}
	return &ledger.MovementPage{}, nil
}

func (g *fakeGateway) MovementHistoryExport(ctx context.Context, scopeID string) (*ledger.ExportFile, error) {
	g.record("MovementHistoryExport")
	if g.exportFn != nil {
		return g.exportFn(ctx, scopeID)
	}
	return &ledger.ExportFile{}, nil
}

var _ ledger.RemoteLedgerGateway = (*fakeGateway)(nil)
