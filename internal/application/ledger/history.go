package ledger

import (
	"context"
	"sync"

	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// HistoryPageSize tamaño de página del historial de movimientos.
const HistoryPageSize = 20

// MovementHistoryViewer log de eventos incremental de solo lectura para una
// línea de stock o un precio (variante, sede). Paginación por página; se
// detiene sola cuando el remoto reporta que no hay más.
type MovementHistoryViewer struct {
	gateway RemoteLedgerGateway
	reports MovementReportGenerator
	scopeID string

	mu         sync.Mutex
	days       []entity.MovementDay
	pagination entity.Pagination
	page       int
	loading    bool
}

// NewMovementHistoryViewer construye el visor para un scope.
func NewMovementHistoryViewer(gateway RemoteLedgerGateway, reports MovementReportGenerator, scopeID string) *MovementHistoryViewer {
	return &MovementHistoryViewer{gateway: gateway, reports: reports, scopeID: scopeID}
}

// Days copia de los grupos de eventos acumulados.
func (v *MovementHistoryViewer) Days() []entity.MovementDay {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]entity.MovementDay, len(v.days))
	copy(out, v.days)
	return out
}

// Pagination estado de paginación vigente.
func (v *MovementHistoryViewer) Pagination() entity.Pagination {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pagination
}

// Open carga la primera página del historial, reemplazando lo acumulado.
func (v *MovementHistoryViewer) Open(ctx context.Context) error {
	return v.load(ctx, 1, false)
}

// LoadMore carga la página siguiente. No hace nada si no hay más páginas o si
// ya hay una carga en vuelo. Lo dispara tanto el botón como el scroll.
func (v *MovementHistoryViewer) LoadMore(ctx context.Context) error {
	v.mu.Lock()
	if v.loading || !v.pagination.HasNext {
		v.mu.Unlock()
		return nil
	}
	next := v.page + 1
	v.mu.Unlock()
	return v.load(ctx, next, true)
}

func (v *MovementHistoryViewer) load(ctx context.Context, page int, appendPage bool) error {
	v.mu.Lock()
	if v.loading {
		v.mu.Unlock()
		return domain.ErrBusy
	}
	v.loading = true
	v.mu.Unlock()

	result, err := v.gateway.MovementHistory(ctx, v.scopeID, page, HistoryPageSize)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		// Se conserva lo acumulado: el visor degrada al último estado bueno.
		return err
	}
	v.page = page
	v.pagination = result.Pagination
	if appendPage {
		v.days = append(v.days, result.Days...)
	} else {
		v.days = result.Days
	}
	return nil
}

// Export pide al remoto la hoja de cálculo del scope y la entrega tal cual
// (fire-and-forget: sin reintentos; el fallo se muestra como alerta bloqueante).
func (v *MovementHistoryViewer) Export(ctx context.Context) (*ExportFile, error) {
	return v.gateway.MovementHistoryExport(ctx, v.scopeID)
}

// RenderPDF genera localmente el reporte PDF del historial cargado.
func (v *MovementHistoryViewer) RenderPDF(ctx context.Context) ([]byte, error) {
	return v.reports.GenerateMovementReport(ctx, v.scopeID, v.Days())
}
