package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// historyGateway fake que sirve totalPages páginas de un día con dos eventos.
func historyGateway(totalPages int) *fakeGateway {
	g := newFakeGateway()
	g.movementsFn = func(_ context.Context, scopeID string, page, pageSize int) (*ledger.MovementPage, error) {
		day := entity.MovementDay{
			Date: time.Date(2026, 8, page, 0, 0, 0, 0, time.UTC),
			Events: []entity.MovementEvent{
				{ID: "ev-a", Type: "sale", Quantity: dec("-2")},
				{ID: "ev-b", Type: "batch_received", Quantity: dec("10")},
			},
		}
		return &ledger.MovementPage{
			Days:       []entity.MovementDay{day},
			Pagination: entity.Pagination{CurrentPage: page, TotalPages: totalPages, HasNext: page < totalPages},
		}, nil
	}
	return g
}

// Caso 1: abrir carga la página 1 y cargar más acumula la siguiente.
func TestHistory_AcumulaPaginas(t *testing.T) {
	g := historyGateway(2)
	v := ledger.NewMovementHistoryViewer(g, nil, "stock-1")

	require.NoError(t, v.Open(context.Background()))
	require.Len(t, v.Days(), 1)
	assert.True(t, v.Pagination().HasNext)

	require.NoError(t, v.LoadMore(context.Background()))
	assert.Len(t, v.Days(), 2, "cargar más concatena los días de la página 2")
	assert.False(t, v.Pagination().HasNext)
}

// Caso 2: sin más páginas, cargar más no emite ninguna petición.
func TestHistory_LoadMoreSinMasPaginas_NoEmitePeticion(t *testing.T) {
	g := historyGateway(1)
	v := ledger.NewMovementHistoryViewer(g, nil, "stock-1")

	require.NoError(t, v.Open(context.Background()))
	require.Equal(t, 1, g.count("MovementHistory"))

	require.NoError(t, v.LoadMore(context.Background()))
	assert.Equal(t, 1, g.count("MovementHistory"))
}

// Caso 3: reabrir reemplaza lo acumulado en lugar de duplicarlo.
func TestHistory_ReabrirReemplaza(t *testing.T) {
	g := historyGateway(2)
	v := ledger.NewMovementHistoryViewer(g, nil, "stock-1")

	require.NoError(t, v.Open(context.Background()))
	require.NoError(t, v.LoadMore(context.Background()))
	require.Len(t, v.Days(), 2)

	require.NoError(t, v.Open(context.Background()))
	assert.Len(t, v.Days(), 1, "abrir de nuevo vuelve a la página 1 sola")
}

// Caso 4: un fallo conserva lo acumulado (último estado bueno conocido).
func TestHistory_ErrorConservaAcumulado(t *testing.T) {
	g := historyGateway(3)
	v := ledger.NewMovementHistoryViewer(g, nil, "stock-1")
	require.NoError(t, v.Open(context.Background()))

	g.movementsFn = func(_ context.Context, _ string, _, _ int) (*ledger.MovementPage, error) {
		return nil, errors.New("timeout")
	}
	require.Error(t, v.LoadMore(context.Background()))
	assert.Len(t, v.Days(), 1, "el historial cargado no se pierde ante un fallo")
}

// Caso 5: el export es un passthrough del binario del remoto.
func TestHistory_ExportPassthrough(t *testing.T) {
	g := historyGateway(1)
	g.exportFn = func(_ context.Context, scopeID string) (*ledger.ExportFile, error) {
		assert.Equal(t, "stock-1", scopeID)
		return &ledger.ExportFile{Filename: "movimientos.xlsx", ContentType: "application/vnd.ms-excel", Data: []byte("xlsx")}, nil
	}
	v := ledger.NewMovementHistoryViewer(g, nil, "stock-1")

	file, err := v.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "movimientos.xlsx", file.Filename)
	assert.Equal(t, []byte("xlsx"), file.Data)
}
