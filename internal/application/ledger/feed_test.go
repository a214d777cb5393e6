package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// batchesOf genera una página de lotes con ids deterministas por filtro/página.
func batchesOf(filter string, page, n int) []entity.Batch {
	out := make([]entity.Batch, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entity.Batch{ID: fmt.Sprintf("%s-p%d-b%d", filter, page, i)})
	}
	return out
}

// pagedGateway fake que sirve totalPages páginas de 3 lotes por filtro.
func pagedGateway(totalPages int) *fakeGateway {
	g := newFakeGateway()
	g.batchesFn = func(_ context.Context, _ string, q ledger.BatchQuery) (*ledger.BatchPage, error) {
		return &ledger.BatchPage{
			Batches: batchesOf(q.Filter, q.Page, ledger.FeedPageSize),
			BatchesPagination: entity.Pagination{
				CurrentPage: q.Page,
				TotalPages:  totalPages,
				HasNext:     q.Page < totalPages,
			},
		}, nil
	}
	return g
}

// Caso 1: Load trae página 1 y LoadMore acumula la siguiente.
func TestFeed_CargaYAcumulaPaginas(t *testing.T) {
	g := pagedGateway(2)
	f := ledger.NewLocationBatchFeed(g, "prod-1", "loc-1")

	require.NoError(t, f.Load(context.Background(), ledger.FilterAll, 1, false))
	st := f.State()
	assert.Len(t, st.Batches, 3, "página 1 debe traer el tamaño de página del feed")
	assert.True(t, st.Pagination.HasNext)

	require.NoError(t, f.LoadMore(context.Background()))
	st = f.State()
	assert.Len(t, st.Batches, 6, "cargar más debe concatenar la página 2")
	assert.Equal(t, "all-p1-b0", st.Batches[0].ID, "las páginas previas se conservan en orden")
	assert.Equal(t, "all-p2-b2", st.Batches[5].ID)
	assert.False(t, st.Pagination.HasNext)
}

// Caso 2: sin más páginas, LoadMore no emite ninguna petición.
func TestFeed_LoadMoreSinMasPaginas_NoEmitePeticion(t *testing.T) {
	g := pagedGateway(1)
	f := ledger.NewLocationBatchFeed(g, "prod-1", "loc-1")

	require.NoError(t, f.Load(context.Background(), ledger.FilterAll, 1, false))
	require.Equal(t, 1, g.count("BatchesAndDefects"))

	require.NoError(t, f.LoadMore(context.Background()))
	assert.Equal(t, 1, g.count("BatchesAndDefects"),
		"sin HasNext el feed no debe pedir nada al remoto")
	assert.Len(t, f.State().Batches, 3)
}

// Caso 3: cambiar el filtro reemplaza lo acumulado y vuelve a página 1. Las
// páginas del filtro anterior jamás se mezclan con el nuevo.
func TestFeed_SetFilter_ReemplazaYVuelveAPagina1(t *testing.T) {
	g := pagedGateway(3)
	f := ledger.NewLocationBatchFeed(g, "prod-1", "loc-1")

	require.NoError(t, f.Load(context.Background(), ledger.FilterAll, 1, false))
	require.NoError(t, f.LoadMore(context.Background()))
	require.Len(t, f.State().Batches, 6)

	require.NoError(t, f.SetFilter(context.Background(), ledger.FilterSoldOut))
	st := f.State()
	assert.Equal(t, ledger.FilterSoldOut, st.Filter)
	assert.Equal(t, 1, st.Page)
	assert.Len(t, st.Batches, 3, "el cambio de filtro reemplaza, no acumula")
	for _, b := range st.Batches {
		assert.Contains(t, b.ID, "sold_out-p1", "todos los lotes deben venir del filtro nuevo")
	}
}

// Caso 4: un error de red conserva el último estado bueno conocido.
func TestFeed_ErrorConservaUltimoEstadoBueno(t *testing.T) {
	g := pagedGateway(2)
	f := ledger.NewLocationBatchFeed(g, "prod-1", "loc-1")
	require.NoError(t, f.Load(context.Background(), ledger.FilterAll, 1, false))

	g.batchesFn = func(_ context.Context, _ string, _ ledger.BatchQuery) (*ledger.BatchPage, error) {
		return nil, errors.New("timeout")
	}
	err := f.LoadMore(context.Background())
	require.Error(t, err)

	st := f.State()
	assert.Len(t, st.Batches, 3, "lo acumulado no se pierde ante un fallo")
	assert.Error(t, st.LastErr)
	assert.False(t, st.Loading, "el control de carga se libera tras el fallo")
}

// Caso 5: un Reset en vuelo invalida la respuesta pendiente. La página que
// llega después del reset se descarta en lugar de contaminar el filtro nuevo.
func TestFeed_Reset_DescartaRespuestaEnVuelo(t *testing.T) {
	g := newFakeGateway()
	f := ledger.NewLocationBatchFeed(g, "prod-1", "loc-1")

	g.batchesFn = func(_ context.Context, _ string, q ledger.BatchQuery) (*ledger.BatchPage, error) {
		// Simula que el usuario cambió el filtro mientras la petición volaba.
		f.Reset(ledger.FilterSoldOut)
		return &ledger.BatchPage{
			Batches:           batchesOf(q.Filter, q.Page, 3),
			BatchesPagination: entity.Pagination{CurrentPage: 1, TotalPages: 1},
		}, nil
	}

	require.NoError(t, f.Load(context.Background(), ledger.FilterAll, 1, false))
	st := f.State()
	assert.Empty(t, st.Batches, "la respuesta obsoleta debe descartarse")
	assert.Equal(t, ledger.FilterSoldOut, st.Filter, "el filtro del reset se mantiene")
}

// Caso 6: con una carga en vuelo, cargar más es un no-op silencioso: ni error
// de ocupado ni petición duplicada al remoto.
func TestFeed_LoadMoreEnVuelo_NoOpSilencioso(t *testing.T) {
	g := pagedGateway(2)
	f := ledger.NewLocationBatchFeed(g, "prod-1", "loc-1")
	require.NoError(t, f.Load(context.Background(), ledger.FilterAll, 1, false))

	started := make(chan struct{})
	release := make(chan struct{})
	paged := g.batchesFn
	g.batchesFn = func(ctx context.Context, productID string, q ledger.BatchQuery) (*ledger.BatchPage, error) {
		close(started)
		<-release
		return paged(ctx, productID, q)
	}

	done := make(chan error, 1)
	go func() { done <- f.LoadMore(context.Background()) }()
	<-started

	require.NoError(t, f.LoadMore(context.Background()),
		"un segundo cargar más no debe degradar a error de ocupado")
	assert.Equal(t, 2, g.count("BatchesAndDefects"), "solo la carga original toca el remoto")

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("la carga original no terminó")
	}
	assert.Len(t, f.State().Batches, 6)
}
